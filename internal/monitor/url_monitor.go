package monitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
	"github.com/axellelanca/linkshortener/internal/models"
)

// LinkLister is the part of the link store the monitor reads.
type LinkLister interface {
	ListLinks(ctx context.Context) ([]models.Link, error)
}

// UrlMonitor periodically checks that stored long URLs still answer and
// logs every change of state.
type UrlMonitor struct {
	links       LinkLister
	interval    time.Duration
	knownStates map[string]bool // hash -> accessible
	mu          sync.Mutex
	httpClient  *http.Client
	logger      logrus.FieldLogger
}

func NewUrlMonitor(links LinkLister, interval time.Duration, logger logrus.FieldLogger) *UrlMonitor {
	return &UrlMonitor{
		links:       links,
		interval:    interval,
		knownStates: make(map[string]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger.WithField("component", "monitor"),
	}
}

// Start runs a check immediately, then every interval until ctx is done.
func (m *UrlMonitor) Start(ctx context.Context) {
	m.logger.Infof("Starting URL monitor with interval of %v", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.checkUrls(ctx)
	for {
		select {
		case <-ticker.C:
			m.checkUrls(ctx)
		case <-ctx.Done():
			m.logger.Info("URL monitor stopped")
			return
		}
	}
}

func (m *UrlMonitor) checkUrls(ctx context.Context) {
	links, err := m.links.ListLinks(ctx)
	if err != nil {
		m.logger.WithError(err).Error("retrieving links for monitoring")
		return
	}

	for _, link := range links {
		if ctx.Err() != nil {
			return
		}
		current := m.isUrlAccessible(ctx, link.LongURL)

		m.mu.Lock()
		previous, exists := m.knownStates[link.Hash]
		m.knownStates[link.Hash] = current
		m.mu.Unlock()

		log := m.logger.WithFields(logrus.Fields{"hash": link.Hash, "long_url": link.LongURL})
		if !exists {
			log.Debugf("initial state: %s", formatState(current))
			continue
		}
		if current != previous {
			log.Warnf("link changed from %s to %s", formatState(previous), formatState(current))
		}
	}
}

// state reports the last known accessibility of hash.
func (m *UrlMonitor) state(hash string) (accessible, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accessible, known = m.knownStates[hash]
	return accessible, known
}

// isUrlAccessible treats 2xx and 3xx answers to a HEAD request as accessible.
func (m *UrlMonitor) isUrlAccessible(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		m.logger.WithError(customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}).Debug("bad request")
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.WithError(customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}).Debug("unreachable")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
