package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
	"github.com/axellelanca/linkshortener/internal/metrics"
	"github.com/axellelanca/linkshortener/internal/models"
	"github.com/axellelanca/linkshortener/internal/repository"
)

// ClickRecorder accepts clicks without making the caller wait.
type ClickRecorder interface {
	RecordClick(hash string)
}

// ClickAccountant counts clicks on a pool of worker goroutines fed by a
// buffered channel. Counting is best effort: when the buffer is full or the
// store fails, the click is logged and dropped.
type ClickAccountant struct {
	clickRepo repository.ClickRepository
	events    chan models.ClickEvent
	timeout   time.Duration
	logger    logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewClickAccountant starts workerCount workers. Each increment gets its own
// timeout, independent of the request that produced the click.
func NewClickAccountant(clickRepo repository.ClickRepository, bufferSize, workerCount int, timeout time.Duration, logger logrus.FieldLogger) *ClickAccountant {
	a := &ClickAccountant{
		clickRepo: clickRepo,
		events:    make(chan models.ClickEvent, bufferSize),
		timeout:   timeout,
		logger:    logger.WithField("component", "clicks"),
	}

	a.logger.Infof("Starting %d click worker(s)...", workerCount)
	for i := 0; i < workerCount; i++ {
		a.wg.Add(1)
		go a.worker()
	}
	return a
}

// RecordClick queues a click for hash and returns immediately.
func (a *ClickAccountant) RecordClick(hash string) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		metrics.ClicksDropped.WithLabelValues("closed").Inc()
		a.logger.WithField("hash", hash).Warn("click accountant closed, dropping click")
		return
	}

	select {
	case a.events <- models.ClickEvent{Hash: hash, Timestamp: time.Now()}:
	default:
		metrics.ClicksDropped.WithLabelValues("buffer_full").Inc()
		a.logger.WithField("hash", hash).Warn("click buffer is full, dropping click")
	}
}

// Close stops accepting clicks and waits for queued ones to be applied.
func (a *ClickAccountant) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.events)
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Info("click workers stopped")
}

func (a *ClickAccountant) worker() {
	defer a.wg.Done()
	for event := range a.events {
		a.apply(event)
	}
}

func (a *ClickAccountant) apply(event models.ClickEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.clickRepo.IncrementClicks(ctx, event.Hash); err != nil {
		metrics.ClicksDropped.WithLabelValues("store").Inc()
		a.logger.WithError(customerrors.ErrClickRecordingFailed{Hash: event.Hash, Reason: err.Error()}).
			WithField("clicked_at", event.Timestamp).
			Error("click not recorded")
		return
	}
	metrics.ClicksRecorded.Inc()
	a.logger.WithField("hash", event.Hash).Debug("click recorded")
}
