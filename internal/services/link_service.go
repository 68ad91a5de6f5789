// Package services contains the link workflow and click accounting
package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
	"github.com/axellelanca/linkshortener/internal/metrics"
	"github.com/axellelanca/linkshortener/internal/models"
	"github.com/axellelanca/linkshortener/internal/repository"
)

// IDGenerator mints a new short token.
type IDGenerator interface {
	NextID(ctx context.Context) (string, error)
}

// LinkService shortens URLs and resolves hashes against the link store.
// None of its operations retry; that is left to the caller.
type LinkService struct {
	linkRepo  repository.LinkRepository
	generator IDGenerator
	clicks    ClickRecorder
	logger    logrus.FieldLogger
}

func NewLinkService(linkRepo repository.LinkRepository, generator IDGenerator, clicks ClickRecorder, logger logrus.FieldLogger) *LinkService {
	return &LinkService{
		linkRepo:  linkRepo,
		generator: generator,
		clicks:    clicks,
		logger:    logger.WithField("component", "links"),
	}
}

// Shorten returns the hash of longURL, minting one on first use.
//
// Two concurrent calls for an unseen URL may both mint a token; the store
// keeps the first one written and the other caller gets it back too.
// A failed create is safe to retry since the lookup runs again.
func (s *LinkService) Shorten(ctx context.Context, longURL string) (*models.Link, error) {
	if longURL == "" {
		return nil, customerrors.ErrInvalidURL
	}

	hash, err := s.linkRepo.FindHashByURL(ctx, longURL)
	if err == nil {
		metrics.LinksReused.Inc()
		return &models.Link{Hash: hash, LongURL: longURL}, nil
	}
	if !errors.Is(err, customerrors.ErrNotFound) {
		return nil, s.fail("shorten", err)
	}

	id, err := s.generator.NextID(ctx)
	if err != nil {
		return nil, s.fail("shorten", err)
	}

	link, created, err := s.linkRepo.CreateLink(ctx, &models.Link{Hash: id, LongURL: longURL})
	if err != nil {
		return nil, s.fail("shorten", err)
	}

	log := s.logger.WithFields(logrus.Fields{"hash": link.Hash, "long_url": longURL})
	if !created {
		metrics.LinksReused.Inc()
		log.WithField("discarded", id).Debug("lost create race, returning existing hash")
		return link, nil
	}
	metrics.LinksCreated.Inc()
	log.Info("short link created")
	return link, nil
}

// Resolve returns the record for hash. With recordClick, a click is handed
// to the accountant; the returned count does not include it.
func (s *LinkService) Resolve(ctx context.Context, hash string, recordClick bool) (*models.Link, error) {
	if hash == "" {
		return nil, customerrors.ErrNotFound
	}

	link, err := s.linkRepo.FindLink(ctx, hash)
	if err != nil {
		if errors.Is(err, customerrors.ErrNotFound) {
			return nil, err
		}
		return nil, s.fail("resolve", err)
	}

	if recordClick {
		s.clicks.RecordClick(link.Hash)
	}
	return link, nil
}

func (s *LinkService) fail(op string, err error) error {
	metrics.StoreErrors.WithLabelValues(op, errorKind(err)).Inc()
	s.logger.WithError(err).WithField("op", op).Warn("link operation failed")
	return err
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, customerrors.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, customerrors.ErrTransactionFailed):
		return "transaction_failed"
	case errors.Is(err, customerrors.ErrCounterExhausted):
		return "counter_exhausted"
	default:
		return "other"
	}
}
