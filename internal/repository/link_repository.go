package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
	"github.com/axellelanca/linkshortener/internal/keys"
	"github.com/axellelanca/linkshortener/internal/models"
)

// LinkRepository est une interface qui définit les primitives du store
// utilisées par le workflow des liens.
type LinkRepository interface {
	ClickRepository

	// NextCounter atomically increments the global counter and returns the new value.
	NextCounter(ctx context.Context) (int64, error)
	// FindHashByURL reads the reverse index; customerrors.ErrNotFound when absent.
	FindHashByURL(ctx context.Context, longURL string) (string, error)
	// FindLink reads the forward record; customerrors.ErrNotFound when absent or malformed.
	FindLink(ctx context.Context, hash string) (*models.Link, error)
	// CreateLink writes the reverse entry and the forward record as one unit,
	// only if the long URL has no hash yet. When another writer got there
	// first, the stored link is returned with created=false.
	CreateLink(ctx context.Context, link *models.Link) (stored *models.Link, created bool, err error)
	// ListLinks returns every well-formed forward record.
	ListLinks(ctx context.Context) ([]models.Link, error)
}

// GormLinkRepository est l'implémentation de LinkRepository utilisant GORM.
type GormLinkRepository struct {
	db   *gorm.DB
	keys keys.Namespace
}

// NewLinkRepository crée et retourne une nouvelle instance de GormLinkRepository.
func NewLinkRepository(db *gorm.DB, ns keys.Namespace) *GormLinkRepository {
	return &GormLinkRepository{db: db, keys: ns}
}

func (r *GormLinkRepository) NextCounter(ctx context.Context) (int64, error) {
	name := r.keys.CounterKey()

	var counter models.Counter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Counter{Name: name}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Counter{}).Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + ?", 1)).Error; err != nil {
			return err
		}
		return tx.First(&counter, "name = ?", name).Error
	})
	if err != nil {
		return 0, customerrors.StoreUnavailable("incr counter", err)
	}
	return counter.Value, nil
}

func (r *GormLinkRepository) FindHashByURL(ctx context.Context, longURL string) (string, error) {
	var idx models.URLIndex
	err := r.db.WithContext(ctx).First(&idx, "url_digest = ?", keys.URLDigest(longURL)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", customerrors.ErrNotFound
	}
	if err != nil {
		return "", customerrors.StoreUnavailable("find url", err)
	}
	return idx.Hash, nil
}

func (r *GormLinkRepository) FindLink(ctx context.Context, hash string) (*models.Link, error) {
	var link models.Link
	err := r.db.WithContext(ctx).First(&link, "hash = ?", hash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, customerrors.ErrNotFound
	}
	if err != nil {
		return nil, customerrors.StoreUnavailable("find hash", err)
	}
	if link.LongURL == "" {
		return nil, customerrors.ErrNotFound
	}
	return &link, nil
}

func (r *GormLinkRepository) CreateLink(ctx context.Context, link *models.Link) (*models.Link, bool, error) {
	created := true
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.URLIndex{
			URLDigest: keys.URLDigest(link.LongURL),
			Hash:      link.Hash,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// first writer wins, nothing else to write
			created = false
			return nil
		}
		return tx.Create(&models.Link{Hash: link.Hash, LongURL: link.LongURL}).Error
	})
	if err != nil {
		return nil, false, customerrors.TransactionFailed("create link", err)
	}
	if created {
		return &models.Link{Hash: link.Hash, LongURL: link.LongURL}, true, nil
	}

	hash, err := r.FindHashByURL(ctx, link.LongURL)
	if err != nil {
		return nil, false, err
	}
	return &models.Link{Hash: hash, LongURL: link.LongURL}, false, nil
}

// ListLinks récupère tous les liens de la base de données.
func (r *GormLinkRepository) ListLinks(ctx context.Context) ([]models.Link, error) {
	var links []models.Link
	if err := r.db.WithContext(ctx).Order("hash").Find(&links).Error; err != nil {
		return nil, customerrors.StoreUnavailable("list links", err)
	}
	return links, nil
}

var (
	_ LinkRepository = (*GormLinkRepository)(nil)
	_ LinkRepository = (*RedisLinkRepository)(nil)
)
