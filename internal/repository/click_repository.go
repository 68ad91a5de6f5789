package repository

import (
	"context"

	"gorm.io/gorm"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
	"github.com/axellelanca/linkshortener/internal/models"
)

// ClickRepository est une interface qui définit l'accès aux compteurs de clics.
type ClickRepository interface {
	// IncrementClicks atomically adds one to the clicks field of a forward record.
	IncrementClicks(ctx context.Context, hash string) error
}

func (r *GormLinkRepository) IncrementClicks(ctx context.Context, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.Link{}).Where("hash = ?", hash).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if res.Error != nil {
		return customerrors.StoreUnavailable("incr clicks", res.Error)
	}
	if res.RowsAffected == 0 {
		return customerrors.ErrNotFound
	}
	return nil
}

func (r *RedisLinkRepository) IncrementClicks(ctx context.Context, hash string) error {
	n, err := r.client.Exists(ctx, r.keys.HashKey(hash)).Result()
	if err != nil {
		return customerrors.StoreUnavailable("incr clicks", err)
	}
	if n == 0 {
		return customerrors.ErrNotFound
	}
	if err := r.client.HIncrBy(ctx, r.keys.HashKey(hash), fieldClicks, 1).Err(); err != nil {
		return customerrors.StoreUnavailable("incr clicks", err)
	}
	return nil
}
