package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
	"github.com/axellelanca/linkshortener/internal/keys"
	"github.com/axellelanca/linkshortener/internal/models"
)

// Forward record fields.
const (
	fieldURL    = "url"
	fieldHash   = "hash"
	fieldClicks = "clicks"
)

const scanCount = 100

// RedisLinkRepository stores links in Redis:
//
//	<prefix>counter          INCR
//	<prefix>url:<digest>     string, the hash
//	<prefix>hash:<hash>      hash {url, hash, clicks}
type RedisLinkRepository struct {
	client *redis.Client
	keys   keys.Namespace
}

func NewRedisLinkRepository(client *redis.Client, ns keys.Namespace) *RedisLinkRepository {
	return &RedisLinkRepository{client: client, keys: ns}
}

func (r *RedisLinkRepository) NextCounter(ctx context.Context) (int64, error) {
	n, err := r.client.Incr(ctx, r.keys.CounterKey()).Result()
	if err != nil {
		return 0, customerrors.StoreUnavailable("incr counter", err)
	}
	return n, nil
}

func (r *RedisLinkRepository) FindHashByURL(ctx context.Context, longURL string) (string, error) {
	hash, err := r.client.Get(ctx, r.keys.URLKey(longURL)).Result()
	if err == redis.Nil {
		return "", customerrors.ErrNotFound
	}
	if err != nil {
		return "", customerrors.StoreUnavailable("find url", err)
	}
	return hash, nil
}

func (r *RedisLinkRepository) FindLink(ctx context.Context, hash string) (*models.Link, error) {
	cmd := r.client.HGetAll(ctx, r.keys.HashKey(hash))
	fields, err := cmd.Result()
	if err != nil {
		return nil, customerrors.StoreUnavailable("find hash", err)
	}
	if fields[fieldURL] == "" {
		return nil, customerrors.ErrNotFound
	}

	var link models.Link
	if err := cmd.Scan(&link); err != nil {
		// clicks is not an integer
		return nil, customerrors.ErrNotFound
	}
	if link.Hash == "" {
		link.Hash = hash
	}
	return &link, nil
}

// errHashTaken aborts a create whose token already has a forward record.
var errHashTaken = errors.New("hash already assigned")

// CreateLink watches the reverse index key and the forward record key so
// that the SET NX and HSET in the MULTI block only commit if no other writer
// indexed the URL or claimed the token in between. A lost race leaves no
// forward record behind and an existing forward record is never rewritten.
func (r *RedisLinkRepository) CreateLink(ctx context.Context, link *models.Link) (*models.Link, bool, error) {
	urlKey := r.keys.URLKey(link.LongURL)
	hashKey := r.keys.HashKey(link.Hash)

	var existing string
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		hash, err := tx.Get(ctx, urlKey).Result()
		if err == nil {
			existing = hash
			return nil
		}
		if err != redis.Nil {
			return err
		}

		taken, err := tx.Exists(ctx, hashKey).Result()
		if err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("%w: %s", errHashTaken, link.Hash)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetNX(ctx, urlKey, link.Hash, 0)
			pipe.HSet(ctx, hashKey,
				fieldURL, link.LongURL,
				fieldHash, link.Hash,
				fieldClicks, 0,
			)
			return nil
		})
		return err
	}, urlKey, hashKey)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		// either key changed; only a concurrent index of the same URL is a win for someone else
		hash, err := r.FindHashByURL(ctx, link.LongURL)
		if errors.Is(err, customerrors.ErrNotFound) {
			return nil, false, customerrors.TransactionFailed("create link", redis.TxFailedErr)
		}
		if err != nil {
			return nil, false, err
		}
		return &models.Link{Hash: hash, LongURL: link.LongURL}, false, nil
	case err != nil:
		return nil, false, customerrors.TransactionFailed("create link", err)
	case existing != "":
		return &models.Link{Hash: existing, LongURL: link.LongURL}, false, nil
	}
	return &models.Link{Hash: link.Hash, LongURL: link.LongURL}, true, nil
}

func (r *RedisLinkRepository) ListLinks(ctx context.Context) ([]models.Link, error) {
	prefix := len(r.keys.HashKey(""))

	var links []models.Link
	// SCAN may return a key more than once
	seen := make(map[string]struct{})
	iter := r.client.Scan(ctx, 0, r.keys.HashPattern(), scanCount).Iterator()
	for iter.Next(ctx) {
		hash := iter.Val()[prefix:]
		if _, dup := seen[hash]; dup {
			continue
		}
		seen[hash] = struct{}{}

		link, err := r.FindLink(ctx, hash)
		if errors.Is(err, customerrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	if err := iter.Err(); err != nil {
		return nil, customerrors.StoreUnavailable("list links", err)
	}
	return links, nil
}
