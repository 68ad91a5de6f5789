package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/axellelanca/linkshortener/internal/config"
	"github.com/axellelanca/linkshortener/internal/db"
	"github.com/axellelanca/linkshortener/internal/keys"
	"github.com/axellelanca/linkshortener/internal/repository"
	"github.com/axellelanca/linkshortener/internal/services"
	"github.com/axellelanca/linkshortener/internal/shortid"
)

// App is the link core wired against the configured store.
type App struct {
	Links       repository.LinkRepository
	Generator   *shortid.Generator
	Clicks      *services.ClickAccountant
	LinkService *services.LinkService

	closeStore func() error
}

// NewApp connects to the store and starts the click workers.
// Close must be called on every exit path.
func NewApp(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*App, error) {
	ns := keys.New(cfg.Keys.Prefix)
	app := &App{}

	switch cfg.Store.Driver {
	case config.DriverRedis:
		client, err := db.NewRedisClient(ctx, db.RedisOptions{
			Addr:         cfg.RedisAddr(),
			Password:     cfg.Store.Redis.Password,
			DB:           cfg.Store.Redis.DB,
			PoolSize:     cfg.Store.Redis.PoolSize,
			MinIdleConns: cfg.Store.Redis.MinIdleConns,
			DialTimeout:  cfg.RedisDialTimeout(),
		})
		if err != nil {
			return nil, err
		}
		app.Links = repository.NewRedisLinkRepository(client, ns)
		app.closeStore = client.Close
		logger.WithField("addr", cfg.RedisAddr()).Info("connected to Redis")

	case config.DriverSQLite:
		gdb, err := db.OpenSQLite(cfg.Store.SQLite.Name)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(gdb); err != nil {
			db.CloseSQLite(gdb)
			return nil, err
		}
		app.Links = repository.NewLinkRepository(gdb, ns)
		app.closeStore = func() error { return db.CloseSQLite(gdb) }
		logger.WithField("name", cfg.Store.SQLite.Name).Info("opened SQLite store")

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	generator, err := shortid.New(app.Links, shortid.WithJitter(cfg.Generator.JitterMin, cfg.Generator.JitterMax))
	if err != nil {
		app.closeStore()
		return nil, err
	}
	app.Generator = generator
	app.Clicks = services.NewClickAccountant(app.Links, cfg.Analytics.BufferSize, cfg.Analytics.WorkerCount, cfg.ClickTimeout(), logger)
	app.LinkService = services.NewLinkService(app.Links, generator, app.Clicks, logger)
	return app, nil
}

// Close drains pending clicks, then releases the store.
func (a *App) Close() error {
	a.Clicks.Close()
	return a.closeStore()
}
