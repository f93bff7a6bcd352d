package persistence

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/office-helpdesk/internal/config"
)

// ErrKeyNotFound is returned by Get when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is durable storage of opaque string blobs by key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close()
}

// Open returns the backend selected by cfg.Storage.Driver. When the backend
// cannot be reached the in-memory store is used instead.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) KeyValueStore {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		store := NewRedis(cfg.Redis, logger)
		if err := store.Ping(ctx); err != nil {
			logger.Warn("redis unavailable; using in-memory storage", zap.Error(err))
			store.Close()
			return NewMemoryStore()
		}
		return store
	case config.StorageDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil || pg.PoolHandle() == nil {
			logger.Warn("postgres unavailable; using in-memory storage", zap.Error(err))
			return NewMemoryStore()
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Warn("migrations failed; using in-memory storage", zap.Error(err))
				pg.Close()
				return NewMemoryStore()
			}
		}
		return pg
	default:
		return NewMemoryStore()
	}
}
