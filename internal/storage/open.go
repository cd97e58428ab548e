package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/store"
)

// Open connects the snapshot repository selected by cfg.Driver. The returned
// close func releases any pool or client it opened.
func Open(ctx context.Context, cfg config.Storage, logger *zap.Logger) (store.SnapshotRepository, func(), error) {
	noop := func() {}

	switch cfg.Driver {
	case config.StorageFile:
		logger.Info("using file storage", zap.String("dir", cfg.DataDir))
		return NewFileRepository(cfg.DataDir), noop, nil

	case config.StorageMemory:
		logger.Warn("using in-memory storage, state will not survive a restart")
		return NewMemory(), noop, nil

	case config.StoragePostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return nil, noop, fmt.Errorf("migrations: %w", err)
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("db connect: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("db ping: %w", err)
		}
		logger.Info("using postgres storage")
		return NewPostgresRepository(pool), pool.Close, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("using redis storage", zap.String("addr", cfg.RedisAddr))
		return NewRedisRepository(client), func() { _ = client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
