package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/store"
)

// app holds what every command needs: config, logger and a loaded store.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  *store.Store
	feed   *notify.Feed

	closeStorage func()
}

// newApp loads the store and writes the result back, seeding a fresh key.
func newApp(ctx context.Context, override func(*config.Config)) (*app, error) {
	return openApp(ctx, override, false)
}

// newReadOnlyApp loads the store without persisting anything.
func newReadOnlyApp(ctx context.Context) (*app, error) {
	return openApp(ctx, nil, true)
}

func openApp(ctx context.Context, override func(*config.Config), readOnly bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if override != nil {
		override(&cfg)
	}

	logger, _, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	ids, err := store.NewIDGenerator(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}

	repo, closeStorage, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	feed := notify.NewFeed(notify.DefaultFeedSize)
	s := store.New(store.Options{
		Repository:  repo,
		Notifier:    notify.Multi{feed, notify.NewLogNotifier(logger)},
		IDs:         ids,
		Logger:      logger,
		Key:         cfg.Storage.Key,
		AdminSecret: cfg.Admin.Password,
	})
	if readOnly {
		s.Peek(ctx)
	} else {
		s.Load(ctx)
	}

	return &app{
		cfg:          cfg,
		logger:       logger,
		store:        s,
		feed:         feed,
		closeStorage: closeStorage,
	}, nil
}

func (a *app) Close() {
	a.closeStorage()
	_ = a.logger.Sync()
}
