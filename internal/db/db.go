package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName = "storefront-service"
	// One row per snapshot key and one writer per transition; a handful of
	// connections is plenty.
	maxConns = 4
)

// NewPool opens the pool backing the Postgres snapshot repository. It does
// not ping; callers check reachability themselves.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	return pgxpool.NewWithConfig(ctx, cfg)
}
