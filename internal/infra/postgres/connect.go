package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/migrations"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

// Connect opens the pool and brings the schema up to date.
func Connect(ctx context.Context, cfg config.PostgresConfig, l logger.Logger) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	l.Info(ctx, "Connected to Postgres.")
	return pool, nil
}

func Disconnect(ctx context.Context, pool *pgxpool.Pool, l logger.Logger) {
	if pool == nil {
		return
	}

	pool.Close()
	l.Info(ctx, "Connection to Postgres closed.")
}
