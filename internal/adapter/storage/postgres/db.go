package postgres

import (
	"context"
	"fmt"
	"time"

	"offerwall-rewards/config"
	"offerwall-rewards/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPool connects to PostgreSQL, retrying the initial ping up to
// cfg.ConnectAttempts times so the API can start alongside its database.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	err = retry(ctx, cfg.ConnectAttempts, cfg.ConnectRetryDelay, func(attempt int) error {
		if err := pool.Ping(ctx); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("database not reachable yet")
			return err
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("dbname", cfg.DBName).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("postgres pool ready")

	return pool, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= pc.MaxConns {
		pc.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = logger.ServiceName
	return pc, nil
}

// retry calls fn until it succeeds, attempts run out, or ctx ends.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(i); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
