package postgres

import (
	"context"
	"errors"
	"time"
)

var errSchemaMissing = errors.New("schema not migrated: balances table missing")

// HealthCheck implements ports.HealthChecker for PostgreSQL.
// A reachable database without the schema is reported unhealthy.
type HealthCheck struct {
	pool    Pool
	timeout time.Duration
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool, timeout: 2 * time.Second}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var ready bool
	if err := h.pool.QueryRow(ctx, `SELECT to_regclass('public.balances') IS NOT NULL`).Scan(&ready); err != nil {
		return err
	}
	if !ready {
		return errSchemaMissing
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
