package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS balances (
		user_id    UUID PRIMARY KEY REFERENCES users(id),
		points     BIGINT NOT NULL DEFAULT 0 CHECK (points >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS conversions (
		id         UUID PRIMARY KEY,
		provider   TEXT NOT NULL,
		tx_id      TEXT NOT NULL,
		kind       TEXT NOT NULL,
		user_id    UUID NOT NULL REFERENCES users(id),
		coins      BIGINT NOT NULL,
		applied    BIGINT NOT NULL,
		payout     TEXT NOT NULL DEFAULT '',
		source_ip  TEXT NOT NULL DEFAULT '',
		raw_params JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (provider, tx_id, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id          UUID PRIMARY KEY,
		user_id     UUID NOT NULL REFERENCES users(id),
		coin        TEXT NOT NULL,
		address     TEXT NOT NULL,
		amount      BIGINT NOT NULL CHECK (amount > 0),
		status      TEXT NOT NULL,
		tx_hash     TEXT,
		admin_note  TEXT,
		reviewed_by UUID REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		reviewed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id            UUID PRIMARY KEY,
		user_id       UUID,
		action        TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT,
		details       JSONB,
		ip_address    TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversions_user ON conversions(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_withdrawals_user ON withdrawals(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_withdrawals_status ON withdrawals(status, created_at DESC)`,
}

// Migrate creates the tables the service needs if they do not exist yet.
func Migrate(ctx context.Context, pool Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
