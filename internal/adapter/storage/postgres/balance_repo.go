package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"offerwall-rewards/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BalanceRepo implements ports.BalanceRepository.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// Get reads the balance without locking. Users without a row have zero points.
func (r *BalanceRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.Balance, error) {
	query := `SELECT user_id, points, updated_at FROM balances WHERE user_id = $1`

	b := &domain.Balance{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(&b.UserID, &b.Points, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Balance{UserID: userID, UpdatedAt: time.Now().UTC()}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate creates the balance row on first use and locks it.
// This MUST be called within a transaction.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Balance, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO balances (user_id, points, updated_at) VALUES ($1, 0, NOW()) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure balance row: %w", err)
	}

	b := &domain.Balance{}
	err = tx.QueryRow(ctx,
		`SELECT user_id, points, updated_at FROM balances WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&b.UserID, &b.Points, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// Update writes the new points total within a transaction.
func (r *BalanceRepo) Update(ctx context.Context, tx pgx.Tx, b *domain.Balance) error {
	tag, err := tx.Exec(ctx,
		`UPDATE balances SET points = $1, updated_at = NOW() WHERE user_id = $2`,
		b.Points, b.UserID,
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance not found: %s", b.UserID)
	}
	return nil
}
