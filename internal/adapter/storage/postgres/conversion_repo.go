package postgres

import (
	"context"
	"fmt"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ConversionRepo implements ports.ConversionRepository.
type ConversionRepo struct {
	pool Pool
}

// NewConversionRepo creates a new ConversionRepo.
func NewConversionRepo(pool Pool) *ConversionRepo {
	return &ConversionRepo{pool: pool}
}

// Create records a processed postback within a transaction.
// The (provider, tx_id, kind) unique constraint is the final duplicate guard.
func (r *ConversionRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Conversion) error {
	query := `INSERT INTO conversions (id, provider, tx_id, kind, user_id, coins, applied, payout, source_ip, raw_params, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var raw *string
	if c.RawParams != "" {
		raw = &c.RawParams
	}

	_, err := tx.Exec(ctx, query,
		c.ID, c.Provider, c.TxID, c.Kind, c.UserID,
		c.Coins, c.Applied, c.Payout, c.SourceIP, raw, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDuplicatePostback()
		}
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// Exists reports whether the postback was already recorded.
func (r *ConversionRepo) Exists(ctx context.Context, provider string, kind domain.ConversionKind, txID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM conversions WHERE provider = $1 AND tx_id = $2 AND kind = $3)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, provider, txID, kind).Scan(&exists); err != nil {
		return false, fmt.Errorf("check conversion exists: %w", err)
	}
	return exists, nil
}

// ListByUser returns a user's conversions, newest first.
func (r *ConversionRepo) ListByUser(ctx context.Context, userID uuid.UUID, page ports.ListParams) ([]domain.Conversion, int64, error) {
	page = page.Normalize()

	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM conversions WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count conversions: %w", err)
	}

	query := `SELECT id, provider, tx_id, kind, user_id, coins, applied, payout, source_ip, created_at
		FROM conversions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var conversions []domain.Conversion
	for rows.Next() {
		c := domain.Conversion{}
		err := rows.Scan(
			&c.ID, &c.Provider, &c.TxID, &c.Kind, &c.UserID,
			&c.Coins, &c.Applied, &c.Payout, &c.SourceIP, &c.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan conversion row: %w", err)
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate conversion rows: %w", err)
	}
	return conversions, total, nil
}
