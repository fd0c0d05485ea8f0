package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WithdrawalRepo implements ports.WithdrawalRepository.
type WithdrawalRepo struct {
	pool Pool
}

// NewWithdrawalRepo creates a new WithdrawalRepo.
func NewWithdrawalRepo(pool Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

const withdrawalColumns = `id, user_id, coin, address, amount, status, tx_hash, admin_note, reviewed_by, created_at, reviewed_at`

// Create inserts a withdrawal request within a transaction.
func (r *WithdrawalRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	query := `INSERT INTO withdrawals (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		w.ID, w.UserID, w.Coin, w.Address, w.Amount, w.Status,
		w.TxHash, w.AdminNote, w.ReviewedBy, w.CreatedAt, w.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// GetByID fetches a withdrawal without locking. Returns nil, nil when absent.
func (r *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`
	w, err := scanWithdrawal(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get withdrawal by id: %w", err)
	}
	return w, nil
}

// GetByIDForUpdate fetches a withdrawal with pessimistic locking.
// This MUST be called within a transaction.
func (r *WithdrawalRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1 FOR UPDATE`
	w, err := scanWithdrawal(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get withdrawal for update: %w", err)
	}
	return w, nil
}

// UpdateReview stores the outcome of an admin review.
func (r *WithdrawalRepo) UpdateReview(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	query := `UPDATE withdrawals SET status = $1, tx_hash = $2, admin_note = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $6`

	tag, err := tx.Exec(ctx, query, w.Status, w.TxHash, w.AdminNote, w.ReviewedBy, w.ReviewedAt, w.ID)
	if err != nil {
		return fmt.Errorf("update withdrawal review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal not found: %s", w.ID)
	}
	return nil
}

// List fetches withdrawals with optional user and status filters, newest first.
func (r *WithdrawalRepo) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.Withdrawal, int64, error) {
	page := params.ListParams.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *params.UserID)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM withdrawals %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count withdrawals: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT %s FROM withdrawals %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		withdrawalColumns, where, argIdx, argIdx+1)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan withdrawal row: %w", err)
		}
		withdrawals = append(withdrawals, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate withdrawal rows: %w", err)
	}
	return withdrawals, total, nil
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	w := &domain.Withdrawal{}
	err := row.Scan(
		&w.ID, &w.UserID, &w.Coin, &w.Address, &w.Amount, &w.Status,
		&w.TxHash, &w.AdminNote, &w.ReviewedBy, &w.CreatedAt, &w.ReviewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}
