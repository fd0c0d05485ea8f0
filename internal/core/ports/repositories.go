package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"offerwall-rewards/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// IsAdmin is the authorization check gating review operations.
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}

// BalanceRepository defines persistence operations for points balances.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type BalanceRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Balance, error)
	// GetForUpdate locks the balance row, creating a zero row if none exists.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Balance, error)
	Update(ctx context.Context, tx pgx.Tx, balance *domain.Balance) error
}

// ConversionRepository defines persistence for the postback conversion log.
type ConversionRepository interface {
	// Create returns apperror.ErrDuplicatePostback when (provider, tx_id, kind) exists.
	Create(ctx context.Context, tx pgx.Tx, conversion *domain.Conversion) error
	Exists(ctx context.Context, provider string, kind domain.ConversionKind, txID string) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page ListParams) ([]domain.Conversion, int64, error)
}

// WithdrawalRepository defines persistence operations for withdrawal requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, tx pgx.Tx, withdrawal *domain.Withdrawal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Withdrawal, error)
	UpdateReview(ctx context.Context, tx pgx.Tx, withdrawal *domain.Withdrawal) error
	List(ctx context.Context, params WithdrawalListParams) ([]domain.Withdrawal, int64, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ListParams holds pagination input.
type ListParams struct {
	Page     int
	PageSize int
}

// Normalize clamps page to >= 1 and page size to 1..100 (default 20).
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Offset returns the row offset of the page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// WithdrawalListParams holds filter + pagination for listing withdrawals.
type WithdrawalListParams struct {
	UserID *uuid.UUID
	Status *domain.WithdrawalStatus
	ListParams
}
