package handler_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Users ---

type memUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperror.ErrEmailExists()
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	u, _ := r.GetByID(ctx, id)
	return u != nil && u.IsAdmin, nil
}

// --- Balances ---

type memBalanceRepo struct {
	mu       sync.RWMutex
	balances map[uuid.UUID]domain.Balance
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{balances: make(map[uuid.UUID]domain.Balance)}
}

func (r *memBalanceRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.balances[userID]
	if !ok {
		return &domain.Balance{UserID: userID}, nil
	}
	return &b, nil
}

// GetForUpdate relies on memTransactor to serialise writers.
func (r *memBalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Balance, error) {
	return r.Get(ctx, userID)
}

func (r *memBalanceRepo) Update(ctx context.Context, tx pgx.Tx, b *domain.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[b.UserID] = *b
	return nil
}

// --- Conversions ---

type memConversionRepo struct {
	mu          sync.RWMutex
	conversions []domain.Conversion
}

func newMemConversionRepo() *memConversionRepo {
	return &memConversionRepo{}
}

func (r *memConversionRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Conversion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.conversions {
		if existing.Provider == c.Provider && existing.Kind == c.Kind && existing.TxID == c.TxID {
			return apperror.ErrDuplicatePostback()
		}
	}
	r.conversions = append(r.conversions, *c)
	return nil
}

func (r *memConversionRepo) Exists(ctx context.Context, provider string, kind domain.ConversionKind, txID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.conversions {
		if c.Provider == provider && c.Kind == kind && c.TxID == txID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memConversionRepo) ListByUser(ctx context.Context, userID uuid.UUID, page ports.ListParams) ([]domain.Conversion, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Conversion
	for _, c := range r.conversions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

// --- Withdrawals ---

type memWithdrawalRepo struct {
	mu          sync.RWMutex
	withdrawals map[uuid.UUID]domain.Withdrawal
}

func newMemWithdrawalRepo() *memWithdrawalRepo {
	return &memWithdrawalRepo{withdrawals: make(map[uuid.UUID]domain.Withdrawal)}
}

func (r *memWithdrawalRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.withdrawals[w.ID] = *w
	return nil
}

func (r *memWithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.withdrawals[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *memWithdrawalRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Withdrawal, error) {
	return r.GetByID(ctx, id)
}

func (r *memWithdrawalRepo) UpdateReview(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.withdrawals[w.ID] = *w
	return nil
}

func (r *memWithdrawalRepo) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.Withdrawal, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Withdrawal
	for _, w := range r.withdrawals {
		if params.UserID != nil && w.UserID != *params.UserID {
			continue
		}
		if params.Status != nil && w.Status != *params.Status {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, params.ListParams), int64(len(out)), nil
}

func paginate[T any](items []T, page ports.ListParams) []T {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := min(start+page.PageSize, len(items))
	return items[start:end]
}

// --- Audit ---

type memAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (r *memAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// --- Transactor ---

// memTransactor runs one transaction at a time, standing in for row locks.
type memTransactor struct {
	mu sync.Mutex
}

func (t *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: sync.OnceFunc(t.mu.Unlock)}, nil
}

type memTx struct {
	pgx.Tx
	release func()
}

func (t *memTx) Commit(ctx context.Context) error   { t.release(); return nil }
func (t *memTx) Rollback(ctx context.Context) error { t.release(); return nil }
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
