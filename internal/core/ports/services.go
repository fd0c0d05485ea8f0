package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"offerwall-rewards/internal/core/domain"

	"github.com/google/uuid"
)

// SignatureService verifies provider postback signatures.
type SignatureService interface {
	// MD5Hex returns the lowercase hex MD5 of the concatenated parts.
	MD5Hex(parts ...string) string
	// VerifyMD5 compares signature against MD5Hex(parts...) in constant time.
	VerifyMD5(signature string, parts ...string) bool
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(user *domain.User) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// PostbackResultCache is the Redis-layer duplicate check (fast path).
type PostbackResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached result JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PostbackLock guards a postback key while it is being processed.
type PostbackLock interface {
	// Acquire reports whether the lock was taken. The returned token must be
	// passed to Release, which only drops the lock while that token holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

// AdminNotifier tells operators about events needing manual action.
type AdminNotifier interface {
	NotifyWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) error
}

// --- Service Ports (Business Logic) ---

// PostbackService credits or debits balances from validated provider postbacks.
type PostbackService interface {
	Process(ctx context.Context, postback *domain.Postback) (*PostbackResult, error)
}

// PostbackResult is the outcome of a processed postback.
type PostbackResult struct {
	ConversionID uuid.UUID `json:"conversion_id"`
	Duplicate    bool      `json:"duplicate"`
	Applied      int64     `json:"applied"`
	Balance      int64     `json:"balance"`
}

// WithdrawalService defines the user side of withdrawals.
type WithdrawalService interface {
	Submit(ctx context.Context, req WithdrawalRequest) (*domain.Withdrawal, error)
	ListMine(ctx context.Context, userID uuid.UUID, page ListParams) ([]domain.Withdrawal, int64, error)
	// GetMine returns one of the caller's requests; other users' requests are not found.
	GetMine(ctx context.Context, userID, withdrawalID uuid.UUID) (*domain.Withdrawal, error)
}

// WithdrawalRequest holds input for a withdrawal submission.
type WithdrawalRequest struct {
	UserID   uuid.UUID
	Coin     string
	Address  string
	Amount   int64
	ClientIP string
}

// AdminService defines the admin review of withdrawals.
type AdminService interface {
	ListWithdrawals(ctx context.Context, adminID uuid.UUID, params WithdrawalListParams) ([]domain.Withdrawal, int64, error)
	Approve(ctx context.Context, req ReviewRequest) (*domain.Withdrawal, error)
	Reject(ctx context.Context, req ReviewRequest) (*domain.Withdrawal, error)
}

// ReviewRequest holds input for approving or rejecting a withdrawal.
type ReviewRequest struct {
	AdminID      uuid.UUID
	WithdrawalID uuid.UUID
	TxHash       *string
	Note         *string
}

// AccountService defines read-only account queries.
type AccountService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Balance, error)
	ListConversions(ctx context.Context, userID uuid.UUID, page ListParams) ([]domain.Conversion, int64, error)
}

// AuthService defines the local identity provider.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for user registration.
type RegisterRequest struct {
	Email    string
	Password string
}

// AuditService records audit entries without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// HealthChecker is a dependency probed by GET /health.
type HealthChecker interface {
	Name() string
	Ping(ctx context.Context) error
}
