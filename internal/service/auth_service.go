package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
)

const minPasswordLength = 8

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo    ports.UserRepository
	hashSvc     ports.HashService
	tokenSvc    ports.TokenService
	adminEmails map[string]struct{}
}

// NewAuthService creates a new AuthServiceImpl.
// Accounts registering with an address in adminEmails are flagged admin.
func NewAuthService(
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	adminEmails []string,
) *AuthServiceImpl {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = struct{}{}
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		hashSvc:     hashSvc,
		tokenSvc:    tokenSvc,
		adminEmails: admins,
	}
}

// Register creates a new user account.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.Validation("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	_, isAdmin := s.adminEmails[email]
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperror.HasCode(err, "AUTH_002") {
			return nil, err
		}
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	return user, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(user)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
