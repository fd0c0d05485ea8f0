package service

import (
	"context"
	"fmt"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	userRepo       ports.UserRepository
	balanceRepo    ports.BalanceRepository
	conversionRepo ports.ConversionRepository
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	userRepo ports.UserRepository,
	balanceRepo ports.BalanceRepository,
	conversionRepo ports.ConversionRepository,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		userRepo:       userRepo,
		balanceRepo:    balanceRepo,
		conversionRepo: conversionRepo,
	}
}

func (s *AccountServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}
	return user, nil
}

func (s *AccountServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Balance, error) {
	balance, err := s.balanceRepo.Get(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}
	return balance, nil
}

func (s *AccountServiceImpl) ListConversions(ctx context.Context, userID uuid.UUID, page ports.ListParams) ([]domain.Conversion, int64, error) {
	list, total, err := s.conversionRepo.ListByUser(ctx, userID, page.Normalize())
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list conversions: %w", err))
	}
	return list, total, nil
}
