package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WithdrawalServiceImpl implements ports.WithdrawalService.
type WithdrawalServiceImpl struct {
	withdrawalRepo ports.WithdrawalRepository
	balanceRepo    ports.BalanceRepository
	transactor     ports.DBTransactor
	notifier       ports.AdminNotifier
	audit          ports.AuditService
	coins          map[string]struct{}
	minAmount      int64
	log            zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	withdrawalRepo ports.WithdrawalRepository,
	balanceRepo ports.BalanceRepository,
	transactor ports.DBTransactor,
	notifier ports.AdminNotifier,
	audit ports.AuditService,
	coins []string,
	minAmount int64,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	allowed := make(map[string]struct{}, len(coins))
	for _, c := range coins {
		allowed[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	return &WithdrawalServiceImpl{
		withdrawalRepo: withdrawalRepo,
		balanceRepo:    balanceRepo,
		transactor:     transactor,
		notifier:       notifier,
		audit:          audit,
		coins:          allowed,
		minAmount:      minAmount,
		log:            log,
	}
}

// Submit validates a withdrawal request and reserves its points.
// The request is stored as PENDING until an admin reviews it.
func (s *WithdrawalServiceImpl) Submit(ctx context.Context, req ports.WithdrawalRequest) (*domain.Withdrawal, error) {
	coin := strings.ToUpper(strings.TrimSpace(req.Coin))
	addr := strings.TrimSpace(req.Address)

	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Amount < s.minAmount {
		return nil, apperror.ErrAmountBelowMinimum(s.minAmount)
	}
	if _, ok := s.coins[coin]; !ok {
		return nil, apperror.ErrUnsupportedCoin(coin)
	}
	if !ValidAddress(coin, addr) {
		return nil, apperror.ErrInvalidAddress()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	balance, err := s.balanceRepo.GetForUpdate(ctx, dbTx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if !balance.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientPoints()
	}
	balance.Apply(-req.Amount)

	if err := s.balanceRepo.Update(ctx, dbTx, balance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reserve points: %w", err))
	}

	w := &domain.Withdrawal{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Coin:      coin,
		Address:   addr,
		Amount:    req.Amount,
		Status:    domain.WithdrawalStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.withdrawalRepo.Create(ctx, dbTx, w); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create withdrawal: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if err := s.notifier.NotifyWithdrawal(ctx, w); err != nil {
		s.log.Warn().Err(err).Str("withdrawal_id", w.ID.String()).Msg("failed to notify admins")
	}

	s.audit.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &req.UserID,
		Action:       domain.AuditActionWithdrawalRequest,
		ResourceType: "withdrawal",
		ResourceID:   w.ID.String(),
		Details:      mustJSON(map[string]any{"coin": coin, "amount": req.Amount}),
		IPAddress:    req.ClientIP,
		CreatedAt:    w.CreatedAt,
	})

	s.log.Info().
		Str("withdrawal_id", w.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("coin", coin).
		Int64("amount", req.Amount).
		Msg("withdrawal requested")

	return w, nil
}

// ListMine returns the caller's withdrawal requests, newest first.
func (s *WithdrawalServiceImpl) ListMine(ctx context.Context, userID uuid.UUID, page ports.ListParams) ([]domain.Withdrawal, int64, error) {
	list, total, err := s.withdrawalRepo.List(ctx, ports.WithdrawalListParams{
		UserID:     &userID,
		ListParams: page.Normalize(),
	})
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list withdrawals: %w", err))
	}
	return list, total, nil
}

func (s *WithdrawalServiceImpl) GetMine(ctx context.Context, userID, withdrawalID uuid.UUID) (*domain.Withdrawal, error) {
	w, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get withdrawal: %w", err))
	}
	if w == nil || w.UserID != userID {
		return nil, apperror.ErrNotFound("withdrawal")
	}
	return w, nil
}
