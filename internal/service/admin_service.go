package service

import (
	"context"
	"fmt"
	"time"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminServiceImpl implements ports.AdminService.
// Every operation re-checks the admin flag in storage, so a revoked admin
// loses access before their token expires.
type AdminServiceImpl struct {
	userRepo       ports.UserRepository
	withdrawalRepo ports.WithdrawalRepository
	balanceRepo    ports.BalanceRepository
	transactor     ports.DBTransactor
	audit          ports.AuditService
	log            zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(
	userRepo ports.UserRepository,
	withdrawalRepo ports.WithdrawalRepository,
	balanceRepo ports.BalanceRepository,
	transactor ports.DBTransactor,
	audit ports.AuditService,
	log zerolog.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		userRepo:       userRepo,
		withdrawalRepo: withdrawalRepo,
		balanceRepo:    balanceRepo,
		transactor:     transactor,
		audit:          audit,
		log:            log,
	}
}

// ListWithdrawals lists requests across all users with an optional status filter.
func (s *AdminServiceImpl) ListWithdrawals(ctx context.Context, adminID uuid.UUID, params ports.WithdrawalListParams) ([]domain.Withdrawal, int64, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}

	params.ListParams = params.ListParams.Normalize()
	list, total, err := s.withdrawalRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list withdrawals: %w", err))
	}
	return list, total, nil
}

// Approve marks a pending request as paid out.
func (s *AdminServiceImpl) Approve(ctx context.Context, req ports.ReviewRequest) (*domain.Withdrawal, error) {
	return s.review(ctx, req, domain.WithdrawalStatusApproved)
}

// Reject marks a pending request as rejected and refunds its reserved points.
func (s *AdminServiceImpl) Reject(ctx context.Context, req ports.ReviewRequest) (*domain.Withdrawal, error) {
	req.TxHash = nil
	return s.review(ctx, req, domain.WithdrawalStatusRejected)
}

func (s *AdminServiceImpl) review(ctx context.Context, req ports.ReviewRequest, status domain.WithdrawalStatus) (*domain.Withdrawal, error) {
	if err := s.requireAdmin(ctx, req.AdminID); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	w, err := s.withdrawalRepo.GetByIDForUpdate(ctx, dbTx, req.WithdrawalID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock withdrawal: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrNotFound("withdrawal")
	}
	if !w.IsPending() {
		return nil, apperror.ErrWithdrawalNotPending()
	}

	if status == domain.WithdrawalStatusRejected {
		balance, err := s.balanceRepo.GetForUpdate(ctx, dbTx, w.UserID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
		}
		balance.Apply(w.Amount)
		if err := s.balanceRepo.Update(ctx, dbTx, balance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("refund points: %w", err))
		}
	}

	now := time.Now().UTC()
	w.Status = status
	w.TxHash = req.TxHash
	w.AdminNote = req.Note
	w.ReviewedBy = &req.AdminID
	w.ReviewedAt = &now

	if err := s.withdrawalRepo.UpdateReview(ctx, dbTx, w); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update withdrawal: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	action := domain.AuditActionWithdrawalApprove
	if status == domain.WithdrawalStatusRejected {
		action = domain.AuditActionWithdrawalReject
	}
	s.audit.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &req.AdminID,
		Action:       action,
		ResourceType: "withdrawal",
		ResourceID:   w.ID.String(),
		Details:      mustJSON(map[string]any{"user_id": w.UserID, "amount": w.Amount}),
		CreatedAt:    now,
	})

	s.log.Info().
		Str("withdrawal_id", w.ID.String()).
		Str("admin_id", req.AdminID.String()).
		Str("status", string(status)).
		Msg("withdrawal reviewed")

	return w, nil
}

func (s *AdminServiceImpl) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	ok, err := s.userRepo.IsAdmin(ctx, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check admin: %w", err))
	}
	if !ok {
		return apperror.ErrAdminRequired()
	}
	return nil
}
