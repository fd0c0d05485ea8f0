package handler

import (
	"context"
	"errors"
	"io"

	"offerwall-rewards/internal/adapter/http/dto"
	"offerwall-rewards/internal/adapter/http/middleware"
	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"
	"offerwall-rewards/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles withdrawal review.
type AdminHandler struct {
	svc ports.AdminService
}

func NewAdminHandler(svc ports.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListWithdrawals handles GET /api/v1/admin/withdrawals.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.AdminWithdrawalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	params := ports.WithdrawalListParams{
		ListParams: ports.ListParams{Page: q.Page, PageSize: q.PageSize}.Normalize(),
	}
	if q.Status != "" {
		st := domain.WithdrawalStatus(q.Status)
		params.Status = &st
	}

	list, total, err := h.svc.ListWithdrawals(c.Request.Context(), adminID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPage(list, dto.NewWithdrawalResponse, total, params.Page, params.PageSize))
}

// Approve handles POST /api/v1/admin/withdrawals/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	h.review(c, h.svc.Approve)
}

// Reject handles POST /api/v1/admin/withdrawals/:id/reject.
func (h *AdminHandler) Reject(c *gin.Context) {
	h.review(c, h.svc.Reject)
}

type reviewFunc func(ctx context.Context, req ports.ReviewRequest) (*domain.Withdrawal, error)

func (h *AdminHandler) review(c *gin.Context, fn reviewFunc) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid withdrawal id"))
		return
	}

	// The body is optional.
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	w, err := fn(c.Request.Context(), ports.ReviewRequest{
		AdminID:      adminID,
		WithdrawalID: id,
		TxHash:       req.TxHash,
		Note:         req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWithdrawalResponse(w))
}
