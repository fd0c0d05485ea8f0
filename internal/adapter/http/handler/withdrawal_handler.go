package handler

import (
	"offerwall-rewards/internal/adapter/http/dto"
	"offerwall-rewards/internal/adapter/http/middleware"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"
	"offerwall-rewards/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WithdrawalHandler handles the user side of withdrawals.
type WithdrawalHandler struct {
	svc ports.WithdrawalService
}

func NewWithdrawalHandler(svc ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{svc: svc}
}

// Submit handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	w, err := h.svc.Submit(c.Request.Context(), ports.WithdrawalRequest{
		UserID:   userID,
		Coin:     req.Coin,
		Address:  req.Address,
		Amount:   req.Amount,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewWithdrawalResponse(w))
}

// List handles GET /api/v1/withdrawals.
func (h *WithdrawalHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, err := bindPage(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, total, err := h.svc.ListMine(c.Request.Context(), userID, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPage(list, dto.NewWithdrawalResponse, total, page.Page, page.PageSize))
}

// Get handles GET /api/v1/withdrawals/:id.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid withdrawal id"))
		return
	}

	w, err := h.svc.GetMine(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWithdrawalResponse(w))
}

// bindPage reads page and page_size, applying defaults.
func bindPage(c *gin.Context) (ports.ListParams, error) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return ports.ListParams{}, apperror.Validation(err.Error())
	}
	return ports.ListParams{Page: q.Page, PageSize: q.PageSize}.Normalize(), nil
}
