package handler

import (
	"offerwall-rewards/internal/adapter/http/dto"
	"offerwall-rewards/internal/adapter/http/middleware"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"
	"offerwall-rewards/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the caller's own profile, balance and history.
type AccountHandler struct {
	svc ports.AccountService
}

func NewAccountHandler(svc ports.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Profile handles GET /api/v1/me.
func (h *AccountHandler) Profile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	user, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewUserResponse(user))
}

// Balance handles GET /api/v1/me/balance.
func (h *AccountHandler) Balance(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.svc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBalanceResponse(balance))
}

// Conversions handles GET /api/v1/me/conversions.
func (h *AccountHandler) Conversions(c *gin.Context) {
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

	list, total, err := h.svc.ListConversions(c.Request.Context(), userID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewPage(list, dto.NewConversionResponse, total, page.Page, page.PageSize))
}
