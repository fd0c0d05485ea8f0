package dto

import (
	"time"

	"offerwall-rewards/internal/core/domain"
)

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// BalanceResponse is the response for the points balance.
type BalanceResponse struct {
	Points    int64  `json:"points"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func NewBalanceResponse(b *domain.Balance) BalanceResponse {
	resp := BalanceResponse{Points: b.Points}
	if !b.UpdatedAt.IsZero() {
		resp.UpdatedAt = b.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// WithdrawalRequest is the request body for a withdrawal submission.
type WithdrawalRequest struct {
	Coin    string `json:"coin" binding:"required,coin"`
	Address string `json:"address" binding:"required,max=128"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
}

// ReviewRequest is the request body for approving or rejecting a withdrawal.
type ReviewRequest struct {
	TxHash *string `json:"tx_hash,omitempty" binding:"omitempty,safe_id,max=128"`
	Note   *string `json:"note,omitempty" binding:"omitempty,max=500"`
}

// WithdrawalResponse is the response body for a withdrawal request.
type WithdrawalResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Coin       string  `json:"coin"`
	Address    string  `json:"address"`
	Amount     int64   `json:"amount"`
	Status     string  `json:"status"`
	TxHash     *string `json:"tx_hash,omitempty"`
	AdminNote  *string `json:"admin_note,omitempty"`
	CreatedAt  string  `json:"created_at"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
}

func NewWithdrawalResponse(w *domain.Withdrawal) WithdrawalResponse {
	resp := WithdrawalResponse{
		ID:        w.ID.String(),
		UserID:    w.UserID.String(),
		Coin:      w.Coin,
		Address:   w.Address,
		Amount:    w.Amount,
		Status:    string(w.Status),
		TxHash:    w.TxHash,
		AdminNote: w.AdminNote,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
	if w.ReviewedAt != nil {
		s := w.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

// ConversionResponse is one row of the postback history.
type ConversionResponse struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	TxID      string `json:"tx_id"`
	Kind      string `json:"kind"`
	Coins     int64  `json:"coins"`
	Applied   int64  `json:"applied"`
	CreatedAt string `json:"created_at"`
}

func NewConversionResponse(c *domain.Conversion) ConversionResponse {
	return ConversionResponse{
		ID:        c.ID.String(),
		Provider:  c.Provider,
		TxID:      c.TxID,
		Kind:      string(c.Kind),
		Coins:     c.Coins,
		Applied:   c.Applied,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// ListQuery holds pagination query parameters.
type ListQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AdminWithdrawalQuery adds the status filter for the admin list.
type AdminWithdrawalQuery struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// PageResponse wraps a paginated list.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds a PageResponse, converting items with conv.
func NewPage[E, T any](items []E, conv func(*E) T, total int64, page, pageSize int) PageResponse[T] {
	out := make([]T, 0, len(items))
	for i := range items {
		out = append(out, conv(&items[i]))
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PageResponse[T]{
		Items:      out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
