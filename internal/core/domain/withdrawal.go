package domain

import (
	"time"

	"github.com/google/uuid"
)

// WithdrawalStatus is the review state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
)

// Withdrawal is a user request to convert points into a crypto payout.
// Points are reserved when the request is created and returned on rejection.
type Withdrawal struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	Coin       string           `json:"coin"`
	Address    string           `json:"address"`
	Amount     int64            `json:"amount"`
	Status     WithdrawalStatus `json:"status"`
	TxHash     *string          `json:"tx_hash,omitempty"`
	AdminNote  *string          `json:"admin_note,omitempty"`
	ReviewedBy *uuid.UUID       `json:"reviewed_by,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	ReviewedAt *time.Time       `json:"reviewed_at,omitempty"`
}

// IsPending returns true if an admin has not reviewed the request yet.
func (w *Withdrawal) IsPending() bool {
	return w.Status == WithdrawalStatusPending
}

// ParseWithdrawalStatus validates a status filter value.
func ParseWithdrawalStatus(s string) (WithdrawalStatus, bool) {
	switch st := WithdrawalStatus(s); st {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusRejected:
		return st, true
	}
	return "", false
}
