package domain

import (
	"time"

	"github.com/google/uuid"
)

// Balance is a user's redeemable points total. Points never go below zero.
type Balance struct {
	UserID    uuid.UUID `json:"user_id"`
	Points    int64     `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Apply adds delta to the balance and returns the delta actually applied.
// Debits larger than the balance are clamped so Points stays at zero.
func (b *Balance) Apply(delta int64) int64 {
	if delta < 0 && -delta > b.Points {
		delta = -b.Points
	}
	b.Points += delta
	return delta
}

// CanDebit reports whether amount can be taken without going negative.
func (b *Balance) CanDebit(amount int64) bool {
	return amount > 0 && b.Points >= amount
}
