package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalance_Apply(t *testing.T) {
	tests := []struct {
		name        string
		start       int64
		delta       int64
		wantPoints  int64
		wantApplied int64
	}{
		{"credit", 100, 50, 150, 50},
		{"debit within balance", 100, -40, 60, -40},
		{"debit to zero", 100, -100, 0, -100},
		{"debit clamped", 30, -100, 0, -30},
		{"debit on empty", 0, -10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Balance{Points: tt.start}
			applied := b.Apply(tt.delta)
			assert.Equal(t, tt.wantPoints, b.Points)
			assert.Equal(t, tt.wantApplied, applied)
		})
	}
}

func TestBalance_CanDebit(t *testing.T) {
	b := &Balance{Points: 500}
	assert.True(t, b.CanDebit(500))
	assert.True(t, b.CanDebit(1))
	assert.False(t, b.CanDebit(501))
	assert.False(t, b.CanDebit(0))
	assert.False(t, b.CanDebit(-5))
}

func TestPostback_Delta(t *testing.T) {
	credit := &Postback{Coins: 120, Kind: ConversionKindCredit}
	reversal := &Postback{Coins: 120, Kind: ConversionKindReversal}

	assert.Equal(t, int64(120), credit.Delta())
	assert.Equal(t, int64(-120), reversal.Delta())
}

func TestBuildPostbackKey(t *testing.T) {
	assert.Equal(t, "cpx:CREDIT:tx-1", BuildPostbackKey(ProviderCPX, ConversionKindCredit, "tx-1"))

	p := &Postback{Provider: ProviderAdswedMedia, Kind: ConversionKindReversal, TxID: "T9"}
	assert.Equal(t, "adswedmedia:REVERSAL:T9", p.Key())
}

func TestWithdrawal_IsPending(t *testing.T) {
	tests := []struct {
		status WithdrawalStatus
		want   bool
	}{
		{WithdrawalStatusPending, true},
		{WithdrawalStatusApproved, false},
		{WithdrawalStatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			w := &Withdrawal{Status: tt.status}
			assert.Equal(t, tt.want, w.IsPending())
		})
	}
}

func TestParseWithdrawalStatus(t *testing.T) {
	st, ok := ParseWithdrawalStatus("APPROVED")
	assert.True(t, ok)
	assert.Equal(t, WithdrawalStatusApproved, st)

	_, ok = ParseWithdrawalStatus("approved")
	assert.False(t, ok)

	_, ok = ParseWithdrawalStatus("")
	assert.False(t, ok)
}
