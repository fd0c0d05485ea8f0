package offerwall

import (
	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"
)

// Generic serves /postback/{network} for networks without a dedicated adapter.
// When a secret is configured, sig must be the hex HMAC-SHA256 of
// "user_id:tx_id:amount".
type Generic struct {
	secret string
	sigSvc ports.SignatureService
}

func (g *Generic) Parse(p Params) (*domain.Postback, error) {
	userID, err := parseUserID(p, "user_id")
	if err != nil {
		return nil, err
	}
	txID, err := requireParam(p, "tx_id")
	if err != nil {
		return nil, err
	}
	amount, err := requireParam(p, "amount")
	if err != nil {
		return nil, err
	}

	if g.secret != "" {
		// Signed over the values as sent; uuid.Parse would lower-case the id.
		payload := p.Get("user_id") + ":" + txID + ":" + amount
		if !g.sigSvc.Verify(g.secret, payload, p.Get("sig")) {
			return nil, apperror.ErrInvalidSignature()
		}
	}

	coins, ok := toCoins(amount, one)
	if !ok {
		return nil, apperror.ErrInvalidParam("amount")
	}

	return &domain.Postback{
		UserID:      userID,
		TxID:        txID,
		Coins:       coins,
		Kind:        domain.ConversionKindCredit,
		Payout:      amount,
		Deduplicate: true,
	}, nil
}

func (g *Generic) Reply(result *ports.PostbackResult) Reply {
	if result.Duplicate {
		return Reply{JSON: map[string]any{"status": "duplicate"}}
	}
	return Reply{JSON: map[string]any{
		"status":        "ok",
		"conversion_id": result.ConversionID,
		"applied":       result.Applied,
		"balance":       result.Balance,
	}}
}

func (g *Generic) PlainText() bool { return false }
