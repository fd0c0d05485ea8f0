package offerwall

import (
	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/shopspring/decimal"
)

// CPX handles CPX Research postbacks. amount_local is already in points;
// amount_usd is converted with the configured rate. With a secret set,
// hash must equal MD5(trans_id + "-" + secret).
type CPX struct {
	secret string
	rate   decimal.Decimal
	sigSvc ports.SignatureService
}

func (c *CPX) Parse(p Params) (*domain.Postback, error) {
	status, err := requireParam(p, "status")
	if err != nil {
		return nil, err
	}
	transID, err := requireParam(p, "trans_id")
	if err != nil {
		return nil, err
	}
	userID, err := parseUserID(p, "user_id")
	if err != nil {
		return nil, err
	}

	if c.secret != "" && !c.sigSvc.VerifyMD5(p.Get("hash"), transID, "-", c.secret) {
		return nil, apperror.ErrInvalidSignature()
	}

	kind, err := kindFromStatus(status)
	if err != nil {
		return nil, err
	}

	var coins int64
	var payout string
	if raw := p.Get("amount_local"); raw != "" {
		var ok bool
		if coins, ok = toCoins(raw, one); !ok {
			return nil, apperror.ErrInvalidParam("amount_local")
		}
		payout = raw
	} else if raw := p.Get("amount_usd"); raw != "" {
		var ok bool
		if coins, ok = toCoins(raw, c.rate); !ok {
			return nil, apperror.ErrInvalidParam("amount_usd")
		}
		payout = raw
	} else {
		return nil, apperror.ErrMissingParam("amount_local")
	}

	return &domain.Postback{
		UserID:      userID,
		TxID:        transID,
		Coins:       coins,
		Kind:        kind,
		Payout:      payout,
		Deduplicate: true,
	}, nil
}

func (c *CPX) Reply(result *ports.PostbackResult) Reply {
	if result.Duplicate {
		return Reply{JSON: map[string]any{"status": "duplicate"}}
	}
	return Reply{JSON: map[string]any{"status": "ok", "applied": result.Applied}}
}

func (c *CPX) PlainText() bool { return false }
