package offerwall

import (
	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Notik only sends completions (status 1). Success is answered with "1".
type Notik struct {
	secret string
	rate   decimal.Decimal
}

func (n *Notik) Parse(p Params) (*domain.Postback, error) {
	if err := checkSharedSecret(n.secret, p); err != nil {
		return nil, err
	}

	userID, err := parseUserID(p, "subId", "user_id")
	if err != nil {
		return nil, err
	}
	transID, err := requireParam(p, "transId")
	if err != nil {
		return nil, err
	}
	if p.Get("status") != "1" {
		return nil, apperror.ErrInvalidStatus()
	}
	coins, payout, err := resolveReward(p, n.rate)
	if err != nil {
		return nil, err
	}

	return &domain.Postback{
		UserID:      userID,
		TxID:        transID,
		Coins:       coins,
		Kind:        domain.ConversionKindCredit,
		Payout:      payout,
		Deduplicate: true,
	}, nil
}

func (n *Notik) Reply(result *ports.PostbackResult) Reply {
	if result.Duplicate {
		return Reply{Text: "DUP"}
	}
	return Reply{Text: "1"}
}

func (n *Notik) PlainText() bool { return true }
