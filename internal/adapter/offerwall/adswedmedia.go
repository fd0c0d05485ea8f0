package offerwall

import (
	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/shopspring/decimal"
)

// AdswedMedia verifies signature = MD5(subId + transId + reward + secret).
// Status 1 credits, 2 is a chargeback. Replies are "OK" or "DUP".
type AdswedMedia struct {
	secret string
	rate   decimal.Decimal
	sigSvc ports.SignatureService
}

func (a *AdswedMedia) Parse(p Params) (*domain.Postback, error) {
	if a.secret == "" {
		return nil, apperror.ErrMissingConfig("offerwall.adswedmedia.secret")
	}

	subID, err := requireParam(p, "subId")
	if err != nil {
		return nil, err
	}
	transID, err := requireParam(p, "transId")
	if err != nil {
		return nil, err
	}
	reward, err := requireParam(p, "reward")
	if err != nil {
		return nil, err
	}
	status, err := requireParam(p, "status")
	if err != nil {
		return nil, err
	}
	signature, err := requireParam(p, "signature")
	if err != nil {
		return nil, err
	}

	if !a.sigSvc.VerifyMD5(signature, subID, transID, reward, a.secret) {
		return nil, apperror.ErrInvalidSignature()
	}

	kind, err := kindFromStatus(status)
	if err != nil {
		return nil, err
	}
	userID, err := parseUserID(p, "subId")
	if err != nil {
		return nil, err
	}
	coins, payout, err := resolveReward(p, a.rate)
	if err != nil {
		return nil, err
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

func (a *AdswedMedia) Reply(result *ports.PostbackResult) Reply {
	if result.Duplicate {
		return Reply{Text: "DUP"}
	}
	return Reply{Text: "OK"}
}

func (a *AdswedMedia) PlainText() bool { return true }
