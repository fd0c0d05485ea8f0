package offerwall

import (
	"crypto/subtle"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
)

var gemiwallTxAliases = []string{"tx_id", "transaction_id", "trans_id", "transId"}

// Gemiwall credits amount (or reward, points, coins). Transaction ids are
// optional; postbacks without one are never deduplicated.
type Gemiwall struct {
	secret string
}

func (g *Gemiwall) Parse(p Params) (*domain.Postback, error) {
	if err := checkSharedSecret(g.secret, p); err != nil {
		return nil, err
	}

	userID, err := parseUserID(p, "user_id")
	if err != nil {
		return nil, err
	}
	coins, payout, err := resolveAlias(p, "amount", "reward", "points", "coins")
	if err != nil {
		return nil, err
	}

	pb := &domain.Postback{
		UserID:      userID,
		TxID:        p.Get(gemiwallTxAliases...),
		Coins:       coins,
		Kind:        domain.ConversionKindCredit,
		Payout:      payout,
		Deduplicate: true,
	}
	if pb.TxID == "" {
		pb.TxID = "auto-" + uuid.NewString()
		pb.Deduplicate = false
	}
	return pb, nil
}

func (g *Gemiwall) Reply(*ports.PostbackResult) Reply {
	return Reply{Text: "OK"}
}

func (g *Gemiwall) PlainText() bool { return true }

// checkSharedSecret requires a secret URL parameter when one is configured.
func checkSharedSecret(secret string, p Params) error {
	if secret == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(p.Get("secret")), []byte(secret)) != 1 {
		return apperror.ErrInvalidSignature()
	}
	return nil
}
