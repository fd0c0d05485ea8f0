package offerwall

import (
	"strings"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var maxCoins = decimal.NewFromInt(1_000_000_000)

// maxAmountLen bounds the plain-decimal text accepted for an amount. Exponent
// notation is refused so a short value cannot force a huge rescale.
const maxAmountLen = 32

// toCoins multiplies raw by rate and rounds half-up to a positive integer.
func toCoins(raw string, rate decimal.Decimal) (int64, bool) {
	if len(raw) > maxAmountLen || strings.ContainsAny(raw, "eE") {
		return 0, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, false
	}
	c := d.Mul(rate).Round(0)
	if !c.IsPositive() || c.GreaterThan(maxCoins) {
		return 0, false
	}
	return c.IntPart(), true
}

var one = decimal.NewFromInt(1)

// resolveReward applies the round_reward > reward > payout × rate precedence.
// It returns the coins and the raw value they came from.
func resolveReward(p Params, rate decimal.Decimal) (int64, string, error) {
	fields := []struct {
		name string
		rate decimal.Decimal
	}{
		{"round_reward", one},
		{"reward", one},
		{"payout", rate},
	}
	for _, f := range fields {
		raw := p.Get(f.name)
		if raw == "" {
			continue
		}
		coins, ok := toCoins(raw, f.rate)
		if !ok {
			return 0, "", apperror.ErrInvalidParam(f.name)
		}
		return coins, raw, nil
	}
	return 0, "", apperror.ErrMissingParam("reward")
}

// resolveAlias returns coins from the first present alias, taken as-is.
func resolveAlias(p Params, names ...string) (int64, string, error) {
	for _, n := range names {
		raw := p.Get(n)
		if raw == "" {
			continue
		}
		coins, ok := toCoins(raw, one)
		if !ok {
			return 0, "", apperror.ErrInvalidParam(n)
		}
		return coins, raw, nil
	}
	return 0, "", apperror.ErrMissingParam(names[0])
}

func parseUserID(p Params, names ...string) (uuid.UUID, error) {
	raw := p.Get(names...)
	if raw == "" {
		return uuid.Nil, apperror.ErrMissingParam(names[0])
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidParam(names[0])
	}
	return id, nil
}

func requireParam(p Params, names ...string) (string, error) {
	v := p.Get(names...)
	if v == "" {
		return "", apperror.ErrMissingParam(names[0])
	}
	return v, nil
}

// kindFromStatus maps the common 1 = completed, 2 = reversed convention.
func kindFromStatus(status string) (domain.ConversionKind, error) {
	switch status {
	case "1":
		return domain.ConversionKindCredit, nil
	case "2":
		return domain.ConversionKindReversal, nil
	}
	return "", apperror.ErrInvalidStatus()
}
