package service

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/xssnick/tonutils-go/address"
)

var (
	btcLegacyRe = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	btcBech32Re = regexp.MustCompile(`^bc1[02-9ac-hj-np-z]{11,87}$`)
	ltcLegacyRe = regexp.MustCompile(`^[LM3][a-km-zA-HJ-NP-Z1-9]{26,33}$`)
	ltcBech32Re = regexp.MustCompile(`^ltc1[02-9ac-hj-np-z]{11,87}$`)
	evmRe       = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	tronRe      = regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`)
)

// ValidAddress reports whether addr is a well-formed payout address for coin.
// USDT is accepted on ERC-20 and TRC-20 addresses.
func ValidAddress(coin, addr string) bool {
	if addr == "" || strings.ContainsAny(addr, " \t\r\n") {
		return false
	}

	switch coin {
	case "BTC":
		return btcLegacyRe.MatchString(addr) || btcBech32Re.MatchString(strings.ToLower(addr)) && isSingleCase(addr)
	case "LTC":
		return ltcLegacyRe.MatchString(addr) || ltcBech32Re.MatchString(strings.ToLower(addr)) && isSingleCase(addr)
	case "ETH":
		return evmRe.MatchString(addr)
	case "USDT":
		return evmRe.MatchString(addr) || tronRe.MatchString(addr)
	case "TON":
		return validTONAddress(addr)
	default:
		// Coins added through config without a known format only need a sane token.
		return len(addr) >= 16 && len(addr) <= 128
	}
}

func validTONAddress(addr string) bool {
	if strings.Contains(addr, ":") {
		_, err := parseRawTONAddr(addr)
		return err == nil
	}
	_, err := address.ParseAddr(addr)
	return err == nil
}

// parseRawTONAddr parses the raw "workchain:hex" form, e.g. "0:83df...31a8".
func parseRawTONAddr(addr string) (*address.Address, error) {
	wcPart, hashPart, _ := strings.Cut(addr, ":")
	wc, err := strconv.ParseInt(wcPart, 10, 8)
	if err != nil {
		return nil, err
	}
	if len(hashPart) != 64 {
		return nil, strconv.ErrSyntax
	}
	data, err := hex.DecodeString(hashPart)
	if err != nil {
		return nil, err
	}
	// Raw form carries no flags; 0x11 is bounceable mainnet.
	return address.NewAddress(0x11, byte(int8(wc)), data), nil
}

// bech32 forbids mixed case.
func isSingleCase(s string) bool {
	return s == strings.ToLower(s) || s == strings.ToUpper(s)
}
