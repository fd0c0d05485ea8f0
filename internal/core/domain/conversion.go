package domain

import (
	"time"

	"github.com/google/uuid"
)

// Known offerwall providers. The generic route accepts any network name.
const (
	ProviderGeneric     = "generic"
	ProviderAdswedMedia = "adswedmedia"
	ProviderCPX         = "cpx"
	ProviderGemiwall    = "gemiwall"
	ProviderNotik       = "notik"
)

// ConversionKind tells whether a postback credits or takes back points.
type ConversionKind string

const (
	ConversionKindCredit   ConversionKind = "CREDIT"
	ConversionKindReversal ConversionKind = "REVERSAL"
)

// Postback is a provider callback after validation, normalized to coins.
type Postback struct {
	Provider    string
	UserID      uuid.UUID
	TxID        string
	Coins       int64 // always positive; direction comes from Kind
	Kind        ConversionKind
	Payout      string // provider payout as sent, for the record
	SourceIP    string
	Params      map[string]string
	Deduplicate bool // false when the provider sent no transaction id
}

// Delta returns the signed balance change this postback asks for.
func (p *Postback) Delta() int64 {
	if p.Kind == ConversionKindReversal {
		return -p.Coins
	}
	return p.Coins
}

// Key identifies the postback for duplicate suppression.
func (p *Postback) Key() string {
	return BuildPostbackKey(p.Provider, p.Kind, p.TxID)
}

// Conversion is the stored log row of a processed postback.
// (Provider, TxID, Kind) is unique.
type Conversion struct {
	ID        uuid.UUID      `json:"id"`
	Provider  string         `json:"provider"`
	TxID      string         `json:"tx_id"`
	Kind      ConversionKind `json:"kind"`
	UserID    uuid.UUID      `json:"user_id"`
	Coins     int64          `json:"coins"`   // requested by provider
	Applied   int64          `json:"applied"` // signed change actually made
	Payout    string         `json:"payout,omitempty"`
	SourceIP  string         `json:"source_ip,omitempty"`
	RawParams string         `json:"-"` // JSON string
	CreatedAt time.Time      `json:"created_at"`
}

// BuildPostbackKey constructs the standard key format "provider:kind:tx_id".
func BuildPostbackKey(provider string, kind ConversionKind, txID string) string {
	return provider + ":" + string(kind) + ":" + txID
}
