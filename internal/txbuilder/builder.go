// Package txbuilder assembles unsigned transaction payloads from validated
// input. Builders are pure: they never talk to the network and never set
// Sequence, Fee or LastLedgerSequence, which autofill populates.
package txbuilder

import (
	"fmt"
	"strconv"
	"strings"

	"xrpl-gateway/go-backend/internal/amount"
	"xrpl-gateway/go-backend/internal/currency"
)

const (
	TypeOfferCreate = "OfferCreate"
	TypeTrustSet    = "TrustSet"
	TypeAccountSet  = "AccountSet"
	TypePayment     = "Payment"

	// TrustSetNoRipple is tfSetNoRipple.
	TrustSetNoRipple uint32 = 0x00020000
	// AccountSetDefaultRipple is asfDefaultRipple.
	AccountSetDefaultRipple uint32 = 8
	// ApplicationSourceTag identifies payments sent by this gateway.
	ApplicationSourceTag uint32 = 791567425
)

// Payload maps field names to values for a single transaction.
type Payload map[string]any

func (p Payload) TransactionType() string {
	v, _ := p["TransactionType"].(string)
	return v
}

func (p Payload) Account() string {
	v, _ := p["Account"].(string)
	return v
}

// Clone returns a shallow copy so autofill and signing never mutate the
// caller's payload.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type AmountSpec struct {
	Currency string
	Value    string
	Issuer   string
}

type TrustSetSpec struct {
	Currency string
	Issuer   string
	Limit    string
	NoRipple bool
}

type PaymentSpec struct {
	Account        string
	Destination    string
	Amount         AmountSpec
	DestinationTag string
	Memo           string
}

type Memo struct {
	MemoData string `json:"MemoData,omitempty"`
}

type MemoWrapper struct {
	Memo Memo `json:"Memo"`
}

func OfferCreate(account string, takerGets, takerPays AmountSpec) (Payload, error) {
	gets, err := amount.Format(takerGets.Currency, takerGets.Value, takerGets.Issuer)
	if err != nil {
		return nil, fmt.Errorf("taker gets: %w", err)
	}
	pays, err := amount.Format(takerPays.Currency, takerPays.Value, takerPays.Issuer)
	if err != nil {
		return nil, fmt.Errorf("taker pays: %w", err)
	}
	return Payload{
		"TransactionType": TypeOfferCreate,
		"Account":         account,
		"TakerGets":       gets,
		"TakerPays":       pays,
	}, nil
}

func TrustSet(account string, spec TrustSetSpec) (Payload, error) {
	if currency.IsNative(spec.Currency) {
		return nil, &currency.InvalidCurrencyError{Symbol: spec.Currency, Reason: "trust lines cannot hold the native asset"}
	}
	code, err := currency.Canonicalize(spec.Currency)
	if err != nil {
		return nil, err
	}
	if _, err := amount.ParseIssuedValue(spec.Limit); err != nil {
		return nil, fmt.Errorf("limit: %w", err)
	}
	tx := Payload{
		"TransactionType": TypeTrustSet,
		"Account":         account,
		"LimitAmount": amount.Amount{Issued: &amount.IssuedAmount{
			Currency: code,
			Issuer:   spec.Issuer,
			Value:    strings.TrimSpace(spec.Limit),
		}},
	}
	if spec.NoRipple {
		tx["Flags"] = TrustSetNoRipple
	}
	return tx, nil
}

// AccountSet enables default rippling on an issuing account and, when domain
// is not empty, publishes it as hex.
func AccountSet(account, domain string) Payload {
	tx := Payload{
		"TransactionType": TypeAccountSet,
		"Account":         account,
		"SetFlag":         AccountSetDefaultRipple,
	}
	if domain = strings.TrimSpace(domain); domain != "" {
		tx["Domain"] = currency.EncodeHex(domain)
	}
	return tx
}

func Payment(spec PaymentSpec) (Payload, error) {
	amt, err := amount.Format(spec.Amount.Currency, spec.Amount.Value, spec.Amount.Issuer)
	if err != nil {
		return nil, err
	}
	tx := Payload{
		"TransactionType": TypePayment,
		"Account":         spec.Account,
		"Destination":     spec.Destination,
		"Amount":          amt,
		"SourceTag":       ApplicationSourceTag,
	}
	if tag, ok := ParseDestinationTag(spec.DestinationTag); ok {
		tx["DestinationTag"] = tag
	}
	if spec.Memo != "" {
		tx["Memos"] = []MemoWrapper{{Memo: Memo{MemoData: currency.EncodeHex(spec.Memo)}}}
	}
	return tx, nil
}

// ParseDestinationTag reports the tag as a uint32 when raw is a valid
// unsigned 32-bit integer.
func ParseDestinationTag(raw string) (uint32, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
