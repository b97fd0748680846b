// Package amount builds the ledger's amount representation: a drops string
// for the native asset, or a {currency, issuer, value} record for issued assets.
package amount

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"xrpl-gateway/go-backend/internal/currency"

	"github.com/shopspring/decimal"
)

// nativeScale is the decimal exponent between the native unit and drops.
const nativeScale = 6

// Issued values are stored as a 16-digit mantissa and an exponent in
// [-96, 80].
const (
	issuedPrecision   = 16
	minIssuedExponent = -96
	maxIssuedExponent = 80
)

var (
	ErrInvalidAmount = errors.New("invalid amount")

	maxDrops = decimal.New(1, 17)
)

type IssuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

// Amount holds exactly one of Drops or Issued.
type Amount struct {
	Drops  string
	Issued *IssuedAmount
}

func (a Amount) IsNative() bool {
	return a.Issued == nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Issued != nil {
		return json.Marshal(a.Issued)
	}
	return json.Marshal(a.Drops)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var drops string
		if err := json.Unmarshal(data, &drops); err != nil {
			return err
		}
		*a = Amount{Drops: drops}
		return nil
	}
	var issued IssuedAmount
	if err := json.Unmarshal(data, &issued); err != nil {
		return err
	}
	*a = Amount{Issued: &issued}
	return nil
}

// Format builds the amount for value of the given currency. The native
// asset is converted to drops by exact decimal scaling; any other currency
// becomes an issued-asset record with a canonical currency code.
func Format(symbol, value, issuer string) (Amount, error) {
	parsed, err := ParseValue(value)
	if err != nil {
		return Amount{}, err
	}
	if currency.IsNative(symbol) {
		drops, err := nativeToDrops(parsed)
		if err != nil {
			return Amount{}, err
		}
		return Amount{Drops: drops}, nil
	}
	if err := checkIssued(parsed, value); err != nil {
		return Amount{}, err
	}
	code, err := currency.Canonicalize(symbol)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Issued: &IssuedAmount{
		Currency: code,
		Issuer:   issuer,
		Value:    strings.TrimSpace(value),
	}}, nil
}

// ParseValue parses a non-negative decimal string.
func ParseValue(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: value is empty", ErrInvalidAmount)
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, value)
	}
	if parsed.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, value)
	}
	return parsed, nil
}

// ParseIssuedValue parses value and checks that the ledger can represent it
// as an issued amount without rounding.
func ParseIssuedValue(value string) (decimal.Decimal, error) {
	parsed, err := ParseValue(value)
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkIssued(parsed, value); err != nil {
		return decimal.Zero, err
	}
	return parsed, nil
}

func checkIssued(value decimal.Decimal, raw string) error {
	if value.IsZero() {
		return nil
	}
	coefficient := new(big.Int).Abs(value.Coefficient())
	exponent := int(value.Exponent())
	ten, rem := big.NewInt(10), new(big.Int)
	for {
		quo, r := new(big.Int).QuoRem(coefficient, ten, rem)
		if r.Sign() != 0 {
			break
		}
		coefficient = quo
		exponent++
	}
	digits := len(coefficient.String())
	if digits > issuedPrecision {
		return fmt.Errorf("%w: %q has more than %d significant digits", ErrInvalidAmount, raw, issuedPrecision)
	}
	normalized := exponent - (issuedPrecision - digits)
	if normalized < minIssuedExponent || normalized > maxIssuedExponent {
		return fmt.Errorf("%w: %q is out of the issued amount range", ErrInvalidAmount, raw)
	}
	return nil
}

// NativeToDrops converts a decimal amount of the native asset into drops.
func NativeToDrops(value string) (string, error) {
	parsed, err := ParseValue(value)
	if err != nil {
		return "", err
	}
	return nativeToDrops(parsed)
}

func nativeToDrops(value decimal.Decimal) (string, error) {
	drops := value.Shift(nativeScale)
	if !drops.IsInteger() {
		return "", fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, value.String(), nativeScale)
	}
	if drops.GreaterThan(maxDrops) {
		return "", fmt.Errorf("%w: %s exceeds the native supply", ErrInvalidAmount, value.String())
	}
	return drops.String(), nil
}

// DropsToNative converts an integer drops string into a decimal amount of
// the native asset.
func DropsToNative(drops string) (string, error) {
	parsed, err := ParseValue(drops)
	if err != nil {
		return "", err
	}
	if !parsed.IsInteger() {
		return "", fmt.Errorf("%w: drops %q must be an integer", ErrInvalidAmount, drops)
	}
	return parsed.Shift(-nativeScale).String(), nil
}
