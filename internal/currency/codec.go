// Package currency converts between human-readable currency symbols and the
// ledger's fixed-width currency representation.
package currency

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// NativeSymbol is the reserved symbol of the ledger's native asset.
	NativeSymbol = "XRP"

	// CodeHexLength is the width of a non-standard currency code: 160 bits as hex.
	CodeHexLength = 40

	standardCodeLength = 3
)

var ErrInvalidCurrency = errors.New("invalid currency")

type InvalidCurrencyError struct {
	Symbol string
	Reason string
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("invalid currency %q: %s", e.Symbol, e.Reason)
}

func (e *InvalidCurrencyError) Unwrap() error {
	return ErrInvalidCurrency
}

// Canonicalize maps a symbol to the code stored on ledger. Three-character
// symbols pass through unchanged; anything else is hex-encoded, right-padded
// with zeros to 40 characters and upper-cased.
func Canonicalize(symbol string) (string, error) {
	if len(symbol) == standardCodeLength {
		return symbol, nil
	}
	if symbol == "" {
		return "", &InvalidCurrencyError{Symbol: symbol, Reason: "symbol is empty"}
	}
	if IsHexCode(symbol) {
		if strings.Trim(symbol, "0") == "" {
			return "", &InvalidCurrencyError{Symbol: symbol, Reason: "all-zero code is reserved"}
		}
		return strings.ToUpper(symbol), nil
	}
	encoded := hex.EncodeToString([]byte(symbol))
	if len(encoded) > CodeHexLength {
		return "", &InvalidCurrencyError{Symbol: symbol, Reason: "symbol does not fit in 20 bytes"}
	}
	return strings.ToUpper(encoded + strings.Repeat("0", CodeHexLength-len(encoded))), nil
}

// Decode reverses Canonicalize for codes that were ASCII text. Strings that
// are not exactly 40 characters long are returned unchanged, as is any code
// that fails to parse.
func Decode(code string) string {
	if len(code) != CodeHexLength {
		return code
	}
	var out strings.Builder
	for i := 0; i < len(code); i += 2 {
		raw, err := hex.DecodeString(code[i : i+2])
		if err != nil {
			return code
		}
		if raw[0] == 0 {
			break
		}
		out.WriteRune(rune(raw[0]))
	}
	return out.String()
}

// IsNative reports whether symbol names the native asset, ignoring case.
func IsNative(symbol string) bool {
	return strings.EqualFold(strings.TrimSpace(symbol), NativeSymbol)
}

// IsHexCode reports whether code is a 40-character hex currency code.
func IsHexCode(code string) bool {
	if len(code) != CodeHexLength {
		return false
	}
	_, err := hex.DecodeString(code)
	return err == nil
}
