// Package trustline checks that a destination can receive an issued
// currency before any payment is submitted.
package trustline

import (
	"errors"
	"fmt"

	"xrpl-gateway/go-backend/internal/ledger"
)

var ErrMissingTrustLine = errors.New("missing trust line")

type MissingTrustLineError struct {
	Currency string
	Issuer   string
}

func (e *MissingTrustLineError) Error() string {
	return fmt.Sprintf("Destination account does not have a Trust Line for the currency %s from issuer %s.", e.Currency, e.Issuer)
}

func (e *MissingTrustLineError) Unwrap() error {
	return ErrMissingTrustLine
}

// HasTrustLine reports whether any line holds the canonical currency code.
func HasTrustLine(lines []ledger.TrustLine, code string) bool {
	for _, line := range lines {
		if line.Currency == code {
			return true
		}
	}
	return false
}

// HasTrustLineFrom is HasTrustLine restricted to lines whose peer is issuer.
// Lines without a reported peer are accepted because account_lines queried
// with a peer filter may omit it.
func HasTrustLineFrom(lines []ledger.TrustLine, code, issuer string) bool {
	for _, line := range lines {
		if line.Currency != code {
			continue
		}
		if line.Account == "" || issuer == "" || line.Account == issuer {
			return true
		}
	}
	return false
}

// Ensure returns a *MissingTrustLineError naming symbol when no line for
// code from issuer exists.
func Ensure(lines []ledger.TrustLine, symbol, code, issuer string) error {
	if HasTrustLineFrom(lines, code, issuer) {
		return nil
	}
	return &MissingTrustLineError{Currency: symbol, Issuer: issuer}
}
