package trustline

import (
	"errors"
	"testing"

	"xrpl-gateway/go-backend/internal/ledger"
)

func TestHasTrustLine(t *testing.T) {
	lines := []ledger.TrustLine{{Currency: "USD"}, {Currency: "EUR"}}
	if !HasTrustLine(lines, "USD") {
		t.Fatal("expected USD line to be found")
	}
	if HasTrustLine(lines, "GBP") {
		t.Fatal("GBP must not match")
	}
	if HasTrustLine(nil, "USD") {
		t.Fatal("empty line set must not match")
	}
}

func TestEnsureChecksIssuer(t *testing.T) {
	lines := []ledger.TrustLine{{Account: "rOther", Currency: "USD"}}
	err := Ensure(lines, "USD", "USD", "rIssuer")
	var missing *MissingTrustLineError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingTrustLineError, got %v", err)
	}
	if missing.Currency != "USD" || missing.Issuer != "rIssuer" {
		t.Fatalf("unexpected error fields %+v", missing)
	}
	if !errors.Is(err, ErrMissingTrustLine) {
		t.Fatal("expected error to wrap ErrMissingTrustLine")
	}
	want := "Destination account does not have a Trust Line for the currency USD from issuer rIssuer."
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}

	lines = append(lines, ledger.TrustLine{Account: "rIssuer", Currency: "USD"})
	if err := Ensure(lines, "USD", "USD", "rIssuer"); err != nil {
		t.Fatalf("expected line from issuer to pass, got %v", err)
	}
}

func TestEnsureAcceptsLineWithoutPeer(t *testing.T) {
	code := "4D79546F6B656E00000000000000000000000000"
	if err := Ensure([]ledger.TrustLine{{Currency: code}}, "MyToken", code, "rIssuer"); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
	err := Ensure([]ledger.TrustLine{{Currency: "USD"}}, "MyToken", code, "rIssuer")
	var missing *MissingTrustLineError
	if !errors.As(err, &missing) || missing.Currency != "MyToken" {
		t.Fatalf("expected missing line for MyToken, got %v", err)
	}
}
