package binarycodec

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"xrpl-gateway/go-backend/internal/amount"
	"xrpl-gateway/go-backend/internal/txbuilder"
)

const (
	genesisAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	genesisID      = "B5F762798A53D543A014CAF8B297CFF8F2F937E8"
)

func TestFieldHeader(t *testing.T) {
	cases := []struct {
		typeCode, nth int
		want          string
	}{
		{typeUInt16, 2, "12"},
		{typeUInt32, 27, "201B"},
		{typeUInt32, 33, "2021"},
		{typeSTArray, 9, "F9"},
		{typeUInt8, 16, "001010"},
		{typeUInt8, 1, "0110"},
	}
	for _, tc := range cases {
		got := strings.ToUpper(hex.EncodeToString(fieldHeader(tc.typeCode, tc.nth)))
		if got != tc.want {
			t.Fatalf("header(%d,%d) = %s, want %s", tc.typeCode, tc.nth, got, tc.want)
		}
	}
}

func TestEncodeNativeAmount(t *testing.T) {
	raw, err := encodeNative("1000000")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.ToUpper(hex.EncodeToString(raw)); got != "40000000000F4240" {
		t.Fatalf("unexpected native encoding %s", got)
	}
	if _, err := encodeNative("100000000000000001"); err == nil {
		t.Fatal("expected overflow error")
	}
	if _, err := encodeNative("-1"); err == nil {
		t.Fatal("expected negative drops to be rejected")
	}
}

func TestEncodeIssuedValue(t *testing.T) {
	cases := map[string]string{
		"1":   "D4838D7EA4C68000",
		"10":  "D4C38D7EA4C68000",
		"0":   "8000000000000000",
		"-1":  "94838D7EA4C68000",
		"1.5": "D485543DF729C000",
	}
	for value, want := range cases {
		raw, err := encodeIssuedValue(value)
		if err != nil {
			t.Fatalf("encode %s: %v", value, err)
		}
		if got := strings.ToUpper(hex.EncodeToString(raw)); got != want {
			t.Fatalf("encode %s = %s, want %s", value, got, want)
		}
	}
	for _, value := range []string{"1.0000000000000001", "1e96"} {
		if _, err := encodeIssuedValue(value); !errors.Is(err, amount.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %s, got %v", value, err)
		}
	}
}

func TestEncodeCurrency(t *testing.T) {
	raw, err := encodeCurrency("USD")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.ToUpper(hex.EncodeToString(raw)); got != "0000000000000000000000005553440000000000" {
		t.Fatalf("unexpected standard code %s", got)
	}
	if _, err := encodeCurrency("XRP"); err == nil {
		t.Fatal("native code must not appear in an issued amount")
	}
	raw, err = encodeCurrency("4D79546F6B656E00000000000000000000000000")
	if err != nil || raw[0] != 0x4D {
		t.Fatalf("unexpected hex code encoding %X (%v)", raw, err)
	}
}

func TestEncodePayment(t *testing.T) {
	tx := map[string]any{
		"TransactionType": "Payment",
		"Account":         genesisAddress,
		"Destination":     genesisAddress,
		"Amount":          "1000000",
		"Fee":             "12",
		"Sequence":        uint32(1),
	}
	got, err := Encode(tx)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "120000" +
		"2400000001" +
		"6140000000000F4240" +
		"68400000000000000C" +
		"8114" + genesisID +
		"8314" + genesisID
	if got != want {
		t.Fatalf("unexpected encoding\n got %s\nwant %s", got, want)
	}
}

func TestEncodeBuiltPayloads(t *testing.T) {
	payment, err := txbuilder.Payment(txbuilder.PaymentSpec{
		Account:        genesisAddress,
		Destination:    genesisAddress,
		Amount:         txbuilder.AmountSpec{Currency: "USD", Value: "1", Issuer: genesisAddress},
		DestinationTag: "5",
		Memo:           "hi",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got, err := Encode(payment)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(got, "120000"+"23"+"2F2E5C41"+"2E00000005") {
		t.Fatalf("unexpected header fields %s", got)
	}
	amountField := "61D4838D7EA4C68000" + "0000000000000000000000005553440000000000" + genesisID
	if !strings.Contains(got, amountField) {
		t.Fatalf("issued amount missing from %s", got)
	}
	if !strings.HasSuffix(got, "F9EA7D026869E1F1") {
		t.Fatalf("memo array missing from %s", got)
	}

	trust, err := txbuilder.TrustSet(genesisAddress, txbuilder.TrustSetSpec{Currency: "USD", Issuer: genesisAddress, Limit: "10", NoRipple: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got, err = Encode(trust)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(got, "120014"+"2200020000"+"63D4C38D7EA4C68000") {
		t.Fatalf("unexpected trust set encoding %s", got)
	}

	set := txbuilder.AccountSet(genesisAddress, "a")
	got, err = Encode(set)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "120003"+"202100000008"+"770161"+"8114"+genesisID {
		t.Fatalf("unexpected account set encoding %s", got)
	}
}

func TestEncodeForSigningOmitsSignature(t *testing.T) {
	tx := map[string]any{
		"TransactionType": "AccountSet",
		"Account":         genesisAddress,
		"TxnSignature":    "ABCD",
	}
	signing, err := EncodeForSigning(tx)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "53545800" + "120003" + "8114" + genesisID
	if got := strings.ToUpper(hex.EncodeToString(signing)); got != want {
		t.Fatalf("unexpected signing data %s", got)
	}
	full, err := Encode(tx)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(full, "7402ABCD") {
		t.Fatalf("signature missing from full encoding %s", full)
	}
}

func TestEncodeRejectsUnknownFields(t *testing.T) {
	_, err := Encode(map[string]any{"TransactionType": "Payment", "Bogus": "1"})
	if err == nil {
		t.Fatal("expected unknown field error")
	}
	_, err = Encode(map[string]any{"TransactionType": "EscrowCreate"})
	if err == nil {
		t.Fatal("expected unknown transaction type error")
	}
}

func TestTransactionID(t *testing.T) {
	id, err := TransactionID("120003")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if len(id) != 64 || strings.ToUpper(id) != id {
		t.Fatalf("unexpected id %s", id)
	}
	again, _ := TransactionID("120003")
	if again != id {
		t.Fatal("transaction id must be deterministic")
	}
	if _, err := TransactionID("zz"); err == nil {
		t.Fatal("expected hex error")
	}
}

func TestVLEncoding(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want string
	}{{0, "00"}, {192, "C0"}, {193, "C100"}, {12480, "F0FF"}, {12481, "F10000"}} {
		var buf bytes.Buffer
		if err := writeVL(&buf, make([]byte, tc.n)); err != nil {
			t.Fatalf("writeVL(%d): %v", tc.n, err)
		}
		prefix := buf.Bytes()[:buf.Len()-tc.n]
		if got := strings.ToUpper(hex.EncodeToString(prefix)); got != tc.want {
			t.Fatalf("length prefix for %d = %s, want %s", tc.n, got, tc.want)
		}
	}
}

func TestAmountTypesNormalize(t *testing.T) {
	tx := map[string]any{
		"TransactionType": "Payment",
		"Amount":          amount.Amount{Drops: "12"},
	}
	got, err := Encode(tx)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "120000"+"61400000000000000C" {
		t.Fatalf("unexpected encoding %s", got)
	}
}

