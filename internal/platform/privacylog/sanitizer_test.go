package privacylog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

const (
	testAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	testSeed    = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
)

func logJSON(t *testing.T, fn func(*slog.Logger)) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	fn(slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil))))
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log json %q: %v", buf.String(), err)
	}
	return payload
}

func TestAddressKeysAreFingerprintedStably(t *testing.T) {
	payload := logJSON(t, func(l *slog.Logger) {
		l.Info("test", "destination", testAddress, "issuer", testAddress, "transaction_type", "Payment")
	})
	dest, _ := payload["destination_fp"].(string)
	if !strings.HasPrefix(dest, "fp_") {
		t.Fatalf("unexpected fingerprint value: %q", dest)
	}
	if payload["issuer_fp"] != dest {
		t.Fatalf("expected stable fingerprints, got %v and %v", dest, payload["issuer_fp"])
	}
	if _, ok := payload["destination"]; ok {
		t.Fatal("raw destination should not be present")
	}
	if payload["transaction_type"] != "Payment" {
		t.Fatalf("expected untouched value, got %v", payload["transaction_type"])
	}
}

func TestSanitizingHandlerRedactsKeyMaterial(t *testing.T) {
	payload := logJSON(t, func(l *slog.Logger) {
		l.Info("test",
			"account", testAddress,
			"source_secret", "whatever",
			"private_key", "ED00",
			"error", errors.New("bad request for "+testSeed+": rejected").Error(),
			"status", "ok",
		)
	})
	if _, ok := payload["account_fp"]; !ok {
		t.Fatal("account_fp should be present")
	}
	for _, key := range []string{"source_secret", "private_key"} {
		if got, _ := payload[key].(string); got != redactedValue {
			t.Fatalf("expected %s to be redacted, got %q", key, got)
		}
	}
	msg, _ := payload["error"].(string)
	if strings.Contains(msg, testSeed) {
		t.Fatalf("seed leaked in error text: %q", msg)
	}
	if msg != "bad request for [REDACTED]: rejected" {
		t.Fatalf("expected surrounding text kept, got %q", msg)
	}
	if payload["status"] != "ok" {
		t.Fatalf("expected status untouched, got %v", payload["status"])
	}
}

func TestAddressesInFreeTextAreFingerprinted(t *testing.T) {
	payload := logJSON(t, func(l *slog.Logger) {
		l.Warn("issuer lookup failed for "+testAddress, "error", "actNotFound ("+testAddress+")")
	})
	for _, key := range []string{"msg", "error"} {
		text, _ := payload[key].(string)
		if strings.Contains(text, testAddress) {
			t.Fatalf("address leaked in %s: %q", key, text)
		}
		if !strings.Contains(text, FingerprintID(testAddress)) {
			t.Fatalf("expected fingerprint in %s: %q", key, text)
		}
	}
	if got := payload["error"]; got != "actNotFound ("+FingerprintID(testAddress)+")" {
		t.Fatalf("expected punctuation kept, got %v", got)
	}
}

func TestNonLedgerTokensAreLeftAlone(t *testing.T) {
	text := "submit rejected: tecNO_DST_INSUF_XRP for sequence 12"
	if got := scrubText(text); got != text {
		t.Fatalf("expected unchanged text, got %q", got)
	}
	if looksLikeSeed("s" + strings.Repeat("x", 28)) {
		t.Fatal("checksum must be verified before redacting")
	}
}

func TestSanitizingHandlerImplementsSlogHandlerContract(t *testing.T) {
	var buf bytes.Buffer
	h := WrapHandler(slog.NewJSONHandler(&buf, nil))
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected handler enabled for info")
	}
	rec := slog.NewRecord(time.Now().UTC(), slog.LevelInfo, "msg", 0)
	rec.AddAttrs(slog.String("address", testAddress))
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !strings.Contains(buf.String(), "address_fp") || strings.Contains(buf.String(), testAddress) {
		t.Fatalf("expected sanitized address, got %s", buf.String())
	}
	if WrapHandler(nil) != nil {
		t.Fatal("expected nil handler for nil input")
	}
}

func TestSanitizingHandlerSanitizesWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil))).With("seed", testSeed)
	logger.Info("grouped", slog.Group("request", slog.String("issuer", testAddress), slog.Int("limit", 20)))
	out := buf.String()
	if strings.Contains(out, testSeed) || strings.Contains(out, testAddress) {
		t.Fatalf("expected secrets and addresses removed, got %s", out)
	}
	if !strings.Contains(out, `"limit":20`) || !strings.Contains(out, `"issuer_fp"`) {
		t.Fatalf("expected group structure kept, got %s", out)
	}
}
