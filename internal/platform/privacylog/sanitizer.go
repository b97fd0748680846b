// Package privacylog keeps key material out of logs and replaces account
// addresses with per-process fingerprints.
package privacylog

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"xrpl-gateway/go-backend/internal/ledger/addresscodec"
)

const (
	redactedValue = "[REDACTED]"
	tokenCutset   = `"'.,:;()[]{}`
)

var (
	bootNonce   = randomNonce()
	addressKeys = map[string]struct{}{
		"address":     {},
		"account":     {},
		"destination": {},
		"issuer":      {},
		"source":      {},
	}
	sensitiveKeyParts = []string{"secret", "seed", "private", "mnemonic", "password", "passphrase", "authorization"}
)

type SanitizingHandler struct {
	next slog.Handler
}

func WrapHandler(next slog.Handler) slog.Handler {
	if next == nil {
		return nil
	}
	return &SanitizingHandler{next: next}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, scrubText(rec.Message), rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(SanitizeAttr(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SanitizingHandler{next: h.next.WithAttrs(sanitizeAttrs(attrs))}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name)}
}

// SanitizeAttr drops secrets by key, fingerprints address keys and scrubs
// seeds and addresses embedded in any other string value.
func SanitizeAttr(attr slog.Attr) slog.Attr {
	key := strings.TrimSpace(attr.Key)
	lowerKey := strings.ToLower(key)
	value := attr.Value.Resolve()

	switch {
	case isSensitiveKey(lowerKey):
		return slog.String(key, redactedValue)
	case value.Kind() == slog.KindGroup:
		return slog.Attr{Key: key, Value: slog.GroupValue(sanitizeAttrs(value.Group())...)}
	case isAddressKey(lowerKey):
		return slog.String(key+"_fp", FingerprintID(value.String()))
	case value.Kind() == slog.KindString:
		return slog.String(key, scrubText(value.String()))
	default:
		return slog.Attr{Key: key, Value: value}
	}
}

// FingerprintID is stable within one process and unlinkable across restarts.
func FingerprintID(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed + "|" + bootNonce))
	return "fp_" + hex.EncodeToString(sum[:8])
}

func sanitizeAttrs(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, SanitizeAttr(attr))
	}
	return out
}

// scrubText rewrites free text token by token: family seeds become the
// redaction marker and classic addresses their fingerprint.
func scrubText(text string) string {
	if !strings.ContainsAny(text, "rs") {
		return text
	}
	fields := strings.Fields(text)
	changed := false
	for i, field := range fields {
		token := strings.Trim(field, tokenCutset)
		var replacement string
		switch {
		case looksLikeSeed(token):
			replacement = redactedValue
		case looksLikeAddress(token):
			replacement = FingerprintID(token)
		default:
			continue
		}
		fields[i] = strings.Replace(field, token, replacement, 1)
		changed = true
	}
	if !changed {
		return text
	}
	return strings.Join(fields, " ")
}

func looksLikeSeed(token string) bool {
	if len(token) < 25 || len(token) > 35 || token[0] != 's' {
		return false
	}
	_, _, err := addresscodec.DecodeSeed(token)
	return err == nil
}

func looksLikeAddress(token string) bool {
	if len(token) < 25 || len(token) > 35 || token[0] != 'r' {
		return false
	}
	return addresscodec.IsValidAddress(token)
}

func isAddressKey(key string) bool {
	_, ok := addressKeys[key]
	return ok
}

func isSensitiveKey(key string) bool {
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "fallback_nonce"
	}
	return hex.EncodeToString(buf)
}
