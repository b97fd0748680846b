package currency

import (
	"encoding/hex"
	"strings"
)

// MemoDecodeFailed replaces memo data that is not valid hex.
const MemoDecodeFailed = "Memo could not be decoded"

// EncodeHex returns the upper-case hex form of text's UTF-8 bytes, the shape
// the ledger expects for memo data and account domains.
func EncodeHex(text string) string {
	return strings.ToUpper(hex.EncodeToString([]byte(text)))
}

// DecodeHexText decodes hex into text. Invalid UTF-8 sequences are replaced
// rather than rejected; ok is false only when raw is not hex.
func DecodeHexText(raw string) (text string, ok bool) {
	decoded, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return strings.ToValidUTF8(string(decoded), "�"), true
}

// DecodeMemo decodes memo data, substituting MemoDecodeFailed on failure.
func DecodeMemo(raw string) string {
	text, ok := DecodeHexText(raw)
	if !ok {
		return MemoDecodeFailed
	}
	return text
}
