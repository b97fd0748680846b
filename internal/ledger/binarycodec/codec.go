// Package binarycodec serialises transactions into the ledger's canonical
// binary form for signing and submission.
package binarycodec

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"xrpl-gateway/go-backend/internal/ledger/addresscodec"
)

var (
	signingPrefix       = []byte{'S', 'T', 'X', 0}
	transactionIDPrefix = []byte{'T', 'X', 'N', 0}
)

// Encode serialises tx, signature included, as upper-case hex.
func Encode(tx any) (string, error) {
	raw, err := serialize(tx, false)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}

// EncodeForSigning returns the bytes a single signer signs.
func EncodeForSigning(tx any) ([]byte, error) {
	raw, err := serialize(tx, true)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, signingPrefix...), raw...), nil
}

// TransactionID hashes an encoded blob into the transaction's identifier.
func TransactionID(blob string) (string, error) {
	raw, err := hex.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("decode blob: %w", err)
	}
	sum := SHA512Half(append(append([]byte{}, transactionIDPrefix...), raw...))
	return strings.ToUpper(hex.EncodeToString(sum)), nil
}

// SHA512Half is the first 32 bytes of SHA-512.
func SHA512Half(data []byte) []byte {
	sum := sha512.Sum512(data)
	return sum[:32]
}

func serialize(tx any, signingOnly bool) ([]byte, error) {
	obj, err := normalize(tx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeObject(&buf, obj, signingOnly); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize reduces any payload to plain JSON values so typed amounts, memo
// structs and integer fields all encode the same way.
func normalize(tx any) (map[string]any, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("marshal transaction: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("normalize transaction: %w", err)
	}
	return obj, nil
}

func writeObject(buf *bytes.Buffer, obj map[string]any, signingOnly bool) error {
	defs := make([]fieldDef, 0, len(obj))
	for name := range obj {
		def, ok := fields[name]
		if !ok {
			return fmt.Errorf("unsupported field %q", name)
		}
		if signingOnly && !def.signing {
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].less(defs[j]) })
	for _, def := range defs {
		if err := writeField(buf, def, obj[def.name], signingOnly); err != nil {
			return fmt.Errorf("field %s: %w", def.name, err)
		}
	}
	return nil
}

func writeField(buf *bytes.Buffer, def fieldDef, value any, signingOnly bool) error {
	buf.Write(fieldHeader(def.typeCode, def.nth))
	switch def.typeCode {
	case typeUInt8:
		n, err := parseUint(value, 8)
		if err != nil {
			return err
		}
		buf.WriteByte(byte(n))
	case typeUInt16:
		n, err := parseUInt16(def.name, value)
		if err != nil {
			return err
		}
		_ = binary.Write(buf, binary.BigEndian, n)
	case typeUInt32:
		n, err := parseUint(value, 32)
		if err != nil {
			return err
		}
		_ = binary.Write(buf, binary.BigEndian, uint32(n))
	case typeAmount:
		raw, err := encodeAmount(value)
		if err != nil {
			return err
		}
		buf.Write(raw)
	case typeBlob:
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected hex string, got %T", value)
		}
		raw, err := hex.DecodeString(text)
		if err != nil {
			return err
		}
		return writeVL(buf, raw)
	case typeAccountID:
		address, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected address string, got %T", value)
		}
		raw, err := addresscodec.DecodeAccountID(address)
		if err != nil {
			return err
		}
		return writeVL(buf, raw)
	case typeSTObject:
		inner, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
		if err := writeObject(buf, inner, signingOnly); err != nil {
			return err
		}
		buf.WriteByte(objectEndMarker)
	case typeSTArray:
		return writeArray(buf, value, signingOnly)
	default:
		return fmt.Errorf("unsupported type code %d", def.typeCode)
	}
	return nil
}

// writeArray encodes each element as a single-key object naming its field.
func writeArray(buf *bytes.Buffer, value any, signingOnly bool) error {
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("expected array, got %T", value)
	}
	for _, item := range items {
		wrapper, ok := item.(map[string]any)
		if !ok || len(wrapper) != 1 {
			return fmt.Errorf("array element must wrap exactly one object")
		}
		if err := writeObject(buf, wrapper, signingOnly); err != nil {
			return err
		}
	}
	buf.WriteByte(arrayEndMarker)
	return nil
}

func writeVL(buf *bytes.Buffer, raw []byte) error {
	n := len(raw)
	switch {
	case n <= 192:
		buf.WriteByte(byte(n))
	case n <= 12480:
		n -= 193
		buf.Write([]byte{byte(193 + n>>8), byte(n)})
	case n <= 918744:
		n -= 12481
		buf.Write([]byte{byte(241 + n>>16), byte(n >> 8), byte(n)})
	default:
		return fmt.Errorf("blob of %d bytes is too long", len(raw))
	}
	buf.Write(raw)
	return nil
}

func parseUInt16(name string, value any) (uint16, error) {
	if name == "TransactionType" {
		if text, ok := value.(string); ok {
			code, known := transactionTypes[text]
			if !known {
				return 0, fmt.Errorf("unsupported transaction type %q", text)
			}
			return code, nil
		}
	}
	n, err := parseUint(value, 16)
	return uint16(n), err
}

func parseUint(value any, bits int) (uint64, error) {
	var text string
	switch v := value.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = v
	default:
		return 0, fmt.Errorf("expected unsigned integer, got %T", value)
	}
	return strconv.ParseUint(strings.TrimSpace(text), 10, bits)
}
