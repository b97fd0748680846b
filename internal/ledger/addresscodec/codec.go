// Package addresscodec encodes account IDs and seeds in the ledger's
// base58check format.
package addresscodec

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58/base58"
)

const (
	AccountIDLength = 20
	SeedLength      = 16

	checksumLength = 4
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidSeed    = errors.New("invalid seed")
	ErrChecksum       = errors.New("checksum mismatch")

	alphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

	accountIDPrefix     = []byte{0x00}
	secp256k1SeedPrefix = []byte{0x21}
	ed25519SeedPrefix   = []byte{0x01, 0xE1, 0x4B}
)

type KeyType string

const (
	KeyTypeEd25519   KeyType = "ed25519"
	KeyTypeSecp256k1 KeyType = "secp256k1"
)

func EncodeAccountID(accountID []byte) (string, error) {
	if len(accountID) != AccountIDLength {
		return "", fmt.Errorf("%w: account id must be %d bytes", ErrInvalidAddress, AccountIDLength)
	}
	return encodeCheck(accountIDPrefix, accountID), nil
}

func DecodeAccountID(address string) ([]byte, error) {
	prefix, payload, err := decodeCheck(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if !bytes.Equal(prefix, accountIDPrefix) || len(payload) != AccountIDLength {
		return nil, fmt.Errorf("%w: %q is not an account address", ErrInvalidAddress, address)
	}
	return payload, nil
}

func IsValidAddress(address string) bool {
	_, err := DecodeAccountID(address)
	return err == nil
}

func EncodeSeed(entropy []byte, keyType KeyType) (string, error) {
	if len(entropy) != SeedLength {
		return "", fmt.Errorf("%w: entropy must be %d bytes", ErrInvalidSeed, SeedLength)
	}
	switch keyType {
	case KeyTypeEd25519:
		return encodeCheck(ed25519SeedPrefix, entropy), nil
	case KeyTypeSecp256k1:
		return encodeCheck(secp256k1SeedPrefix, entropy), nil
	}
	return "", fmt.Errorf("%w: unknown key type %q", ErrInvalidSeed, keyType)
}

// DecodeSeed returns the seed entropy and the key type its prefix selects.
func DecodeSeed(seed string) ([]byte, KeyType, error) {
	raw, err := base58.DecodeAlphabet(seed, alphabet)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := verifyChecksum(raw); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	body := raw[:len(raw)-checksumLength]
	switch {
	case len(body) == len(ed25519SeedPrefix)+SeedLength && bytes.HasPrefix(body, ed25519SeedPrefix):
		return body[len(ed25519SeedPrefix):], KeyTypeEd25519, nil
	case len(body) == len(secp256k1SeedPrefix)+SeedLength && bytes.HasPrefix(body, secp256k1SeedPrefix):
		return body[len(secp256k1SeedPrefix):], KeyTypeSecp256k1, nil
	}
	return nil, "", fmt.Errorf("%w: unrecognised seed prefix", ErrInvalidSeed)
}

func encodeCheck(prefix, payload []byte) string {
	body := make([]byte, 0, len(prefix)+len(payload)+checksumLength)
	body = append(body, prefix...)
	body = append(body, payload...)
	body = append(body, checksum(body)...)
	return base58.EncodeAlphabet(body, alphabet)
}

func decodeCheck(encoded string) (prefix, payload []byte, err error) {
	raw, err := base58.DecodeAlphabet(encoded, alphabet)
	if err != nil {
		return nil, nil, err
	}
	if err := verifyChecksum(raw); err != nil {
		return nil, nil, err
	}
	return raw[:1], raw[1 : len(raw)-checksumLength], nil
}

func verifyChecksum(raw []byte) error {
	if len(raw) <= checksumLength+1 {
		return errors.New("payload too short")
	}
	body := raw[:len(raw)-checksumLength]
	if !bytes.Equal(checksum(body), raw[len(raw)-checksumLength:]) {
		return ErrChecksum
	}
	return nil
}

func checksum(body []byte) []byte {
	first := sha256.Sum256(body)
	second := sha256.Sum256(first[:])
	return second[:checksumLength]
}
