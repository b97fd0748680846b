package binarycodec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"xrpl-gateway/go-backend/internal/amount"
	"xrpl-gateway/go-backend/internal/ledger/addresscodec"

	"github.com/shopspring/decimal"
)

const (
	maxDrops = uint64(100_000_000_000_000_000)

	nativePositiveBit = uint64(0x4000000000000000)
	issuedBit         = uint64(0x8000000000000000)

	minExponent = -96
	maxExponent = 80
	// exponentBias makes the stored exponent non-negative.
	exponentBias = 97
)

var (
	minMantissa = big.NewInt(1_000_000_000_000_000)
	maxMantissa = big.NewInt(9_999_999_999_999_999)
	ten         = big.NewInt(10)
)

func encodeAmount(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return encodeNative(v)
	case map[string]any:
		currency, _ := v["currency"].(string)
		issuer, _ := v["issuer"].(string)
		val, _ := v["value"].(string)
		return encodeIssued(val, currency, issuer)
	}
	return nil, fmt.Errorf("unsupported amount %T", value)
}

func encodeNative(drops string) ([]byte, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(drops), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("native amount %q: %w", drops, err)
	}
	if n > maxDrops {
		return nil, fmt.Errorf("native amount %q exceeds the maximum", drops)
	}
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, n|nativePositiveBit)
	return out, nil
}

func encodeIssued(value, currency, issuer string) ([]byte, error) {
	head, err := encodeIssuedValue(value)
	if err != nil {
		return nil, err
	}
	code, err := encodeCurrency(currency)
	if err != nil {
		return nil, err
	}
	account, err := addresscodec.DecodeAccountID(issuer)
	if err != nil {
		return nil, fmt.Errorf("issuer: %w", err)
	}
	out := make([]byte, 0, 48)
	out = append(out, head...)
	out = append(out, code...)
	out = append(out, account...)
	return out, nil
}

// encodeIssuedValue packs value as a sign bit, a biased 8-bit exponent and a
// 54-bit mantissa normalised to 16 significant digits.
func encodeIssuedValue(value string) ([]byte, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: issued amount %q: %v", amount.ErrInvalidAmount, value, err)
	}
	out := make([]byte, 8)
	if d.IsZero() {
		binary.BigEndian.PutUint64(out, issuedBit)
		return out, nil
	}
	mantissa := new(big.Int).Abs(d.Coefficient())
	exponent := int(d.Exponent())
	for mantissa.Cmp(minMantissa) < 0 {
		mantissa.Mul(mantissa, ten)
		exponent--
	}
	rem := new(big.Int)
	for mantissa.Cmp(maxMantissa) > 0 {
		quo := new(big.Int)
		quo.QuoRem(mantissa, ten, rem)
		if rem.Sign() != 0 {
			return nil, fmt.Errorf("%w: issued amount %q has more than 16 significant digits", amount.ErrInvalidAmount, value)
		}
		mantissa = quo
		exponent++
	}
	if exponent < minExponent || exponent > maxExponent {
		return nil, fmt.Errorf("%w: issued amount %q is out of range", amount.ErrInvalidAmount, value)
	}
	bits := issuedBit | uint64(exponent+exponentBias)<<54 | mantissa.Uint64()
	if d.Sign() > 0 {
		bits |= nativePositiveBit
	}
	binary.BigEndian.PutUint64(out, bits)
	return out, nil
}

func encodeCurrency(code string) ([]byte, error) {
	out := make([]byte, 20)
	switch len(code) {
	case 3:
		if code == "XRP" {
			return nil, fmt.Errorf("currency %q is reserved for the native asset", code)
		}
		copy(out[12:15], code)
		return out, nil
	case 40:
		raw, err := hex.DecodeString(code)
		if err != nil {
			return nil, fmt.Errorf("currency %q: %w", code, err)
		}
		copy(out, raw)
		return out, nil
	}
	return nil, fmt.Errorf("currency %q must be 3 characters or 40 hex digits", code)
}
