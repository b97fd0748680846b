// Package wallet derives ledger key pairs from seeds and signs transaction
// payloads. Wallets live only for the duration of a request; nothing here
// persists key material.
package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"xrpl-gateway/go-backend/internal/ledger/addresscodec"
	"xrpl-gateway/go-backend/internal/ledger/binarycodec"
	"xrpl-gateway/go-backend/internal/txbuilder"

	"github.com/tyler-smith/go-bip39"
)

type Algorithm = addresscodec.KeyType

const (
	AlgorithmEd25519   = addresscodec.KeyTypeEd25519
	AlgorithmSecp256k1 = addresscodec.KeyTypeSecp256k1

	DefaultAlgorithm = AlgorithmEd25519
)

var (
	ErrUnknownAlgorithm = errors.New("unknown key algorithm")
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrSeedRequired     = errors.New("seed is required")
)

type Wallet struct {
	algorithm Algorithm
	entropy   []byte
	seed      string
	keys      keyPair
	address   string
}

// Generate creates a wallet from fresh random entropy.
func Generate(algorithm Algorithm) (*Wallet, error) {
	entropy := make([]byte, addresscodec.SeedLength)
	if _, err := rand.Read(entropy); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}
	return FromEntropy(entropy, algorithm)
}

func FromSeed(seed string) (*Wallet, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, ErrSeedRequired
	}
	entropy, algorithm, err := addresscodec.DecodeSeed(seed)
	if err != nil {
		return nil, err
	}
	return FromEntropy(entropy, algorithm)
}

func FromEntropy(entropy []byte, algorithm Algorithm) (*Wallet, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	var keys keyPair
	switch algorithm {
	case AlgorithmEd25519:
		keys = deriveEd25519(entropy)
	case AlgorithmSecp256k1:
		derived, err := deriveSecp256k1(entropy)
		if err != nil {
			return nil, err
		}
		keys = derived
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	seed, err := addresscodec.EncodeSeed(entropy, algorithm)
	if err != nil {
		return nil, err
	}
	address, err := addresscodec.EncodeAccountID(accountID(keys.publicKey()))
	if err != nil {
		return nil, err
	}
	return &Wallet{
		algorithm: algorithm,
		entropy:   append([]byte(nil), entropy...),
		seed:      seed,
		keys:      keys,
		address:   address,
	}, nil
}

// FromMnemonic restores a wallet from the phrase returned by Mnemonic.
func FromMnemonic(mnemonic string, algorithm Algorithm) (*Wallet, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	if len(entropy) != addresscodec.SeedLength {
		return nil, fmt.Errorf("%w: expected a 12 word phrase", ErrInvalidMnemonic)
	}
	return FromEntropy(entropy, algorithm)
}

// ParseAlgorithm maps user input to an algorithm; empty selects the default.
func ParseAlgorithm(raw string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return DefaultAlgorithm, nil
	case AlgorithmEd25519:
		return AlgorithmEd25519, nil
	case AlgorithmSecp256k1:
		return AlgorithmSecp256k1, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, raw)
}

func (w *Wallet) Address() string      { return w.address }
func (w *Wallet) Seed() string         { return w.seed }
func (w *Wallet) Algorithm() Algorithm { return w.algorithm }

func (w *Wallet) PublicKey() string {
	return strings.ToUpper(hex.EncodeToString(w.keys.publicKey()))
}

func (w *Wallet) PrivateKey() string {
	return w.keys.privateKeyHex()
}

// Mnemonic encodes the seed entropy as a 12 word BIP-39 phrase.
func (w *Wallet) Mnemonic() (string, error) {
	return bip39.NewMnemonic(w.entropy)
}

// Sign sets SigningPubKey, signs tx and returns the encoded blob and its
// transaction hash. The caller's payload is left untouched.
func (w *Wallet) Sign(tx txbuilder.Payload) (string, string, error) {
	signed := tx.Clone()
	signed["SigningPubKey"] = w.PublicKey()
	delete(signed, "TxnSignature")

	message, err := binarycodec.EncodeForSigning(signed)
	if err != nil {
		return "", "", fmt.Errorf("encode for signing: %w", err)
	}
	signature, err := w.keys.sign(message)
	if err != nil {
		return "", "", err
	}
	signed["TxnSignature"] = strings.ToUpper(hex.EncodeToString(signature))

	blob, err := binarycodec.Encode(signed)
	if err != nil {
		return "", "", fmt.Errorf("encode signed transaction: %w", err)
	}
	hash, err := binarycodec.TransactionID(blob)
	if err != nil {
		return "", "", err
	}
	return blob, hash, nil
}

// Verify checks signature over the signing encoding of tx.
func (w *Wallet) Verify(tx txbuilder.Payload, signature string) (bool, error) {
	unsigned := tx.Clone()
	delete(unsigned, "TxnSignature")
	message, err := binarycodec.EncodeForSigning(unsigned)
	if err != nil {
		return false, err
	}
	raw, err := hex.DecodeString(signature)
	if err != nil {
		return false, err
	}
	return w.keys.verify(message, raw), nil
}
