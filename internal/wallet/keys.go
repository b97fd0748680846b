package wallet

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"xrpl-gateway/go-backend/internal/ledger/binarycodec"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/ripemd160"
)

const ed25519KeyPrefix = 0xED

var errNoValidScalar = errors.New("no valid secp256k1 scalar found")

type keyPair interface {
	publicKey() []byte
	privateKeyHex() string
	sign(message []byte) ([]byte, error)
	verify(message, signature []byte) bool
}

type ed25519Keys struct {
	private ed25519.PrivateKey
}

func deriveEd25519(entropy []byte) *ed25519Keys {
	seed := binarycodec.SHA512Half(entropy)
	return &ed25519Keys{private: ed25519.NewKeyFromSeed(seed)}
}

func (k *ed25519Keys) publicKey() []byte {
	pub := k.private.Public().(ed25519.PublicKey)
	return append([]byte{ed25519KeyPrefix}, pub...)
}

func (k *ed25519Keys) privateKeyHex() string {
	return fmt.Sprintf("%02X%X", ed25519KeyPrefix, k.private.Seed())
}

func (k *ed25519Keys) sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.private, message), nil
}

func (k *ed25519Keys) verify(message, signature []byte) bool {
	return ed25519.Verify(k.private.Public().(ed25519.PublicKey), message, signature)
}

type secp256k1Keys struct {
	private *btcec.PrivateKey
}

// deriveSecp256k1 derives the account key of family generator 0: a root key
// from the seed plus an intermediate key from the root public key.
func deriveSecp256k1(entropy []byte) (*secp256k1Keys, error) {
	root, err := firstValidScalar(entropy)
	if err != nil {
		return nil, err
	}
	rootBytes := root.Bytes()
	_, rootPub := btcec.PrivKeyFromBytes(rootBytes[:])

	intermediateSeed := append(rootPub.SerializeCompressed(), 0, 0, 0, 0)
	intermediate, err := firstValidScalar(intermediateSeed)
	if err != nil {
		return nil, err
	}

	var account btcec.ModNScalar
	account.Set(root).Add(intermediate)
	accountBytes := account.Bytes()
	private, _ := btcec.PrivKeyFromBytes(accountBytes[:])
	return &secp256k1Keys{private: private}, nil
}

// firstValidScalar hashes prefix with an increasing 32-bit counter until the
// digest is a non-zero scalar below the curve order.
func firstValidScalar(prefix []byte) (*btcec.ModNScalar, error) {
	buf := make([]byte, len(prefix)+4)
	copy(buf, prefix)
	for i := uint32(0); i < 1<<16; i++ {
		binary.BigEndian.PutUint32(buf[len(prefix):], i)
		var scalar btcec.ModNScalar
		overflow := scalar.SetByteSlice(binarycodec.SHA512Half(buf))
		if !overflow && !scalar.IsZero() {
			return &scalar, nil
		}
	}
	return nil, errNoValidScalar
}

func (k *secp256k1Keys) publicKey() []byte {
	return k.private.PubKey().SerializeCompressed()
}

func (k *secp256k1Keys) privateKeyHex() string {
	return fmt.Sprintf("00%X", k.private.Serialize())
}

func (k *secp256k1Keys) sign(message []byte) ([]byte, error) {
	return ecdsa.Sign(k.private, binarycodec.SHA512Half(message)).Serialize(), nil
}

func (k *secp256k1Keys) verify(message, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(binarycodec.SHA512Half(message), k.private.PubKey())
}

// accountID is RIPEMD-160 of SHA-256 of the public key.
func accountID(publicKey []byte) []byte {
	sha := sha256.Sum256(publicKey)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}
