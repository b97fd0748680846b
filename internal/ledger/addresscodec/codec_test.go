package addresscodec

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

const (
	genesisAddress   = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	genesisAccountID = "B5F762798A53D543A014CAF8B297CFF8F2F937E8"
	genesisSeed      = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
	genesisEntropy   = "DEDCE9CE67B451D852FD4E846FCDE31C"
)

func TestAccountIDRoundTrip(t *testing.T) {
	id, _ := hex.DecodeString(genesisAccountID)
	address, err := EncodeAccountID(id)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if address != genesisAddress {
		t.Fatalf("expected %s, got %s", genesisAddress, address)
	}
	decoded, err := DecodeAccountID(address)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.ToUpper(hex.EncodeToString(decoded)) != genesisAccountID {
		t.Fatalf("unexpected account id %X", decoded)
	}
}

func TestDecodeAccountIDRejectsCorruption(t *testing.T) {
	corrupted := genesisAddress[:len(genesisAddress)-1] + "j"
	if _, err := DecodeAccountID(corrupted); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	if IsValidAddress("not-an-address") {
		t.Fatal("garbage must not validate")
	}
	if IsValidAddress(genesisSeed) {
		t.Fatal("a seed is not an address")
	}
	if !IsValidAddress(genesisAddress) {
		t.Fatal("genesis address must validate")
	}
}

func TestSeedRoundTrip(t *testing.T) {
	entropy, keyType, err := DecodeSeed(genesisSeed)
	if err != nil {
		t.Fatalf("decode seed: %v", err)
	}
	if keyType != KeyTypeSecp256k1 {
		t.Fatalf("expected secp256k1 seed, got %s", keyType)
	}
	if strings.ToUpper(hex.EncodeToString(entropy)) != genesisEntropy {
		t.Fatalf("unexpected entropy %X", entropy)
	}
	encoded, err := EncodeSeed(entropy, KeyTypeSecp256k1)
	if err != nil || encoded != genesisSeed {
		t.Fatalf("expected %s, got %s (%v)", genesisSeed, encoded, err)
	}

	edSeed, err := EncodeSeed(entropy, KeyTypeEd25519)
	if err != nil {
		t.Fatalf("encode ed25519 seed: %v", err)
	}
	if !strings.HasPrefix(edSeed, "sEd") {
		t.Fatalf("ed25519 seeds start with sEd, got %s", edSeed)
	}
	back, keyType, err := DecodeSeed(edSeed)
	if err != nil || keyType != KeyTypeEd25519 || hex.EncodeToString(back) != hex.EncodeToString(entropy) {
		t.Fatalf("ed25519 seed did not round trip: %X %s %v", back, keyType, err)
	}
}

func TestEncodeSeedRejectsBadInput(t *testing.T) {
	if _, err := EncodeSeed(make([]byte, 15), KeyTypeEd25519); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
	if _, err := EncodeSeed(make([]byte, 16), "rsa"); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
	if _, _, err := DecodeSeed(genesisAddress); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed for an address, got %v", err)
	}
}
