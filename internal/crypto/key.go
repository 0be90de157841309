package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"signet/internal/util/memzero"
)

const (
	secretKeyBytes = 32

	hrpSecret = "nsec"
	hrpPublic = "npub"
)

// KeyPair holds a secp256k1 secret key and derives everything else from it.
type KeyPair struct {
	priv *btcec.PrivateKey
}

// GenerateKey creates a fresh random key pair.
func GenerateKey() (*KeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv: priv}, nil
}

// ParseSecretKey accepts a secret key as 64 hex characters or as a bech32
// nsec string. It rejects anything that does not decode to a valid non-zero
// scalar on the curve.
func ParseSecretKey(s string) (*KeyPair, error) {
	s = strings.TrimSpace(s)

	var raw []byte
	switch {
	case strings.HasPrefix(s, hrpSecret+"1"):
		b, err := decodeBech32(hrpSecret, s)
		if err != nil {
			return nil, err
		}
		raw = b
	default:
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("secret key is neither hex nor nsec: %w", err)
		}
		raw = b
	}
	defer memzero.Zero(raw)

	if len(raw) != secretKeyBytes {
		return nil, fmt.Errorf("secret key: want %d bytes, got %d", secretKeyBytes, len(raw))
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	if priv.Key.IsZero() {
		return nil, errors.New("secret key: zero scalar")
	}
	// PrivKeyFromBytes reduces out-of-range scalars mod the curve order; a
	// changed serialisation means the input was not a valid key.
	if !bytes.Equal(priv.Serialize(), raw) {
		return nil, errors.New("secret key: scalar out of range")
	}
	return &KeyPair{priv: priv}, nil
}

// PublicKeyHex returns the x-only public key as 64 hex characters.
func (k *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(schnorr.SerializePubKey(k.priv.PubKey()))
}

// SecretHex returns the secret key as 64 hex characters.
func (k *KeyPair) SecretHex() string {
	return hex.EncodeToString(k.priv.Serialize())
}

// Nsec returns the secret key in bech32 form.
func (k *KeyPair) Nsec() (string, error) {
	return encodeBech32(hrpSecret, k.priv.Serialize())
}

// Npub returns the public key in bech32 form.
func (k *KeyPair) Npub() (string, error) {
	return encodeBech32(hrpPublic, schnorr.SerializePubKey(k.priv.PubKey()))
}

// ValidPublicKey reports whether s is a 32-byte x-only public key in hex that
// lies on the curve.
func ValidPublicKey(s string) bool {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != secretKeyBytes {
		return false
	}
	_, err = schnorr.ParsePubKey(b)
	return err == nil
}

// EncodeNpub converts a hex public key to its bech32 form.
func EncodeNpub(pubHex string) (string, error) {
	b, err := hex.DecodeString(pubHex)
	if err != nil {
		return "", fmt.Errorf("public key is not hex: %w", err)
	}
	if len(b) != secretKeyBytes {
		return "", fmt.Errorf("public key: want %d bytes, got %d", secretKeyBytes, len(b))
	}
	return encodeBech32(hrpPublic, b)
}

// DecodeNpub converts a bech32 public key to hex.
func DecodeNpub(s string) (string, error) {
	b, err := decodeBech32(hrpPublic, s)
	if err != nil {
		return "", err
	}
	if len(b) != secretKeyBytes {
		return "", fmt.Errorf("public key: want %d bytes, got %d", secretKeyBytes, len(b))
	}
	return hex.EncodeToString(b), nil
}

func decodeBech32(wantHRP, s string) ([]byte, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decoding bech32: %w", err)
	}
	if hrp != wantHRP {
		return nil, fmt.Errorf("decoding bech32: prefix %q, want %q", hrp, wantHRP)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("decoding bech32: %w", err)
	}
	return raw, nil
}

func encodeBech32(hrp string, raw []byte) (string, error) {
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, conv)
}
