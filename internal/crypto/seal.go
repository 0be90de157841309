package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"signet/internal/util/memzero"
)

const (
	saltBytes = 16

	// sealPrefix marks values encrypted at rest; anything without it is
	// stored plaintext from before a passphrase was configured.
	sealPrefix = "sealed.v1."
)

// deriveSealKey derives the at-rest key from a passphrase and salt using
// Argon2id.
func deriveSealKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1<<16, 8, 1, chacha20poly1305.KeySize)
}

// Seal encrypts value under a passphrase-derived key for storage at rest.
// The output is sealPrefix + base64(salt || nonce || ciphertext).
func Seal(passphrase, value string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := deriveSealKey(passphrase, salt)
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := make([]byte, 0, len(salt)+len(nonce)+len(value)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(value), nil)
	return sealPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// OpenSealed decrypts a value produced by Seal.
func OpenSealed(passphrase, blob string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(blob, sealPrefix))
	if err != nil {
		return "", fmt.Errorf("decoding sealed value: %w", err)
	}
	if len(raw) < saltBytes+chacha20poly1305.NonceSize {
		return "", errors.New("sealed value too short")
	}
	key := deriveSealKey(passphrase, raw[:saltBytes])
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", err
	}
	nonce := raw[saltBytes : saltBytes+aead.NonceSize()]
	pt, err := aead.Open(nil, nonce, raw[saltBytes+aead.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("opening sealed value: %w", err)
	}
	return string(pt), nil
}

// IsSealed reports whether blob was produced by Seal.
func IsSealed(blob string) bool {
	return strings.HasPrefix(blob, sealPrefix)
}
