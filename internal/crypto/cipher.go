package crypto

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Conversation encryption schemes, weakest first.
const (
	SchemeNIP04 = "nip04"
	SchemeNIP44 = "nip44"
)

// StrongestScheme is what new sessions negotiate.
func StrongestScheme() string { return SchemeNIP44 }

// Cipher encrypts and decrypts payloads between two fixed parties.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
	Scheme() string
}

// NewConversation derives a pairwise cipher from our secret key and the
// peer's x-only public key. Both directions of a conversation derive the
// same key, so either party can decrypt what the other encrypted.
func NewConversation(k *KeyPair, peerPubHex, scheme string) (Cipher, error) {
	pubBytes, err := hex.DecodeString(peerPubHex)
	if err != nil {
		return nil, fmt.Errorf("peer public key is not hex: %w", err)
	}
	pub, err := schnorr.ParsePubKey(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing peer public key: %w", err)
	}
	shared := btcec.GenerateSharedSecret(k.priv, pub)

	switch scheme {
	case SchemeNIP44:
		key := make([]byte, chacha20poly1305.KeySize)
		r := hkdf.New(sha256.New, shared, nil, []byte("signet-conversation-v2"))
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, err
		}
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, err
		}
		return &aeadCipher{aead: aead}, nil
	case SchemeNIP04:
		var key [32]byte
		copy(key[:], shared)
		return &cbcCipher{key: key}, nil
	default:
		return nil, fmt.Errorf("unknown encryption scheme %q", scheme)
	}
}

// aeadCipher is the NIP-44-style scheme: HKDF conversation key and
// ChaCha20-Poly1305, encoded as base64(version || nonce || ciphertext).
type aeadCipher struct {
	aead stdcipher.AEAD
}

const aeadVersion = 0x02

func (c *aeadCipher) Scheme() string { return SchemeNIP44 }

func (c *aeadCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := make([]byte, 0, 1+len(nonce)+len(plaintext)+c.aead.Overhead())
	out = append(out, aeadVersion)
	out = append(out, nonce...)
	out = c.aead.Seal(out, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *aeadCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}
	if len(raw) < 1+c.aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	if raw[0] != aeadVersion {
		return "", fmt.Errorf("unsupported payload version %d", raw[0])
	}
	nonce := raw[1 : 1+c.aead.NonceSize()]
	pt, err := c.aead.Open(nil, nonce, raw[1+c.aead.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("opening ciphertext: %w", err)
	}
	return string(pt), nil
}

// cbcCipher is the NIP-04-style legacy scheme: AES-256-CBC keyed directly by
// the shared X coordinate, encoded as base64(ct) + "?iv=" + base64(iv).
type cbcCipher struct {
	key [32]byte
}

func (c *cbcCipher) Scheme() string { return SchemeNIP04 }

func (c *cbcCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	stdcipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)
	return base64.StdEncoding.EncodeToString(ct) + "?iv=" + base64.StdEncoding.EncodeToString(iv), nil
}

func (c *cbcCipher) Decrypt(ciphertext string) (string, error) {
	body, ivPart, ok := strings.Cut(ciphertext, "?iv=")
	if !ok {
		return "", errors.New("ciphertext missing iv")
	}
	ct, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}
	iv, err := base64.StdEncoding.DecodeString(ivPart)
	if err != nil {
		return "", fmt.Errorf("decoding iv: %w", err)
	}
	if len(iv) != aes.BlockSize || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", errors.New("malformed ciphertext")
	}
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", err
	}
	pt := make([]byte, len(ct))
	stdcipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)
	un, err := pkcs7Unpad(pt)
	if err != nil {
		return "", err
	}
	return string(un), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > len(b) {
		return nil, errors.New("bad padding")
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, errors.New("bad padding")
		}
	}
	return b[:len(b)-n], nil
}
