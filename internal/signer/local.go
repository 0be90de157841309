package signer

import (
	"context"
	"fmt"

	"signet/internal/crypto"
	"signet/internal/domain"
)

// Local signs with a secret key held by this application.
type Local struct {
	keys *crypto.KeyPair
}

// NewLocal builds a local signer from a secret-key string (hex or nsec).
func NewLocal(secret string) (*Local, error) {
	keys, err := crypto.ParseSecretKey(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSecret, err)
	}
	return &Local{keys: keys}, nil
}

// Keys exposes the parsed key pair for credential normalisation.
func (l *Local) Keys() *crypto.KeyPair { return l.keys }

func (l *Local) PublicKey(ctx context.Context) (string, error) {
	return l.keys.PublicKeyHex(), nil
}

func (l *Local) SignEvent(ctx context.Context, ev *domain.Event) error {
	return l.keys.SignEvent(ev)
}

func (l *Local) Encrypt(ctx context.Context, plaintext, peerPubKey string) (string, error) {
	c, err := crypto.NewConversation(l.keys, peerPubKey, crypto.StrongestScheme())
	if err != nil {
		return "", err
	}
	return c.Encrypt(plaintext)
}

func (l *Local) Decrypt(ctx context.Context, ciphertext, peerPubKey string) (string, error) {
	c, err := crypto.NewConversation(l.keys, peerPubKey, crypto.StrongestScheme())
	if err != nil {
		return "", err
	}
	return c.Decrypt(ciphertext)
}

var _ domain.Signer = (*Local)(nil)
