package signer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signet/internal/crypto"
	"signet/internal/domain"
)

// hostStub backs the extension tests with a local key pair.
type hostStub struct {
	keys *crypto.KeyPair
}

func (h *hostStub) PublicKey(ctx context.Context) (string, error) {
	return h.keys.PublicKeyHex(), nil
}

func (h *hostStub) SignEvent(ctx context.Context, ev *domain.Event) error {
	return h.keys.SignEvent(ev)
}

func (h *hostStub) Encrypt(ctx context.Context, plaintext, peerPubKey string) (string, error) {
	c, err := crypto.NewConversation(h.keys, peerPubKey, crypto.StrongestScheme())
	if err != nil {
		return "", err
	}
	return c.Encrypt(plaintext)
}

func (h *hostStub) Decrypt(ctx context.Context, ciphertext, peerPubKey string) (string, error) {
	c, err := crypto.NewConversation(h.keys, peerPubKey, crypto.StrongestScheme())
	if err != nil {
		return "", err
	}
	return c.Decrypt(ciphertext)
}

func installHost(t *testing.T) *hostStub {
	t.Helper()
	keys, err := crypto.GenerateKey()
	require.NoError(t, err)
	h := &hostStub{keys: keys}
	RegisterHost(h)
	t.Cleanup(func() { RegisterHost(nil) })
	return h
}

func TestNewExtensionWithoutHost(t *testing.T) {
	RegisterHost(nil)
	_, err := NewExtension()
	assert.ErrorIs(t, err, domain.ErrNoHostSigner)
}

func TestExtensionDelegatesToHost(t *testing.T) {
	h := installHost(t)
	ext, err := NewExtension()
	require.NoError(t, err)

	ctx := context.Background()
	pub, err := ext.PublicKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, h.keys.PublicKeyHex(), pub)

	ev := domain.Event{CreatedAt: 1, Kind: 1, Content: "x"}
	require.NoError(t, ext.SignEvent(ctx, &ev))
	assert.True(t, crypto.VerifyEvent(&ev))

	peer, err := crypto.GenerateKey()
	require.NoError(t, err)
	ct, err := ext.Encrypt(ctx, "secret", peer.PublicKeyHex())
	require.NoError(t, err)
	pt, err := ext.Decrypt(ctx, ct, peer.PublicKeyHex())
	require.NoError(t, err)
	assert.Equal(t, "secret", pt)
}

func TestRegisterHostNilRemoves(t *testing.T) {
	installHost(t)
	_, err := NewExtension()
	require.NoError(t, err)

	RegisterHost(nil)
	_, err = NewExtension()
	assert.ErrorIs(t, err, domain.ErrNoHostSigner)
}
