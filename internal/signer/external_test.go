package signer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signet/internal/crypto"
	"signet/internal/domain"
)

// bridgeStub records the last round trip and answers from a canned table.
type bridgeStub struct {
	lastKind    domain.RequestKind
	lastPayload string
	respond     func(kind domain.RequestKind, payload string) (string, error)
}

func (b *bridgeStub) RoundTrip(ctx context.Context, kind domain.RequestKind, payload string) (string, error) {
	b.lastKind = kind
	b.lastPayload = payload
	return b.respond(kind, payload)
}

func TestExternalPublicKeyIsLocal(t *testing.T) {
	ext := NewExternal("pub", &bridgeStub{})
	pub, err := ext.PublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pub", pub)
}

func TestExternalSignEventRoundTrips(t *testing.T) {
	keys, err := crypto.GenerateKey()
	require.NoError(t, err)
	stub := &bridgeStub{
		respond: func(kind domain.RequestKind, payload string) (string, error) {
			var ev domain.Event
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				return "", err
			}
			if err := keys.SignEvent(&ev); err != nil {
				return "", err
			}
			signed, err := json.Marshal(ev)
			return string(signed), err
		},
	}

	ext := NewExternal(keys.PublicKeyHex(), stub)
	ev := domain.Event{CreatedAt: 1, Kind: 1, Content: "hello"}
	require.NoError(t, ext.SignEvent(context.Background(), &ev))

	assert.Equal(t, domain.RequestSignEvent, stub.lastKind)
	assert.True(t, crypto.VerifyEvent(&ev))
}

func TestExternalCipherPayloadShape(t *testing.T) {
	stub := &bridgeStub{
		respond: func(kind domain.RequestKind, payload string) (string, error) {
			return "result", nil
		},
	}
	ext := NewExternal("pub", stub)

	out, err := ext.Encrypt(context.Background(), "plain", "peer-pub")
	require.NoError(t, err)
	assert.Equal(t, "result", out)
	assert.Equal(t, domain.RequestEncrypt, stub.lastKind)

	var p cipherPayload
	require.NoError(t, json.Unmarshal([]byte(stub.lastPayload), &p))
	assert.Equal(t, "peer-pub", p.Peer)
	assert.Equal(t, "plain", p.Data)

	_, err = ext.Decrypt(context.Background(), "cipher", "peer-pub")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestDecrypt, stub.lastKind)
}
