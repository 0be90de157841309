package signer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signet/internal/crypto"
	"signet/internal/domain"
	"signet/internal/relay"
)

// remoteResponder plays the remote signer on a memory hub: it decrypts
// requests addressed to its key and answers them with the user identity it
// holds.
type remoteResponder struct {
	keys *crypto.KeyPair // transport identity requests are addressed to
	user *crypto.KeyPair // identity it signs with
}

func startResponder(t *testing.T, hub *relay.Memory) *remoteResponder {
	t.Helper()
	keys, err := crypto.GenerateKey()
	require.NoError(t, err)
	user, err := crypto.GenerateKey()
	require.NoError(t, err)
	r := &remoteResponder{keys: keys, user: user}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rc, err := hub.Dial(ctx, "")
	require.NoError(t, err)
	sub, err := rc.Subscribe(ctx, domain.Filter{
		Kinds: []int{domain.KindSignerRequest},
		P:     []string{keys.PublicKeyHex()},
	})
	require.NoError(t, err)

	go func() {
		for ev := range sub {
			r.handle(ctx, rc, ev)
		}
	}()
	return r
}

func (r *remoteResponder) handle(ctx context.Context, rc domain.RelayClient, ev domain.Event) {
	cipher, err := crypto.NewConversation(r.keys, ev.PubKey, crypto.StrongestScheme())
	if err != nil {
		return
	}
	plain, err := cipher.Decrypt(ev.Content)
	if err != nil {
		return
	}
	var req rpcRequest
	if err := json.Unmarshal([]byte(plain), &req); err != nil {
		return
	}

	resp := rpcResponse{ID: req.ID}
	switch req.Method {
	case "get_public_key":
		resp.Result = r.user.PublicKeyHex()
	case "sign_event":
		var unsigned domain.Event
		if err := json.Unmarshal([]byte(req.Params[0]), &unsigned); err != nil {
			resp.Error = err.Error()
			break
		}
		if err := r.user.SignEvent(&unsigned); err != nil {
			resp.Error = err.Error()
			break
		}
		signed, err := json.Marshal(unsigned)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Result = string(signed)
	default:
		resp.Error = "unsupported method " + req.Method
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	content, err := cipher.Encrypt(string(payload))
	if err != nil {
		return
	}
	out := domain.Event{
		CreatedAt: time.Now().Unix(),
		Kind:      domain.KindSignerRequest,
		Tags:      [][]string{{"p", ev.PubKey}},
		Content:   content,
	}
	if err := r.keys.SignEvent(&out); err != nil {
		return
	}
	_ = rc.Publish(ctx, out)
}

func newRemoteForTest(t *testing.T, hub *relay.Memory, responder *remoteResponder, timeout time.Duration) *Remote {
	t.Helper()
	delegate, err := crypto.GenerateKey()
	require.NoError(t, err)
	rc, err := hub.Dial(context.Background(), "")
	require.NoError(t, err)
	rem, err := NewRemote(responder.keys.PublicKeyHex(), rc, delegate, crypto.StrongestScheme(), timeout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rem.Close() })
	return rem
}

func TestRemotePublicKey(t *testing.T) {
	hub := relay.NewMemory()
	responder := startResponder(t, hub)
	rem := newRemoteForTest(t, hub, responder, 5*time.Second)

	pub, err := rem.PublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, responder.user.PublicKeyHex(), pub)
}

func TestRemotePublicKeyUsesSeededIdentity(t *testing.T) {
	// No responder attached: a seeded identity must answer without any
	// round trip.
	hub := relay.NewMemory()
	delegate, err := crypto.GenerateKey()
	require.NoError(t, err)
	remoteKeys, err := crypto.GenerateKey()
	require.NoError(t, err)
	rc, err := hub.Dial(context.Background(), "")
	require.NoError(t, err)
	rem, err := NewRemote(remoteKeys.PublicKeyHex(), rc, delegate, crypto.StrongestScheme(), time.Second)
	require.NoError(t, err)
	defer rem.Close()

	rem.SetUserPublicKey("seeded")
	pub, err := rem.PublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seeded", pub)
}

func TestRemoteSignEvent(t *testing.T) {
	hub := relay.NewMemory()
	responder := startResponder(t, hub)
	rem := newRemoteForTest(t, hub, responder, 5*time.Second)

	ev := domain.Event{CreatedAt: 1700000000, Kind: 1, Content: "hello"}
	require.NoError(t, rem.SignEvent(context.Background(), &ev))

	assert.Equal(t, responder.user.PublicKeyHex(), ev.PubKey)
	assert.True(t, crypto.VerifyEvent(&ev))
}

func TestRemoteCallTimesOut(t *testing.T) {
	hub := relay.NewMemory()
	delegate, err := crypto.GenerateKey()
	require.NoError(t, err)
	remoteKeys, err := crypto.GenerateKey()
	require.NoError(t, err)
	rc, err := hub.Dial(context.Background(), "")
	require.NoError(t, err)
	rem, err := NewRemote(remoteKeys.PublicKeyHex(), rc, delegate, crypto.StrongestScheme(), 100*time.Millisecond)
	require.NoError(t, err)
	defer rem.Close()

	_, err = rem.PublicKey(context.Background())
	assert.ErrorIs(t, err, domain.ErrOperationTimeout)
}

func TestRemoteSurfacesSignerErrors(t *testing.T) {
	hub := relay.NewMemory()
	responder := startResponder(t, hub)
	rem := newRemoteForTest(t, hub, responder, 5*time.Second)

	peer, err := crypto.GenerateKey()
	require.NoError(t, err)
	_, err = rem.Encrypt(context.Background(), "pt", peer.PublicKeyHex())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported method")
}
