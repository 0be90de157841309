package signer

import (
	"context"
	"encoding/json"

	"signet/internal/domain"
)

// RoundTripper hands a request to the external signing application and
// resumes with its response. Implemented by the callback bridge.
type RoundTripper interface {
	RoundTrip(ctx context.Context, kind domain.RequestKind, payload string) (string, error)
}

// External delegates operations to an external signing application via the
// callback bridge. It is constructed once the bridge has received the
// initial public-key response.
type External struct {
	pubKey string
	bridge RoundTripper
}

func NewExternal(pubKey string, bridge RoundTripper) *External {
	return &External{pubKey: pubKey, bridge: bridge}
}

// cipherPayload carries encrypt/decrypt arguments across the bridge.
type cipherPayload struct {
	Peer string `json:"peer"`
	Data string `json:"data"`
}

func (e *External) PublicKey(ctx context.Context) (string, error) {
	return e.pubKey, nil
}

func (e *External) SignEvent(ctx context.Context, ev *domain.Event) error {
	unsigned, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	result, err := e.bridge.RoundTrip(ctx, domain.RequestSignEvent, string(unsigned))
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(result), ev)
}

func (e *External) Encrypt(ctx context.Context, plaintext, peerPubKey string) (string, error) {
	return e.roundTripCipher(ctx, domain.RequestEncrypt, peerPubKey, plaintext)
}

func (e *External) Decrypt(ctx context.Context, ciphertext, peerPubKey string) (string, error) {
	return e.roundTripCipher(ctx, domain.RequestDecrypt, peerPubKey, ciphertext)
}

func (e *External) roundTripCipher(ctx context.Context, kind domain.RequestKind, peer, data string) (string, error) {
	payload, err := json.Marshal(cipherPayload{Peer: peer, Data: data})
	if err != nil {
		return "", err
	}
	return e.bridge.RoundTrip(ctx, kind, string(payload))
}

var _ domain.Signer = (*External)(nil)
