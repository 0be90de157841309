package signer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"signet/internal/crypto"
	"signet/internal/domain"
)

// DefaultTimeout bounds one remote round trip.
const DefaultTimeout = 30 * time.Second

// Remote signers throttle; keep our own request rate polite regardless of
// how many batches are in flight.
var defaultLimiter = func() *rate.Limiter { return rate.NewLimiter(rate.Limit(8), 8) }

// Remote delegates every operation to a remote signer over a relay. Each
// call is an encrypted request event answered by an encrypted response
// event; calls that outlive the timeout fail with ErrOperationTimeout.
type Remote struct {
	remotePub string
	keys      *crypto.KeyPair // local delegate key, signs the transport
	cipher    crypto.Cipher
	relay     domain.RelayClient
	timeout   time.Duration
	limiter   *rate.Limiter

	mu      sync.Mutex
	userPub string // identity learned from the handshake or first call
}

// NewRemote builds a remote delegated signer.
func NewRemote(remotePub string, rc domain.RelayClient, keys *crypto.KeyPair, scheme string, timeout time.Duration) (*Remote, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c, err := crypto.NewConversation(keys, remotePub, scheme)
	if err != nil {
		return nil, err
	}
	return &Remote{
		remotePub: remotePub,
		keys:      keys,
		cipher:    c,
		relay:     rc,
		timeout:   timeout,
		limiter:   defaultLimiter(),
	}, nil
}

// SetUserPublicKey seeds the user identity so PublicKey needs no round trip.
func (r *Remote) SetUserPublicKey(pub string) {
	r.mu.Lock()
	r.userPub = pub
	r.mu.Unlock()
}

// Close releases the underlying relay connection.
func (r *Remote) Close() error { return r.relay.Close() }

type rpcRequest struct {
	ID     string   `json:"id"`
	Method string   `json:"method"`
	Params []string `json:"params"`
}

type rpcResponse struct {
	ID     string `json:"id"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

// call runs one request/response round trip against the remote signer.
func (r *Remote) call(ctx context.Context, method string, params []string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := rpcRequest{ID: uuid.NewString(), Method: method, Params: params}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	content, err := r.cipher.Encrypt(string(payload))
	if err != nil {
		return "", err
	}

	// Subscribe before publishing so the answer cannot slip past us.
	sub, err := r.relay.Subscribe(ctx, domain.Filter{
		Kinds:   []int{domain.KindSignerRequest},
		Authors: []string{r.remotePub},
		P:       []string{r.keys.PublicKeyHex()},
	})
	if err != nil {
		return "", err
	}

	ev := domain.Event{
		CreatedAt: time.Now().Unix(),
		Kind:      domain.KindSignerRequest,
		Tags:      [][]string{{"p", r.remotePub}},
		Content:   content,
	}
	if err := r.keys.SignEvent(&ev); err != nil {
		return "", err
	}
	if err := r.relay.Publish(ctx, ev); err != nil {
		return "", err
	}

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%s: %w", method, domain.ErrOperationTimeout)
		case resp, ok := <-sub:
			if !ok {
				return "", fmt.Errorf("%s: %w", method, domain.ErrOperationTimeout)
			}
			plain, err := r.cipher.Decrypt(resp.Content)
			if err != nil {
				continue // not addressed to this conversation
			}
			var out rpcResponse
			if err := json.Unmarshal([]byte(plain), &out); err != nil || out.ID != req.ID {
				continue
			}
			if out.Error != "" {
				return "", fmt.Errorf("%s: remote signer: %s", method, out.Error)
			}
			return out.Result, nil
		}
	}
}

func (r *Remote) PublicKey(ctx context.Context) (string, error) {
	r.mu.Lock()
	cached := r.userPub
	r.mu.Unlock()
	if cached != "" {
		return cached, nil
	}
	pub, err := r.call(ctx, "get_public_key", nil)
	if err != nil {
		return "", err
	}
	if !crypto.ValidPublicKey(pub) {
		return "", errors.New("remote signer returned an invalid public key")
	}
	r.SetUserPublicKey(pub)
	return pub, nil
}

func (r *Remote) SignEvent(ctx context.Context, ev *domain.Event) error {
	unsigned, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	result, err := r.call(ctx, "sign_event", []string{string(unsigned)})
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(result), ev)
}

func (r *Remote) Encrypt(ctx context.Context, plaintext, peerPubKey string) (string, error) {
	return r.call(ctx, r.cipher.Scheme()+"_encrypt", []string{peerPubKey, plaintext})
}

func (r *Remote) Decrypt(ctx context.Context, ciphertext, peerPubKey string) (string, error) {
	return r.call(ctx, r.cipher.Scheme()+"_decrypt", []string{peerPubKey, ciphertext})
}

var _ domain.Signer = (*Remote)(nil)
