package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"signet/internal/crypto"
	"signet/internal/domain"
	"signet/internal/signer"
)

// State of one handshake attempt.
type State int

const (
	StateInit State = iota
	StateAwaitingAck
	StateEstablished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateAwaitingAck:
		return "AWAITING_ACK"
	case StateEstablished:
		return "ESTABLISHED"
	case StateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// DefaultAckTimeout bounds how long we wait for the remote acknowledgement.
const DefaultAckTimeout = 2 * time.Minute

// Service runs the handshake and promotes successful sessions into the
// login store.
type Service struct {
	logins     domain.LoginStore
	dial       domain.DialFunc
	ackTimeout time.Duration
	opTimeout  time.Duration
	log        *slog.Logger
}

func New(logins domain.LoginStore, dial domain.DialFunc, ackTimeout, opTimeout time.Duration, log *slog.Logger) *Service {
	if ackTimeout <= 0 {
		ackTimeout = DefaultAckTimeout
	}
	if opTimeout <= 0 {
		opTimeout = signer.DefaultTimeout
	}
	return &Service{logins: logins, dial: dial, ackTimeout: ackTimeout, opTimeout: opTimeout, log: log}
}

// Result of an established handshake.
type Result struct {
	State  State
	Record domain.LoginRecord
	Bunker domain.Bunker
	Signer *signer.Remote
}

// ack is the decrypted acknowledgement payload from the remote party.
type ack struct {
	Result string `json:"result"`
	PubKey string `json:"pubkey"`
}

// Establish negotiates a session with the remote party whose public identity
// was obtained out of band. On success the session is promoted into a
// durable login record whose public identity is the user's, learned from the
// acknowledgement.
func (s *Service) Establish(ctx context.Context, remotePub, relayURL string) (Result, error) {
	failed := func(err error) (Result, error) {
		s.log.Warn("handshake failed", "state", StateFailed.String(), "err", err)
		return Result{State: StateFailed}, err
	}

	if !crypto.ValidPublicKey(remotePub) {
		return failed(fmt.Errorf("%w: remote public key is not valid", domain.ErrHandshake))
	}
	keys, err := crypto.GenerateKey()
	if err != nil {
		return failed(fmt.Errorf("%w: %v", domain.ErrHandshake, err))
	}
	cipher, err := crypto.NewConversation(keys, remotePub, crypto.StrongestScheme())
	if err != nil {
		return failed(fmt.Errorf("%w: %v", domain.ErrHandshake, err))
	}

	rc, err := s.dial(ctx, relayURL)
	if err != nil {
		return failed(fmt.Errorf("%w: %v", domain.ErrHandshake, err))
	}
	defer rc.Close()

	actx, cancel := context.WithTimeout(ctx, s.ackTimeout)
	defer cancel()

	sub, err := rc.Subscribe(actx, domain.Filter{
		Kinds:   []int{domain.KindSignerRequest},
		Authors: []string{remotePub},
		P:       []string{keys.PublicKeyHex()},
	})
	if err != nil {
		return failed(fmt.Errorf("%w: %v", domain.ErrHandshake, err))
	}

	// Announce ourselves so the remote party learns the delegate key; the
	// acknowledgement below is still the only thing that promotes anything.
	if err := s.publishConnectRequest(actx, rc, keys, cipher, remotePub); err != nil {
		return failed(fmt.Errorf("%w: %v", domain.ErrHandshake, err))
	}
	s.log.Info("awaiting acknowledgement", "state", StateAwaitingAck.String(), "relay", relayURL)

	userPub, err := s.awaitAck(actx, sub, cipher)
	if err != nil {
		return failed(err)
	}

	bunker := domain.Bunker{RemotePubKey: remotePub, RelayURL: relayURL, Secret: keys.SecretHex()}

	// The promoted signer gets its own relay connection; the handshake
	// connection closes with this call.
	rc2, err := s.dial(ctx, relayURL)
	if err != nil {
		return failed(fmt.Errorf("%w: %v", domain.ErrHandshake, err))
	}
	rem, err := signer.NewRemote(remotePub, rc2, keys, crypto.StrongestScheme(), s.opTimeout)
	if err != nil {
		rc2.Close()
		return failed(fmt.Errorf("%w: %v", domain.ErrHandshake, err))
	}
	rem.SetUserPublicKey(userPub)

	rec := domain.LoginRecord{
		ID:        uuid.NewString(),
		Method:    domain.LoginRemote,
		PubKey:    userPub,
		Secret:    bunker.String(),
		Relay:     relayURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.logins.Add(rec); err != nil {
		rem.Close()
		return failed(err)
	}
	s.log.Info("handshake established", "state", StateEstablished.String(), "record", rec)
	return Result{State: StateEstablished, Record: rec, Bunker: bunker, Signer: rem}, nil
}

// publishConnectRequest sends the encrypted connect request that carries the
// delegate identity to the remote party.
func (s *Service) publishConnectRequest(ctx context.Context, rc domain.RelayClient, keys *crypto.KeyPair, cipher crypto.Cipher, remotePub string) error {
	payload, err := json.Marshal(struct {
		ID     string   `json:"id"`
		Method string   `json:"method"`
		Params []string `json:"params"`
	}{ID: uuid.NewString(), Method: "connect", Params: []string{remotePub}})
	if err != nil {
		return err
	}
	content, err := cipher.Encrypt(string(payload))
	if err != nil {
		return err
	}
	ev := domain.Event{
		CreatedAt: time.Now().Unix(),
		Kind:      domain.KindSignerRequest,
		Tags:      [][]string{{"p", remotePub}},
		Content:   content,
	}
	if err := keys.SignEvent(&ev); err != nil {
		return err
	}
	return rc.Publish(ctx, ev)
}

// awaitAck waits for the explicit acknowledgement event carrying the user's
// public identity.
func (s *Service) awaitAck(ctx context.Context, sub <-chan domain.Event, cipher crypto.Cipher) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: acknowledgement timed out", domain.ErrHandshake)
		case ev, ok := <-sub:
			if !ok {
				return "", fmt.Errorf("%w: relay closed before acknowledgement", domain.ErrHandshake)
			}
			plain, err := cipher.Decrypt(ev.Content)
			if err != nil {
				continue // not for this conversation
			}
			var a ack
			if err := json.Unmarshal([]byte(plain), &a); err != nil || a.Result != "ack" {
				continue
			}
			if !crypto.ValidPublicKey(a.PubKey) {
				return "", fmt.Errorf("%w: acknowledgement carried an invalid identity", domain.ErrHandshake)
			}
			return a.PubKey, nil
		}
	}
}
