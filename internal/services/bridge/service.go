package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"signet/internal/crypto"
	"signet/internal/domain"
	"signet/internal/signer"
)

const (
	// DefaultReturnPath is where a successful callback redirects when the
	// pending request recorded none.
	DefaultReturnPath = "/"

	// RedirectDelay is the cosmetic pause before redirecting, so the status
	// view is visible for a moment. Purely UI feedback.
	RedirectDelay = 400 * time.Millisecond

	// ResponseParam is the conventional name of the callback response
	// parameter.
	ResponseParam = "event"
)

// Launcher transfers control to the external signing application.
type Launcher interface {
	Open(uri string) error
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(uri string) error

func (f LauncherFunc) Open(uri string) error { return f(uri) }

type callbackResult struct {
	value string
	err   error
}

// Service is the callback bridge.
type Service struct {
	pending  domain.PendingStore
	logins   domain.LoginStore
	launcher Launcher
	log      *slog.Logger

	mu      sync.Mutex
	waiters map[string]chan callbackResult
}

func New(pending domain.PendingStore, logins domain.LoginStore, launcher Launcher, log *slog.Logger) *Service {
	return &Service{
		pending:  pending,
		logins:   logins,
		launcher: launcher,
		log:      log,
		waiters:  make(map[string]chan callbackResult),
	}
}

// RequestLogin starts the external login round trip: it records the pending
// public-key request, then transfers control to the external application.
// The credential is created when the callback arrives.
func (s *Service) RequestLogin(ctx context.Context, returnPath string) error {
	_, err := s.transfer(domain.RequestPublicKey, "", returnPath)
	return err
}

// RoundTrip hands one signing operation to the external application and
// blocks until the callback delivers the response or ctx expires. The
// durable pending record outlives this process; a restart in between still
// consumes the callback through HandleCallback.
func (s *Service) RoundTrip(ctx context.Context, kind domain.RequestKind, payload string) (string, error) {
	req, err := s.transfer(kind, payload, DefaultReturnPath)
	if err != nil {
		return "", err
	}

	ch := make(chan callbackResult, 1)
	s.mu.Lock()
	s.waiters[req.ID] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.waiters, req.ID)
		s.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", kind, domain.ErrOperationTimeout)
	case res := <-ch:
		return res.value, res.err
	}
}

// transfer persists the pending request, then hands control out. Ordering
// matters: the durable record must exist before the external application is
// invoked.
func (s *Service) transfer(kind domain.RequestKind, payload, returnPath string) (domain.PendingSignerRequest, error) {
	if returnPath == "" {
		returnPath = DefaultReturnPath
	}
	req := domain.PendingSignerRequest{
		ID:         uuid.NewString(),
		Kind:       kind,
		ReturnPath: returnPath,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.pending.Put(req); err != nil {
		return domain.PendingSignerRequest{}, err
	}
	if err := s.launcher.Open(requestURI(kind, payload)); err != nil {
		return domain.PendingSignerRequest{}, fmt.Errorf("launching external signer: %w", err)
	}
	s.log.Info("handed off to external signer", "kind", string(kind))
	return req, nil
}

// requestURI builds the external hand-off URI. The correlation id stays
// local; only the kind and payload travel.
func requestURI(kind domain.RequestKind, payload string) string {
	u := url.URL{
		Scheme:   "nostrsigner",
		Opaque:   url.PathEscape(payload),
		RawQuery: url.Values{"type": {string(kind)}}.Encode(),
	}
	return u.String()
}

// HandleCallback is the resume entry point. It validates the response
// parameter, claims the single outstanding request (which deletes it,
// blocking replay), dispatches to the matching handler, and returns the
// redirect target.
func (s *Service) HandleCallback(ctx context.Context, params url.Values) (string, error) {
	response := params.Get(ResponseParam)
	if response == "" {
		return "", domain.ErrMissingResponse
	}

	req, ok, err := s.pending.Claim()
	if err != nil {
		// Unreadable pending state reads as "nothing outstanding".
		s.log.Warn("pending request unreadable", "err", err)
		return "", domain.ErrNoPendingRequest
	}
	if !ok {
		return "", domain.ErrNoPendingRequest
	}

	redirect := req.ReturnPath
	if redirect == "" {
		redirect = DefaultReturnPath
	}

	switch req.Kind {
	case domain.RequestPublicKey:
		if err := s.completeLogin(response); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrCallbackProcessing, err)
		}
	case domain.RequestSignEvent, domain.RequestEncrypt, domain.RequestDecrypt:
		s.deliver(req.ID, callbackResult{value: response})
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownRequestType, req.Kind)
	}
	return redirect, nil
}

// completeLogin turns the external application's public-key response into a
// durable credential.
func (s *Service) completeLogin(response string) error {
	pub := response
	if hexPub, err := crypto.DecodeNpub(response); err == nil {
		pub = hexPub
	}
	if !crypto.ValidPublicKey(pub) {
		return fmt.Errorf("response is not a public key")
	}
	rec := domain.LoginRecord{
		ID:        uuid.NewString(),
		Method:    domain.LoginExternalApp,
		PubKey:    pub,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.logins.Add(rec); err != nil {
		return err
	}
	s.log.Info("logged in", "record", rec)
	return nil
}

func (s *Service) deliver(id string, res callbackResult) {
	s.mu.Lock()
	ch, ok := s.waiters[id]
	s.mu.Unlock()
	if ok {
		ch <- res
	}
}

var _ signer.RoundTripper = (*Service)(nil)
