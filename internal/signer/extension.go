package signer

import (
	"context"
	"sync"

	"signet/internal/domain"
)

var (
	hostMu sync.RWMutex
	host   domain.HostSigner
)

// RegisterHost installs the host-provided signer capability, if the
// environment has one. Passing nil removes it.
func RegisterHost(h domain.HostSigner) {
	hostMu.Lock()
	host = h
	hostMu.Unlock()
}

// Extension delegates every operation to the host-provided capability.
type Extension struct {
	host domain.HostSigner
}

// NewExtension queries the host capability, failing when none is installed.
func NewExtension() (*Extension, error) {
	hostMu.RLock()
	h := host
	hostMu.RUnlock()
	if h == nil {
		return nil, domain.ErrNoHostSigner
	}
	return &Extension{host: h}, nil
}

func (e *Extension) PublicKey(ctx context.Context) (string, error) {
	return e.host.PublicKey(ctx)
}

func (e *Extension) SignEvent(ctx context.Context, ev *domain.Event) error {
	return e.host.SignEvent(ctx, ev)
}

func (e *Extension) Encrypt(ctx context.Context, plaintext, peerPubKey string) (string, error) {
	return e.host.Encrypt(ctx, plaintext, peerPubKey)
}

func (e *Extension) Decrypt(ctx context.Context, ciphertext, peerPubKey string) (string, error) {
	return e.host.Decrypt(ctx, ciphertext, peerPubKey)
}

var _ domain.Signer = (*Extension)(nil)
