package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"signet/internal/crypto"
	"signet/internal/domain"
	"signet/internal/signer"
)

// Service manages credential establishment and teardown against the login
// store.
type Service struct {
	logins  domain.LoginStore
	dial    domain.DialFunc
	bridge  signer.RoundTripper
	timeout time.Duration
	log     *slog.Logger
}

func New(logins domain.LoginStore, dial domain.DialFunc, bridge signer.RoundTripper, timeout time.Duration, log *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = signer.DefaultTimeout
	}
	return &Service{logins: logins, dial: dial, bridge: bridge, timeout: timeout, log: log}
}

// LoginWithSecretKey establishes a local-key credential. The secret is
// normalised to nsec form before persisting.
func (s *Service) LoginWithSecretKey(ctx context.Context, secret string) (domain.LoginRecord, error) {
	local, err := signer.NewLocal(secret)
	if err != nil {
		return domain.LoginRecord{}, err
	}
	nsec, err := local.Keys().Nsec()
	if err != nil {
		return domain.LoginRecord{}, fmt.Errorf("%w: %v", domain.ErrInvalidSecret, err)
	}
	rec := domain.LoginRecord{
		ID:        uuid.NewString(),
		Method:    domain.LoginLocalKey,
		PubKey:    local.Keys().PublicKeyHex(),
		Secret:    nsec,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.logins.Add(rec); err != nil {
		return domain.LoginRecord{}, err
	}
	s.log.Info("logged in", "record", rec)
	return rec, nil
}

// LoginWithExtension establishes a credential backed by the host-provided
// signer capability.
func (s *Service) LoginWithExtension(ctx context.Context) (domain.LoginRecord, error) {
	ext, err := signer.NewExtension()
	if err != nil {
		return domain.LoginRecord{}, err
	}
	pub, err := ext.PublicKey(ctx)
	if err != nil {
		return domain.LoginRecord{}, err
	}
	rec := domain.LoginRecord{
		ID:        uuid.NewString(),
		Method:    domain.LoginExtension,
		PubKey:    pub,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.logins.Add(rec); err != nil {
		return domain.LoginRecord{}, err
	}
	s.log.Info("logged in", "record", rec)
	return rec, nil
}

// LoginWithBunker establishes a remote-delegated credential from a stored
// bunker descriptor, asking the remote signer for the user identity.
func (s *Service) LoginWithBunker(ctx context.Context, descriptor string) (domain.LoginRecord, error) {
	rem, b, err := s.remoteFromBunker(ctx, descriptor)
	if err != nil {
		return domain.LoginRecord{}, err
	}
	pub, err := rem.PublicKey(ctx)
	if err != nil {
		rem.Close()
		return domain.LoginRecord{}, err
	}
	rem.Close()

	rec := domain.LoginRecord{
		ID:        uuid.NewString(),
		Method:    domain.LoginRemote,
		PubKey:    pub,
		Secret:    descriptor,
		Relay:     b.RelayURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.logins.Add(rec); err != nil {
		return domain.LoginRecord{}, err
	}
	s.log.Info("logged in", "record", rec)
	return rec, nil
}

// Logout removes the active credential from the login store; nothing else.
func (s *Service) Logout(ctx context.Context) error {
	return s.logins.RemoveActive()
}

// SignerFor reconstructs the signer backend for a persisted record.
func (s *Service) SignerFor(ctx context.Context, rec domain.LoginRecord) (domain.Signer, error) {
	switch rec.Method {
	case domain.LoginLocalKey:
		return signer.NewLocal(rec.Secret)
	case domain.LoginExtension:
		return signer.NewExtension()
	case domain.LoginRemote:
		rem, _, err := s.remoteFromBunker(ctx, rec.Secret)
		if err != nil {
			return nil, err
		}
		rem.SetUserPublicKey(rec.PubKey)
		return rem, nil
	case domain.LoginExternalApp:
		return signer.NewExternal(rec.PubKey, s.bridge), nil
	default:
		return nil, fmt.Errorf("unknown login method %q", rec.Method)
	}
}

func (s *Service) remoteFromBunker(ctx context.Context, descriptor string) (*signer.Remote, domain.Bunker, error) {
	b, err := domain.ParseBunker(descriptor)
	if err != nil {
		return nil, domain.Bunker{}, fmt.Errorf("%w: %v", domain.ErrHandshake, err)
	}
	keys, err := crypto.ParseSecretKey(b.Secret)
	if err != nil {
		return nil, domain.Bunker{}, fmt.Errorf("%w: delegate secret: %v", domain.ErrHandshake, err)
	}
	rc, err := s.dial(ctx, b.RelayURL)
	if err != nil {
		return nil, domain.Bunker{}, fmt.Errorf("%w: %v", domain.ErrHandshake, err)
	}
	rem, err := signer.NewRemote(b.RemotePubKey, rc, keys, crypto.StrongestScheme(), s.timeout)
	if err != nil {
		rc.Close()
		return nil, domain.Bunker{}, fmt.Errorf("%w: %v", domain.ErrHandshake, err)
	}
	return rem, b, nil
}
