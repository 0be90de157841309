package store

import (
	"fmt"

	"signet/internal/crypto"
	"signet/internal/domain"
)

// SealedKV wraps a tier so that values are encrypted at rest under a
// passphrase. Values written before a passphrase was configured are still
// readable; every write from here on is sealed.
type SealedKV struct {
	inner      domain.KV
	passphrase string
}

func NewSealedKV(inner domain.KV, passphrase string) *SealedKV {
	return &SealedKV{inner: inner, passphrase: passphrase}
}

func (s *SealedKV) Get(key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return "", ok, err
	}
	if !crypto.IsSealed(raw) {
		return raw, true, nil
	}
	v, err := crypto.OpenSealed(s.passphrase, raw)
	if err != nil {
		return "", false, fmt.Errorf("unseal %s: %v: %w", key, err, domain.ErrStorageAccess)
	}
	return v, true, nil
}

func (s *SealedKV) Set(key, value string) error {
	blob, err := crypto.Seal(s.passphrase, value)
	if err != nil {
		return fmt.Errorf("seal %s: %v: %w", key, err, domain.ErrStorageAccess)
	}
	return s.inner.Set(key, blob)
}

func (s *SealedKV) Delete(key string) error {
	return s.inner.Delete(key)
}

var _ domain.KV = (*SealedKV)(nil)
