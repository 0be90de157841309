package store

import (
	"encoding/json"
	"fmt"
	"time"

	"signet/internal/domain"
)

// PendingStore persists the single outstanding external signer request in
// the durable tier, so the continuation survives the host being suspended
// or restarted during the round trip.
type PendingStore struct {
	kv domain.KV
	// TTL after which a stored request no longer matches callbacks.
	Expiry time.Duration
}

// DefaultPendingExpiry bounds how long an abandoned round trip can be
// resumed.
const DefaultPendingExpiry = 15 * time.Minute

func NewPendingStore(kv domain.KV) *PendingStore {
	return &PendingStore{kv: kv, Expiry: DefaultPendingExpiry}
}

// Put records req before control transfers to the external application.
func (s *PendingStore) Put(req domain.PendingSignerRequest) error {
	b, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode pending request: %v: %w", err, domain.ErrStorageAccess)
	}
	return s.kv.Set(KeyPendingRequest, string(b))
}

// Claim removes and returns the outstanding request. The entry is deleted
// before the payload is inspected, so a request is consumed exactly once
// regardless of outcome; expired requests count as absent.
func (s *PendingStore) Claim() (domain.PendingSignerRequest, bool, error) {
	raw, ok, err := s.kv.Get(KeyPendingRequest)
	if err != nil {
		return domain.PendingSignerRequest{}, false, err
	}
	if !ok {
		return domain.PendingSignerRequest{}, false, nil
	}
	if err := s.kv.Delete(KeyPendingRequest); err != nil {
		return domain.PendingSignerRequest{}, false, err
	}
	var req domain.PendingSignerRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return domain.PendingSignerRequest{}, false, fmt.Errorf("decode pending request: %v: %w", err, domain.ErrStorageAccess)
	}
	if s.Expiry > 0 && time.Since(req.CreatedAt) > s.Expiry {
		return domain.PendingSignerRequest{}, false, nil
	}
	return req, true, nil
}

var _ domain.PendingStore = (*PendingStore)(nil)
