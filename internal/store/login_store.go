package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"signet/internal/domain"
)

// loginState is the serialised form under KeyLoginRecords. The active
// credential is tracked by explicit record id, not list position.
type loginState struct {
	Active  string               `json:"active,omitempty"`
	Records []domain.LoginRecord `json:"records"`
}

// LoginStore is the durable owner of login records. In-memory state is only
// ever replaced wholesale; subscribers receive immutable snapshots.
type LoginStore struct {
	kv  domain.KV
	log *slog.Logger

	mu    sync.RWMutex
	state loginState
	subs  []func([]domain.LoginRecord)
}

// OpenLoginStore loads current state from the durable tier. An unreadable
// store is logged and treated as empty; startup is never blocked on it.
func OpenLoginStore(kv domain.KV, log *slog.Logger) *LoginStore {
	s := &LoginStore{kv: kv, log: log}
	if err := s.Reload(); err != nil {
		log.Warn("login store unreadable, starting empty", "err", err)
	}
	return s
}

// Reload re-reads the durable tier, replacing in-memory state wholesale.
func (s *LoginStore) Reload() error {
	raw, ok, err := s.kv.Get(KeyLoginRecords)
	if err != nil {
		return err
	}
	var st loginState
	if ok {
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return fmt.Errorf("decode login records: %v: %w", err, domain.ErrStorageAccess)
		}
	}

	s.mu.Lock()
	s.state = st
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// List returns a snapshot of all records.
func (s *LoginStore) List() []domain.LoginRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Active returns the active credential, if any.
func (s *LoginStore) Active() (domain.LoginRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.Records {
		if r.ID == s.state.Active {
			return r, true
		}
	}
	return domain.LoginRecord{}, false
}

// Add persists rec and makes it the active credential.
func (s *LoginStore) Add(rec domain.LoginRecord) error {
	s.mu.Lock()
	s.state.Records = append(s.state.Records, rec)
	s.state.Active = rec.ID
	err := s.persistLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(snap)
	return nil
}

// RemoveActive drops the active record only and promotes the next one.
func (s *LoginStore) RemoveActive() error {
	s.mu.Lock()
	kept := s.state.Records[:0]
	for _, r := range s.state.Records {
		if r.ID != s.state.Active {
			kept = append(kept, r)
		}
	}
	s.state.Records = kept
	s.state.Active = ""
	if len(kept) > 0 {
		s.state.Active = kept[0].ID
	}
	err := s.persistLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(snap)
	return nil
}

// Purge drops every record from memory and from the durable tier.
func (s *LoginStore) Purge() error {
	s.mu.Lock()
	s.state = loginState{}
	err := s.kv.Delete(KeyLoginRecords)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(snap)
	return nil
}

// Subscribe registers fn to receive a snapshot after every state change.
func (s *LoginStore) Subscribe(fn func([]domain.LoginRecord)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *LoginStore) persistLocked() error {
	b, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode login records: %v: %w", err, domain.ErrStorageAccess)
	}
	return s.kv.Set(KeyLoginRecords, string(b))
}

func (s *LoginStore) snapshotLocked() []domain.LoginRecord {
	out := make([]domain.LoginRecord, len(s.state.Records))
	copy(out, s.state.Records)
	return out
}

func (s *LoginStore) notify(snap []domain.LoginRecord) {
	s.mu.RLock()
	subs := append(([]func([]domain.LoginRecord))(nil), s.subs...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(snap)
	}
}

var _ domain.LoginStore = (*LoginStore)(nil)
