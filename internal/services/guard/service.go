package guard

import (
	"log/slog"
	"strconv"
	"sync"

	"signet/internal/domain"
	"signet/internal/store"
)

// Service runs the purge decision once, synchronously, before anything else
// touches the durable credential keys.
type Service struct {
	durable domain.KV
	session domain.KV
	log     *slog.Logger
	once    sync.Once
}

func New(durable, session domain.KV, log *slog.Logger) *Service {
	return &Service{durable: durable, session: session, log: log}
}

// Run executes the guard. Re-running within the same process (or the same
// session, via the marker) never re-purges. It does not return an error:
// every storage failure is caught here.
func (s *Service) Run() {
	s.once.Do(s.run)
}

func (s *Service) run() {
	// Whatever happens below, the marker must end up set so the rest of
	// this session reads as "same session".
	defer s.setMarker()

	if !s.logoutOnClose() {
		return
	}

	_, present, err := s.session.Get(store.KeySessionMarker)
	if err != nil {
		s.log.Warn("session marker unreadable, skipping purge", "err", err)
		return
	}
	if present {
		// Same session continuing (e.g. a reload).
		return
	}

	// New session after a full close: purge credentials and related
	// credential classes.
	for _, key := range []string{store.KeyLoginRecords, store.KeyWalletConnections} {
		if err := s.durable.Delete(key); err != nil {
			s.log.Warn("credential purge failed", "key", key, "err", err)
		}
	}
	s.log.Info("purged credentials after full close")
}

// logoutOnClose reads the durable policy flag; absent or unparsable means
// false.
func (s *Service) logoutOnClose() bool {
	raw, ok, err := s.durable.Get(store.KeyLogoutOnClose)
	if err != nil {
		s.log.Warn("logout-on-close flag unreadable, assuming off", "err", err)
		return false
	}
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

func (s *Service) setMarker() {
	if err := s.session.Set(store.KeySessionMarker, "1"); err != nil {
		s.log.Warn("setting session marker failed", "err", err)
	}
}

// SetLogoutOnClose persists the purge policy.
func SetLogoutOnClose(durable domain.KV, on bool) error {
	return durable.Set(store.KeyLogoutOnClose, strconv.FormatBool(on))
}
