package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"signet/internal/domain"
	"signet/internal/logger"
	"signet/internal/relay"
	authsvc "signet/internal/services/auth"
	bridgesvc "signet/internal/services/bridge"
	connectsvc "signet/internal/services/connect"
	guardsvc "signet/internal/services/guard"
	"signet/internal/store"
)

// Wire bundles the storage tiers and services for the CLI.
type Wire struct {
	Durable domain.KV
	Session domain.KV
	Logins  domain.LoginStore
	Auth    *authsvc.Service
	Connect *connectsvc.Service
	Bridge  *bridgesvc.Service
	Log     *slog.Logger

	Config Config
}

// NewWire constructs the dependency graph from cfg. The session guard runs
// here, before the login store is opened: no credential is read until the
// purge decision is made.
func NewWire(cfg Config) (*Wire, error) {
	log := logger.Setup(os.Stderr)

	var durable domain.KV = store.NewFileKV(filepath.Join(cfg.Home, "state.json"))
	if cfg.Passphrase != "" {
		durable = store.NewSealedKV(durable, cfg.Passphrase)
	}
	session := store.NewFileKV(filepath.Join(cfg.SessionDir, "session.json"))

	guardsvc.New(durable, session, log).Run()
	if err := guardsvc.SetLogoutOnClose(durable, cfg.LogoutOnClose); err != nil {
		log.Warn("persisting logout-on-close policy failed", "err", err)
	}

	logins := store.OpenLoginStore(durable, log)
	pending := store.NewPendingStore(durable)

	// External hand-offs print the URI; the user opens it in the signing app.
	launcher := bridgesvc.LauncherFunc(func(uri string) error {
		_, err := fmt.Fprintf(os.Stdout, "Open in your signer app: %s\n", uri)
		return err
	})
	bridge := bridgesvc.New(pending, logins, launcher, log)

	auth := authsvc.New(logins, relay.Dial, bridge, cfg.Timeout(), log)
	connect := connectsvc.New(logins, relay.Dial, 0, cfg.Timeout(), log)

	return &Wire{
		Durable: durable,
		Session: session,
		Logins:  logins,
		Auth:    auth,
		Connect: connect,
		Bridge:  bridge,
		Log:     log,
		Config:  cfg,
	}, nil
}
