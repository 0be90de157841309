package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"signet/internal/app"
)

var (
	home       string
	sessionDir string
	relayURL   string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "signet",
		Short: "Signer authentication and session lifecycle for Nostr clients",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".signet")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			if sessionDir == "" {
				sessionDir = filepath.Join(os.TempDir(), "signet-session")
			}
			if err := os.MkdirAll(sessionDir, 0o700); err != nil {
				return err
			}

			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			cfg.Home = home
			cfg.SessionDir = sessionDir
			cfg.Passphrase = os.Getenv("SIGNET_PASSPHRASE")
			if relayURL != "" {
				cfg.Relay = relayURL
			}

			wire, err = app.NewWire(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.signet)")
	root.PersistentFlags().StringVar(&sessionDir, "session-dir", "", "session-scoped storage dir (cleared on full close)")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay URL (e.g. wss://relay.example.com)")

	root.AddCommand(loginCmd(), connectCmd(), bunkerCmd(), callbackCmd(), statusCmd(), logoutCmd())
	return root.Execute()
}
