package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime wiring options. Flags override the optional
// config.yaml in the home directory.
type Config struct {
	Home       string `yaml:"-"` // config directory, e.g. $HOME/.signet
	SessionDir string `yaml:"-"` // session-scoped tier, cleared on full close
	Passphrase string `yaml:"-"` // seals durable values at rest when set

	Relay          string `yaml:"relay"`           // default relay URL for handshakes
	TimeoutSeconds int    `yaml:"timeout_seconds"` // remote operation timeout
	BatchLimit     int    `yaml:"batch_limit"`     // crypto dispatcher bound
	LogoutOnClose  bool   `yaml:"logout_on_close"` // purge credentials after a full close
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{TimeoutSeconds: 30, BatchLimit: 8}
}

// LoadConfig merges config.yaml from home, if present, over the defaults.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Home = home

	b, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Timeout returns the remote operation timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
