package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig holds budgetbox CLI settings.
type ClientConfig struct {
	ServerURL      string   `toml:"server_url"`
	Email          string   `toml:"email"`
	StatePath      string   `toml:"state_path,omitempty"`
	PollInterval   Duration `toml:"poll_interval"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Duration is a time.Duration written as "10s" in TOML.
type Duration struct{ time.Duration }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultClientConfig returns the default configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerURL:      "http://localhost:3001",
		Email:          "demo@budgetbox.local",
		StatePath:      filepath.Join(ClientDir(), "budget-storage.json"),
		PollInterval:   Duration{10 * time.Second},
		RequestTimeout: Duration{5 * time.Second},
	}
}

// ClientDir returns the XDG-compliant config directory.
func ClientDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetbox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetbox")
}

// ClientPath returns the full path to the config file.
func ClientPath() string {
	return filepath.Join(ClientDir(), "config.toml")
}

// LoadClient reads the config file at path (ClientPath when empty),
// returning defaults if it doesn't exist. BUDGETBOX_SERVER and
// BUDGETBOX_EMAIL override the file.
func LoadClient(path string) (ClientConfig, error) {
	if path == "" {
		path = ClientPath()
	}
	cfg := DefaultClientConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if v := os.Getenv("BUDGETBOX_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("BUDGETBOX_EMAIL"); v != "" {
		cfg.Email = v
	}
	if cfg.StatePath == "" {
		cfg.StatePath = DefaultClientConfig().StatePath
	}
	if cfg.PollInterval.Duration < time.Second {
		cfg.PollInterval.Duration = 10 * time.Second
	}
	if cfg.RequestTimeout.Duration <= 0 {
		cfg.RequestTimeout.Duration = 5 * time.Second
	}
	return cfg, nil
}

// SaveClient writes cfg to path (ClientPath when empty).
func SaveClient(path string, cfg ClientConfig) error {
	if path == "" {
		path = ClientPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
