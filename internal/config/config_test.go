package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTPPort:    "3001",
		DataBackend: "memory",
		WorkerCount: 2,
		RateRPS:     100,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{name: "valid memory backend", mutate: func(*Config) {}},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.HTTPPort = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.HTTPPort = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets'",
		},
		{
			name:        "sqlite without path",
			mutate:      func(c *Config) { c.DataBackend = "sqlite"; c.SQLitePath = "" },
			wantErr:     true,
			errorString: "SQLITE_PATH is required",
		},
		{
			name:        "bad amqp scheme",
			mutate:      func(c *Config) { c.AMQPURL = "http://broker"; c.AMQPExchange = "x" },
			wantErr:     true,
			errorString: "invalid AMQP URL scheme 'http'",
		},
		{
			name:        "zero workers",
			mutate:      func(c *Config) { c.WorkerCount = 0 },
			wantErr:     true,
			errorString: "invalid worker count 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "DATA_BACKEND", "RATE_RPS", "CORS_ORIGINS", "APP_MIGRATE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.HTTPPort != "3001" || cfg.DataBackend != "postgres" || cfg.RateRPS != 100 || cfg.Migrate {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RATE_RPS", "7")
	t.Setenv("APP_MIGRATE", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	cfg := Load()
	if cfg.RateRPS != 7 || !cfg.Migrate {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestClientConfigRoundTrip(t *testing.T) {
	t.Setenv("BUDGETBOX_SERVER", "")
	t.Setenv("BUDGETBOX_EMAIL", "")
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultClientConfig()
	cfg.ServerURL = "http://budget.test"
	cfg.PollInterval = Duration{30 * time.Second}
	if err := SaveClient(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadClient(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ServerURL != "http://budget.test" || got.PollInterval.Duration != 30*time.Second {
		t.Fatalf("loaded %+v", got)
	}
}

func TestLoadClientMissingFileAndEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BUDGETBOX_EMAIL", "me@example.com")
	t.Setenv("BUDGETBOX_SERVER", "")
	cfg, err := LoadClient("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Email != "me@example.com" {
		t.Fatalf("Email = %q", cfg.Email)
	}
	if cfg.ServerURL != "http://localhost:3001" {
		t.Fatalf("ServerURL = %q", cfg.ServerURL)
	}
	if filepath.Dir(cfg.StatePath) != ClientDir() {
		t.Fatalf("StatePath = %q", cfg.StatePath)
	}
}

func TestLoadClientBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("poll_interval = \"soon\""), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClient(path); err == nil {
		t.Fatal("expected parse error")
	}
}
