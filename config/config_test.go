package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Parkreiner/tambola"
)

// unsetEnv clears key for the duration of the test, restoring the previous
// value afterwards. godotenv writes straight into the process environment, so
// every key it might touch has to be registered with t.Setenv first.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func allKeys() []string {
	return []string{EnvTickets, EnvSeed, EnvAnimationInterval, EnvAnimationWindow, EnvLogLevel, EnvLogFormat}
}

func writeFile(t *testing.T, name string, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, allKeys()...)

	cfg, err := load("", filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg != Default() {
		t.Fatalf("load() = %+v, want %+v", cfg, Default())
	}
}

func TestLoadYAMLFile(t *testing.T) {
	unsetEnv(t, allKeys()...)
	path := writeFile(t, "tambola.yaml", `
tickets: 4
seed: 1234
animation:
  interval: 50ms
  window: 500ms
log:
  level: debug
  format: json
`)

	cfg, err := load(path, filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	want := Config{
		Tickets:   4,
		Seed:      1234,
		Animation: Animation{Interval: 50 * time.Millisecond, Window: 500 * time.Millisecond},
		Log:       Log{Level: "debug", Format: "json"},
	}
	if cfg != want {
		t.Fatalf("load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	unsetEnv(t, allKeys()...)
	path := writeFile(t, "tambola.yaml", "tickets: 2\nwinners: 3\n")

	if _, err := load(path, filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatal("load() accepted an unknown field")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	unsetEnv(t, allKeys()...)
	path := writeFile(t, "tambola.yaml", "tickets: 2\nseed: 5\n")
	t.Setenv(EnvTickets, "6")
	t.Setenv(EnvAnimationWindow, "2s")

	cfg, err := load(path, filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Tickets != 6 {
		t.Fatalf("Tickets = %d, want 6", cfg.Tickets)
	}
	if cfg.Seed != 5 {
		t.Fatalf("Seed = %d, want 5", cfg.Seed)
	}
	if cfg.Animation.Window != 2*time.Second {
		t.Fatalf("Animation.Window = %s, want 2s", cfg.Animation.Window)
	}
}

func TestDotEnvFile(t *testing.T) {
	unsetEnv(t, allKeys()...)
	dotEnv := writeFile(t, ".env", "TAMBOLA_SEED=77\nTAMBOLA_LOG_LEVEL=warn\n")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := load("", dotEnv)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Seed != 77 {
		t.Fatalf("Seed = %d, want 77 from .env", cfg.Seed)
	}
	if cfg.Log.Level != "error" {
		t.Fatalf("Log.Level = %q, want the real environment to win", cfg.Log.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	unsetEnv(t, allKeys()...)
	t.Setenv(EnvTickets, "7")

	_, err := load("", filepath.Join(t.TempDir(), ".env"))
	if !errors.Is(err, tambola.ErrInvalidTicketCount) {
		t.Fatalf("load() error = %v, want ErrInvalidTicketCount", err)
	}

	t.Setenv(EnvTickets, "three")
	if _, err := load("", filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatal("load() accepted a non-numeric ticket count")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tickets", func(c *Config) { c.Tickets = 0 }},
		{"zero interval", func(c *Config) { c.Animation.Interval = 0 }},
		{"window shorter than interval", func(c *Config) { c.Animation.Window = c.Animation.Interval / 2 }},
		{"unknown level", func(c *Config) { c.Log.Level = "chatty" }},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate() = nil for %+v", cfg)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestResolveSeed(t *testing.T) {
	cfg := Default()
	cfg.Seed = 9
	if got := cfg.ResolveSeed(); got != 9 {
		t.Fatalf("ResolveSeed() = %d, want 9", got)
	}
	cfg.Seed = 0
	if got := cfg.ResolveSeed(); got == 0 {
		t.Fatal("ResolveSeed() = 0 for clock-derived seed")
	}
}
