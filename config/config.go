// Package config loads the settings used by the tambola command line tools.
// The core ticket and draw packages never read configuration themselves.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/draw"
	"github.com/Parkreiner/tambola/logging"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file
const (
	EnvTickets           = "TAMBOLA_TICKETS"
	EnvSeed              = "TAMBOLA_SEED"
	EnvAnimationInterval = "TAMBOLA_ANIMATION_INTERVAL"
	EnvAnimationWindow   = "TAMBOLA_ANIMATION_WINDOW"
	EnvLogLevel          = "TAMBOLA_LOG_LEVEL"
	EnvLogFormat         = "TAMBOLA_LOG_FORMAT"
)

// DotEnvFile is the optional env file read from the working directory
const DotEnvFile = ".env"

// Config holds every setting for the CLI
type Config struct {
	// Tickets is how many tickets to generate per set
	Tickets int `yaml:"tickets"`
	// Seed feeds every random source. Zero means "pick one from the clock".
	Seed      int64     `yaml:"seed"`
	Animation Animation `yaml:"animation"`
	Log       Log       `yaml:"log"`
}

type Animation struct {
	Interval time.Duration `yaml:"interval"`
	Window   time.Duration `yaml:"window"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is provided
func Default() Config {
	return Config{
		Tickets: tambola.MinTickets,
		Seed:    0,
		Animation: Animation{
			Interval: draw.DefaultFrameInterval,
			Window:   draw.DefaultWindow,
		},
		Log: Log{
			Level:  "info",
			Format: logging.FormatAuto,
		},
	}
}

// Load builds a Config from the defaults, then the YAML file at path (if path
// is non-empty), then DotEnvFile (if present), then TAMBOLA_* environment
// variables. The result is validated before being returned.
func Load(path string) (Config, error) {
	return load(path, DotEnvFile)
}

func load(path string, dotEnvPath string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		decoder := yaml.NewDecoder(bytes.NewReader(raw))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	// godotenv never overrides variables that are already set, so the real
	// environment always wins over the file
	if err := godotenv.Load(dotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", dotEnvPath, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	if v, ok := lookup(EnvTickets); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTickets, err))
		} else {
			c.Tickets = n
		}
	}
	if v, ok := lookup(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			c.Seed = n
		}
	}
	if v, ok := lookup(EnvAnimationInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvAnimationInterval, err))
		} else {
			c.Animation.Interval = d
		}
	}
	if v, ok := lookup(EnvAnimationWindow); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvAnimationWindow, err))
		} else {
			c.Animation.Window = d
		}
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = v
	}

	return errors.Join(errs...)
}

// Validate checks that every setting is usable
func (c Config) Validate() error {
	var errs []error

	if c.Tickets < tambola.MinTickets || c.Tickets > tambola.MaxTickets {
		errs = append(errs, fmt.Errorf("tickets must be between %d and %d, got %d: %w", tambola.MinTickets, tambola.MaxTickets, c.Tickets, tambola.ErrInvalidTicketCount))
	}
	if c.Animation.Interval <= 0 {
		errs = append(errs, fmt.Errorf("animation interval must be positive, got %s", c.Animation.Interval))
	}
	if c.Animation.Window < c.Animation.Interval {
		errs = append(errs, fmt.Errorf("animation window (%s) must be at least the interval (%s)", c.Animation.Window, c.Animation.Interval))
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ResolveSeed returns Seed, or a clock-derived seed when Seed is zero
func (c Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
