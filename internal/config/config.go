// Package config loads runtime settings from the environment, an optional
// .env file, and command-line overrides applied by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultBaseURL      = "http://127.0.0.1:5000"
	DefaultPollInterval = time.Second
	DefaultLogFile      = ".moodchat-logs/moodchat.log"
)

// Config holds every tunable the client reads at startup.
type Config struct {
	BaseURL      string        `env:"MOODCHAT_BASE_URL"`
	PollInterval time.Duration `env:"MOODCHAT_POLL_INTERVAL"`
	HTTPTimeout  time.Duration `env:"MOODCHAT_HTTP_TIMEOUT"`
	Chime        bool          `env:"MOODCHAT_CHIME"`
	LogFile      string        `env:"MOODCHAT_LOG_FILE"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		PollInterval: DefaultPollInterval,
		Chime:        true,
		LogFile:      DefaultLogFile,
	}
}

// Load reads envFiles (missing files are skipped) into the process
// environment, then overlays any MOODCHAT_* variables on the defaults.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}
	return FromEnvironment(nil)
}

// FromEnvironment overlays variables on the defaults. A nil map reads the
// process environment.
func FromEnvironment(vars map[string]string) (*Config, error) {
	cfg := Default()
	opts := env.Options{}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config: base url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: base url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("config: base url %q: missing host", c.BaseURL)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll interval must be positive, got %s", c.PollInterval)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}
