// Package config loads client settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// DefaultBaseURL is the development backend address.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Config holds the client settings.
type Config struct {
	// BaseURL is the backend origin every call targets.
	BaseURL string
	// SessionDB is the SQLite file holding the stored session.
	SessionDB string
	// HTTPTimeout bounds each backend call. Zero leaves it to the transport.
	HTTPTimeout time.Duration
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads TRIPTANGLE_BASE_URL, TRIPTANGLE_SESSION_DB, TRIPTANGLE_HTTP_TIMEOUT and
// LOG_LEVEL, falling back to defaults for unset values.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:   getEnv("TRIPTANGLE_BASE_URL", DefaultBaseURL),
		SessionDB: getEnv("TRIPTANGLE_SESSION_DB", defaultSessionDB()),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("TRIPTANGLE_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TRIPTANGLE_HTTP_TIMEOUT %q: %w", raw, err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if c.SessionDB == "" {
		return fmt.Errorf("session database path is empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}

func defaultSessionDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".triptangle", "session.db")
	}
	return filepath.Join(home, ".triptangle", "session.db")
}
