// Package config loads lessonstore settings from defaults, an optional
// YAML file, and LESSONSTORE_* environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Backend selection values.
const (
	BackendAuto     = "auto"     // try sqlite, degrade to fallback
	BackendSQLite   = "sqlite"   // same as auto (kept for explicitness)
	BackendFallback = "fallback" // skip sqlite entirely
)

// DefaultFallbackQuotaBytes caps the fallback store at 5 MiB, matching the
// capacity class of the small client stores it stands in for.
const DefaultFallbackQuotaBytes = 5 * 1024 * 1024

// Config holds every runtime setting.
type Config struct {
	// DatabasePath is the SQLite database file.
	DatabasePath string `yaml:"database_path" env:"LESSONSTORE_DATABASE_PATH"`

	// FallbackPath is the quota-limited key-value file.
	FallbackPath string `yaml:"fallback_path" env:"LESSONSTORE_FALLBACK_PATH"`

	// FallbackQuotaBytes caps the serialized fallback file size.
	FallbackQuotaBytes int `yaml:"fallback_quota_bytes" env:"LESSONSTORE_FALLBACK_QUOTA_BYTES"`

	// Backend selects the storage backend: auto, sqlite, or fallback.
	Backend string `yaml:"backend" env:"LESSONSTORE_BACKEND"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LESSONSTORE_LOG_LEVEL"`
}

// Default returns the built-in settings. Data files live under the user
// config directory when one is known, otherwise the working directory.
func Default() Config {
	dir := ""
	if base, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(base, "lessonstore")
	}
	return Config{
		DatabasePath:       filepath.Join(dir, "lessons.db"),
		FallbackPath:       filepath.Join(dir, "lessons.json"),
		FallbackQuotaBytes: DefaultFallbackQuotaBytes,
		Backend:            BackendAuto,
		LogLevel:           "info",
	}
}

// Load builds the effective configuration. path may be empty, in which
// case only defaults and environment overrides apply; a named file that
// does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendAuto, BackendSQLite, BackendFallback:
	default:
		return fmt.Errorf("invalid backend %q: must be %s, %s, or %s",
			c.Backend, BackendAuto, BackendSQLite, BackendFallback)
	}
	if c.FallbackQuotaBytes < 0 {
		return fmt.Errorf("fallback_quota_bytes must not be negative")
	}
	return nil
}
