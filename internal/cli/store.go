package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/studyloop/lessonstore/internal/config"
	"github.com/studyloop/lessonstore/internal/storage"
	"github.com/studyloop/lessonstore/internal/storage/fallback"
	"github.com/studyloop/lessonstore/internal/storage/kvfile"
	"github.com/studyloop/lessonstore/internal/storage/sqlite"
)

// openStore loads configuration and wires up the Store with its two
// providers. The backend itself is not touched until the first operation.
func openStore(opts *RootOptions) (*storage.Store, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading configuration failed", err)
	}

	logger := newLogger(cfg, opts)

	for _, path := range []string{cfg.DatabasePath, cfg.FallbackPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, WrapExitError(ExitCommandError, "creating data directory failed", err)
			}
		}
	}

	kv, err := kvfile.Open(cfg.FallbackPath, cfg.FallbackQuotaBytes)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening fallback store failed", err)
	}

	var provider storage.Provider
	if cfg.Backend != config.BackendFallback {
		provider = &sqlite.Provider{Path: cfg.DatabasePath}
	}

	return storage.New(storage.Options{
		Transactional: provider,
		Fallback:      fallback.New(kv),
		Logger:        logger,
	}), nil
}

// newLogger builds the slog logger for one command invocation. Verbose
// wins over the configured level.
func newLogger(cfg config.Config, opts *RootOptions) *slog.Logger {
	level := parseLevel(cfg.LogLevel)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
