package compressor

import (
	"log/slog"
	"strings"
	"time"

	"vcompress/internal/engine"
)

// Option configures a Compressor.
type Option func(*Compressor)

// WithAssetPath overrides where the engine looks for its executables.
func WithAssetPath(path string) Option {
	return func(c *Compressor) {
		c.assetPath = strings.TrimSpace(path)
	}
}

// WithWorkDir sets the parent directory for engine scratch space.
func WithWorkDir(dir string) Option {
	return func(c *Compressor) {
		c.workDir = strings.TrimSpace(dir)
	}
}

// WithEngineLogging toggles forwarding of engine output lines. Defaults to on.
func WithEngineLogging(enabled bool) Option {
	return func(c *Compressor) {
		c.engineLog = enabled
	}
}

// WithLogHandler sets the instance-wide log hook used when a job supplies none.
func WithLogHandler(fn func(string)) Option {
	return func(c *Compressor) {
		c.defaultLog = fn
	}
}

// WithProgressHandler sets the instance-wide progress hook used when a job supplies none.
func WithProgressHandler(fn func(float64)) Option {
	return func(c *Compressor) {
		c.defaultProgress = fn
	}
}

// WithEngineFactory replaces the engine constructor.
func WithEngineFactory(factory engine.Factory) Option {
	return func(c *Compressor) {
		if factory != nil {
			c.factory = factory
		}
	}
}

// WithFetcher replaces the file-to-bytes adapter.
func WithFetcher(fetch Fetcher) Option {
	return func(c *Compressor) {
		if fetch != nil {
			c.fetch = fetch
		}
	}
}

// WithLogger sets the logger for compressor and engine diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compressor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces the time source used to derive virtual file names.
func WithClock(now func() time.Time) Option {
	return func(c *Compressor) {
		if now != nil {
			c.now = now
		}
	}
}
