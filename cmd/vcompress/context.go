package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vcompress/internal/compressor"
	"vcompress/internal/config"
	"vcompress/internal/deps"
	"vcompress/internal/history"
	"vcompress/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		effective := *cfg
		if c.verbose != nil && *c.verbose {
			effective.Logging.Level = "debug"
		}
		c.logger, c.loggerErr = logging.NewFromConfig(&effective)
	})
	return c.logger, c.loggerErr
}

// newCompressor builds a compressor wired to the engine settings in the
// config. Engine output lines go to the debug log when enabled.
func (c *commandContext) newCompressor(logger *slog.Logger, extra ...compressor.Option) *compressor.Compressor {
	cfg := c.configValue()
	engineLogger := logging.NewComponentLogger(logger, "ffmpeg")
	opts := []compressor.Option{
		compressor.WithAssetPath(cfg.Engine.FFmpegPath),
		compressor.WithWorkDir(cfg.Engine.WorkDir),
		compressor.WithEngineLogging(cfg.Engine.LogOutput),
		compressor.WithLogger(logger),
		compressor.WithLogHandler(func(line string) {
			engineLogger.Debug(line)
		}),
	}
	return compressor.New(append(opts, extra...)...)
}

// openHistory returns nil when history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg := c.configValue()
	if cfg == nil || !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History.Path)
}

func (c *commandContext) ffprobeCommand() string {
	cfg := c.configValue()
	return deps.ResolveFFprobe(cfg.Engine.FFprobePath, deps.ResolveFFmpeg(cfg.Engine.FFmpegPath))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
