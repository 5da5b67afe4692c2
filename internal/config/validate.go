package config

import (
	"errors"
	"fmt"
	"strings"
)

var validModes = []string{"copy", "copy-and-mute", "re-encode"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDefaults() error {
	d := c.Defaults
	if !contains(validModes, d.Mode) {
		return fmt.Errorf("defaults.mode must be one of %s, got %q", strings.Join(validModes, ", "), d.Mode)
	}
	if d.CRF != nil && d.VideoBitrate != "" {
		return errors.New("defaults.crf and defaults.video_bitrate are mutually exclusive")
	}
	if d.CRF != nil && (*d.CRF < 0 || *d.CRF > maxCRF) {
		return fmt.Errorf("defaults.crf must be between 0 and %d", maxCRF)
	}
	if d.ScaleWidth < 0 || d.ScaleHeight < 0 {
		return errors.New("defaults.scale_width and defaults.scale_height must not be negative")
	}
	if strings.ContainsAny(d.Container, `/\ `) {
		return fmt.Errorf("defaults.container must be a bare extension, got %q", d.Container)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Jobs <= 0 || c.Batch.Jobs > maxBatchJobs {
		return fmt.Errorf("batch.jobs must be between 1 and %d", maxBatchJobs)
	}
	if strings.ContainsAny(c.Batch.Suffix, `/\`) {
		return errors.New("batch.suffix must not contain path separators")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
