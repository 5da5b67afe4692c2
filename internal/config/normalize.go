package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeEngine(); err != nil {
		return err
	}
	c.normalizeDefaults()
	if err := c.normalizeBatch(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeEngine() error {
	if strings.TrimSpace(c.Engine.FFmpegPath) == "" {
		if value, ok := os.LookupEnv(ffmpegPathEnv); ok {
			c.Engine.FFmpegPath = value
		}
	}
	if strings.TrimSpace(c.Engine.FFprobePath) == "" {
		if value, ok := os.LookupEnv(ffprobePathEnv); ok {
			c.Engine.FFprobePath = value
		}
	}
	// Bare command names stay as-is so they resolve through PATH.
	var err error
	if c.Engine.FFmpegPath, err = expandBinary(c.Engine.FFmpegPath); err != nil {
		return fmt.Errorf("engine.ffmpeg_path: %w", err)
	}
	if c.Engine.FFprobePath, err = expandBinary(c.Engine.FFprobePath); err != nil {
		return fmt.Errorf("engine.ffprobe_path: %w", err)
	}
	if c.Engine.WorkDir, err = expandPath(c.Engine.WorkDir); err != nil {
		return fmt.Errorf("engine.work_dir: %w", err)
	}
	return nil
}

func expandBinary(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || !strings.ContainsAny(value, `/\~`) {
		return value, nil
	}
	return expandPath(value)
}

func (c *Config) normalizeDefaults() {
	d := &c.Defaults
	d.Mode = strings.ToLower(strings.TrimSpace(d.Mode))
	if d.Mode == "" {
		d.Mode = defaultMode
	}
	d.VideoCodec = strings.TrimSpace(d.VideoCodec)
	d.VideoBitrate = strings.TrimSpace(d.VideoBitrate)
	d.Preset = strings.ToLower(strings.TrimSpace(d.Preset))
	d.AudioCodec = strings.TrimSpace(d.AudioCodec)
	d.AudioBitrate = strings.TrimSpace(d.AudioBitrate)
	d.Container = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d.Container), "."))
	if d.Container == "" {
		d.Container = defaultContainer
	}
	d.MIMEType = strings.TrimSpace(d.MIMEType)
}

func (c *Config) normalizeBatch() error {
	var err error
	if c.Batch.OutDir, err = expandPath(c.Batch.OutDir); err != nil {
		return fmt.Errorf("batch.out_dir: %w", err)
	}
	if c.Batch.Suffix == "" {
		c.Batch.Suffix = defaultBatchSuffix
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
