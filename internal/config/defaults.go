package config

const (
	defaultConfigPath  = "~/.config/vcompress/config.toml"
	projectConfigName  = "vcompress.toml"
	defaultMode        = "copy"
	defaultContainer   = "mp4"
	defaultBatchJobs   = 2
	defaultBatchSuffix = "_compressed"
	defaultHistoryPath = "~/.local/share/vcompress/history.db"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	ffmpegPathEnv      = "FFMPEG_PATH"
	ffprobePathEnv     = "FFPROBE_PATH"
	maxCRF             = 63
	maxBatchJobs       = 64
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Engine: Engine{
			LogOutput: true,
		},
		Defaults: Defaults{
			Mode:      defaultMode,
			Container: defaultContainer,
		},
		Batch: Batch{
			Jobs:   defaultBatchJobs,
			Suffix: defaultBatchSuffix,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
