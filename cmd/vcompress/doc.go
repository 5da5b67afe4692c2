// Command vcompress compresses video files with ffmpeg.
//
// It wraps the compressor package with a cobra CLI: single-file and batch
// compression, argument previews, ffprobe summaries, dependency checks, and a
// SQLite-backed run history. Configuration is read from
// ~/.config/vcompress/config.toml unless --config points elsewhere.
package main
