// Package config loads, normalizes, and validates vcompress configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours FFMPEG_PATH and FFPROBE_PATH environment overrides.
// Always obtain settings through this package so callers receive sanitized
// paths, canonical log formats, and validation errors that name the offending
// key.
package config
