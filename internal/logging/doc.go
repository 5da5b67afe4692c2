// Package logging assembles structured slog loggers and formatting helpers used
// across vcompress.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so job code can tag log lines
// with job IDs and modes. A no-op logger is provided for tests and library
// defaults.
package logging
