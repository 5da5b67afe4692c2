// Package history persists a record of every compression run in SQLite so the
// CLI can list recent jobs, their outcome, and how much space they saved.
package history
