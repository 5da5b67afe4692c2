package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status is the outcome of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is one recorded compression run.
type Entry struct {
	ID          string
	BatchID     string
	InputPath   string
	OutputPath  string
	Mode        string
	Status      Status
	Error       string
	InputBytes  int64
	OutputBytes int64
	Duration    time.Duration
	CreatedAt   time.Time
}

// SavedBytes returns the size reduction; negative when the output grew.
func (e Entry) SavedBytes() int64 {
	return e.InputBytes - e.OutputBytes
}

// ErrNotFound is returned when a run ID has no record.
var ErrNotFound = errors.New("history entry not found")

const (
	defaultRecentLimit = 20
	// Fixed-width UTC timestamps keep lexical order equal to time order.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts entry. A missing ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.InputPath) == "" {
		return Entry{}, errors.New("history entry requires an input path")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	if entry.Status == "" {
		entry.Status = StatusSucceeded
	}

	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (
            id, batch_id, input_path, output_path, mode, status, error_message,
            input_bytes, output_bytes, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullableString(entry.BatchID),
		entry.InputPath,
		nullableString(entry.OutputPath),
		entry.Mode,
		string(entry.Status),
		nullableString(entry.Error),
		entry.InputBytes,
		entry.OutputBytes,
		entry.Duration.Milliseconds(),
		entry.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert run: %w", err)
	}
	return entry, nil
}

// Get fetches one run by ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry, err
}

// Recent returns up to limit runs, newest first. A limit <= 0 uses a default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}

// Prune deletes runs recorded before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM runs WHERE created_at < ?", cutoff.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

const selectRuns = `SELECT id, batch_id, input_path, output_path, mode, status, error_message,
        input_bytes, output_bytes, duration_ms, created_at FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry      Entry
		batchID    sql.NullString
		outputPath sql.NullString
		errMsg     sql.NullString
		status     string
		durationMS int64
		createdAt  string
	)
	if err := row.Scan(
		&entry.ID,
		&batchID,
		&entry.InputPath,
		&outputPath,
		&entry.Mode,
		&status,
		&errMsg,
		&entry.InputBytes,
		&entry.OutputBytes,
		&durationMS,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan run: %w", err)
	}
	entry.BatchID = batchID.String
	entry.OutputPath = outputPath.String
	entry.Error = errMsg.String
	entry.Status = Status(status)
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	if ts, err := time.Parse(timestampLayout, createdAt); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
