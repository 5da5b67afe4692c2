package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecentNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		_, err := store.Record(ctx, Entry{
			InputPath:   name,
			OutputPath:  name + ".out",
			Mode:        "copy",
			InputBytes:  1000,
			OutputBytes: int64(100 * (i + 1)),
			Duration:    1500 * time.Millisecond,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record %s: %v", name, err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].InputPath != "c.mp4" || entries[1].InputPath != "b.mp4" {
		t.Fatalf("unexpected order: %s, %s", entries[0].InputPath, entries[1].InputPath)
	}
	first := entries[0]
	if first.ID == "" {
		t.Fatal("expected generated ID")
	}
	if first.Status != StatusSucceeded {
		t.Fatalf("status = %q, want succeeded", first.Status)
	}
	if first.Duration != 1500*time.Millisecond {
		t.Fatalf("duration = %v", first.Duration)
	}
	if first.SavedBytes() != 700 {
		t.Fatalf("saved bytes = %d, want 700", first.SavedBytes())
	}
	if !first.CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("created_at = %v", first.CreatedAt)
	}
}

func TestRecordFailureAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	recorded, err := store.Record(ctx, Entry{
		ID:        "run-1",
		BatchID:   "batch-7",
		InputPath: "broken.mp4",
		Mode:      "re-encode",
		Status:    StatusFailed,
		Error:     "ffmpeg failed: exit status 1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if recorded.CreatedAt.IsZero() {
		t.Fatal("expected timestamp to be filled in")
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusFailed || got.Error == "" || got.BatchID != "batch-7" || got.OutputPath != "" {
		t.Fatalf("unexpected entry %+v", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestRecordRequiresInputPath(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Record(context.Background(), Entry{Mode: "copy"}); err == nil {
		t.Fatal("expected error for missing input path")
	}
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, created := range []time.Time{now.Add(-48 * time.Hour), now.Add(-time.Hour)} {
		if _, err := store.Record(ctx, Entry{InputPath: "x.mp4", Mode: "copy", CreatedAt: created}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	removed, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	entries, _ := store.Recent(ctx, 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", len(entries))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := first.Record(context.Background(), Entry{InputPath: "a.mp4", Mode: "copy"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	entries, err := second.Recent(context.Background(), 10)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected persisted entry after reopen, got %d (%v)", len(entries), err)
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	if !isSQLiteBusy(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Fatal("expected busy message to be detected")
	}
	if isSQLiteBusy(errors.New("no such table")) || isSQLiteBusy(nil) {
		t.Fatal("unexpected busy detection")
	}
}
