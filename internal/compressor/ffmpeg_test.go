package compressor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"vcompress/internal/testsupport"
)

const copyFFmpeg = `#!/bin/sh
in=""
prev=""
for arg; do
	if [ "$prev" = "-i" ]; then in="$arg"; fi
	prev="$arg"
	last="$arg"
done
cat "$in" > "$last"
`

func newFFmpegCompressor(t *testing.T) (*Compressor, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub ffmpeg is a shell script")
	}
	base := t.TempDir()
	binary := testsupport.WriteExecutable(t, filepath.Join(base, "bin"), "ffmpeg", copyFFmpeg)
	workDir := filepath.Join(base, "work")
	c := New(WithAssetPath(binary), WithWorkDir(workDir))
	t.Cleanup(func() { _ = c.Close() })
	return c, workDir
}

// scratchEntries lists files in the engine scratch dirs under workDir,
// excluding lock files.
func scratchEntries(t *testing.T, workDir string) []string {
	t.Helper()
	dirs, err := filepath.Glob(filepath.Join(workDir, "vcompress-*"))
	if err != nil {
		t.Fatalf("glob scratch dirs: %v", err)
	}
	var names []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read scratch dir: %v", err)
		}
		for _, entry := range entries {
			if entry.Name() != ".lock" {
				names = append(names, entry.Name())
			}
		}
	}
	return names
}

func TestFFmpegCompressLeavesScratchEmpty(t *testing.T) {
	c, workDir := newFFmpegCompressor(t)
	payload := testsupport.MP4Bytes(128)

	blob, err := c.Compress(context.Background(), FromBytes("clip.mp4", "video/mp4", payload), Options{Mode: ModeCopy})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if blob.Size() != int64(len(payload)) {
		t.Fatalf("blob size = %d, want %d", blob.Size(), len(payload))
	}
	if left := scratchEntries(t, workDir); len(left) != 0 {
		t.Fatalf("expected empty scratch dir, found %v", left)
	}
}

func TestFFmpegCompressRejectsEscapingOutputName(t *testing.T) {
	c, workDir := newFFmpegCompressor(t)

	opts := Options{Mode: ModeCopy, Output: OutputOptions{FileName: "../escaped.mp4"}}
	_, err := c.Compress(context.Background(), FromBytes("clip.mp4", "video/mp4", testsupport.MP4Bytes(64)), opts)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Compress = %v, want ErrInvalidInput", err)
	}
	if _, err := os.Stat(filepath.Join(workDir, "escaped.mp4")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no file outside the scratch dir, stat err = %v", err)
	}
	if c.Loaded() {
		t.Fatal("engine must not load for a rejected output name")
	}
}
