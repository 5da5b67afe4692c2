package compressor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"vcompress/internal/testsupport"
)

func TestFromPathSniffsMediaType(t *testing.T) {
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "clip"), testsupport.MP4Bytes(128))

	file := FromPath(path)
	if file.Name() != "clip" {
		t.Fatalf("Name = %q, want clip", file.Name())
	}
	if file.MediaType() != "video/mp4" {
		t.Fatalf("MediaType = %q, want video/mp4", file.MediaType())
	}
	if ext := inputExtension(file); ext != "mp4" {
		t.Fatalf("inputExtension = %q, want mp4", ext)
	}

	data, err := ReadAll(context.Background(), file)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) != 128 {
		t.Fatalf("ReadAll returned %d bytes, want 128", len(data))
	}
}

func TestFromPathMissingFileFailsOnRead(t *testing.T) {
	file := FromPath(filepath.Join(t.TempDir(), "missing.mp4"))
	if file.MediaType() != "" {
		t.Fatalf("expected empty media type, got %q", file.MediaType())
	}
	if _, err := ReadAll(context.Background(), file); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadAll = %v, want not exist", err)
	}
}

func TestFromBytesKeepsDeclaredType(t *testing.T) {
	file := FromBytes("a.bin", "video/x-matroska", testsupport.MP4Bytes(32))
	if file.MediaType() != "video/x-matroska" {
		t.Fatalf("declared media type overwritten: %q", file.MediaType())
	}
	if sniffed := FromBytes("a.bin", "", testsupport.MP4Bytes(32)); sniffed.MediaType() != "video/mp4" {
		t.Fatalf("sniffed media type = %q, want video/mp4", sniffed.MediaType())
	}
}

func TestReadAllHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ReadAll(ctx, FromBytes("a.mp4", "video/mp4", []byte("x"))); !errors.Is(err, context.Canceled) {
		t.Fatalf("ReadAll = %v, want context.Canceled", err)
	}
}

func TestBlobWriteFile(t *testing.T) {
	blob := Blob{Data: []byte("encoded"), MIMEType: "video/mp4"}
	path := filepath.Join(t.TempDir(), "nested", "out.mp4")
	if err := blob.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "encoded" {
		t.Fatalf("file content = %q", got)
	}
	streamed, _ := io.ReadAll(blob.Reader())
	if string(streamed) != "encoded" {
		t.Fatalf("Reader content = %q", streamed)
	}
}
