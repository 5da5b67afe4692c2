package compressor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is a named, typed byte source accepted by Compress.
type File interface {
	Name() string
	MediaType() string
	Open() (io.ReadCloser, error)
}

// Fetcher retrieves the full byte content of a file.
type Fetcher func(ctx context.Context, file File) ([]byte, error)

// ReadAll is the default Fetcher.
func ReadAll(ctx context.Context, file File) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type pathFile struct {
	path      string
	mediaType string
}

// FromPath returns a File backed by a path on disk. The media type is sniffed
// from the file content; an unreadable file yields an empty type and fails
// later when opened.
func FromPath(path string) File {
	f := pathFile{path: path}
	if mt, err := mimetype.DetectFile(path); err == nil {
		f.mediaType = mt.String()
	}
	return f
}

func (f pathFile) Name() string      { return filepath.Base(f.path) }
func (f pathFile) MediaType() string { return f.mediaType }
func (f pathFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

type memoryFile struct {
	name      string
	mediaType string
	data      []byte
}

// FromBytes returns an in-memory File. An empty mediaType is sniffed from data.
func FromBytes(name, mediaType string, data []byte) File {
	if strings.TrimSpace(mediaType) == "" && len(data) > 0 {
		mediaType = mimetype.Detect(data).String()
	}
	return memoryFile{name: name, mediaType: mediaType, data: data}
}

func (f memoryFile) Name() string      { return f.name }
func (f memoryFile) MediaType() string { return f.mediaType }
func (f memoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// Blob is an encoded result tagged with its MIME type.
type Blob struct {
	Data     []byte
	MIMEType string
}

// Size returns the blob length in bytes.
func (b Blob) Size() int64 {
	return int64(len(b.Data))
}

// Reader returns a reader over the blob content.
func (b Blob) Reader() io.Reader {
	return bytes.NewReader(b.Data)
}

// WriteFile writes the blob to path, creating parent directories as needed.
func (b Blob) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// inputExtension guesses the extension for a file's virtual name: first from
// the file name, then from the declared media type, then the mp4 default.
func inputExtension(file File) string {
	if ext := strings.TrimPrefix(filepath.Ext(file.Name()), "."); ext != "" {
		return strings.ToLower(ext)
	}
	mediaType, _, _ := strings.Cut(file.MediaType(), ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType != "" {
		if mt := mimetype.Lookup(mediaType); mt != nil {
			if ext := strings.TrimPrefix(mt.Extension(), "."); ext != "" {
				return ext
			}
		}
	}
	return defaultInputExt
}
