package compressor

import (
	"io"
	"strings"

	"vcompress/internal/engine"
)

func eventProgress(fraction float64) engine.Event {
	return engine.Event{Kind: engine.EventProgress, Progress: fraction}
}

func eventLog(line string) engine.Event {
	return engine.Event{Kind: engine.EventLog, Message: line}
}

// pointerFile implements File on a pointer receiver so tests can pass a
// typed nil.
type pointerFile struct{ name string }

func (f *pointerFile) Name() string      { return f.name }
func (f *pointerFile) MediaType() string { return "video/mp4" }
func (f *pointerFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}
