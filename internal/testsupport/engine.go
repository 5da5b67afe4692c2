package testsupport

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"

	"vcompress/internal/engine"
)

// FakeEngine is an in-memory engine for tests. Exported fields configure its
// behaviour and must be set before the engine is handed to a compressor.
type FakeEngine struct {
	// LoadErr is returned by Load.
	LoadErr error
	// LoadGate, when set, blocks Load until it is closed.
	LoadGate chan struct{}
	// WriteErr, ExecErr, ReadErr and UnlinkErr fail the matching operation.
	WriteErr  error
	ExecErr   error
	ReadErr   error
	UnlinkErr error
	// ExecGate, when set, blocks Exec until it is closed or ctx ends.
	ExecGate chan struct{}
	// Logs and Progress are emitted in order during Exec.
	Logs     []string
	Progress []float64
	// OutputData replaces the default copy of the input file.
	OutputData []byte
	// SkipOutput leaves the output file unwritten.
	SkipOutput bool

	mu        sync.Mutex
	files     map[string][]byte
	handlers  map[engine.EventKind][]engine.Handler
	loaded    bool
	closed    bool
	loadCalls int
	configs   []engine.Config
	execs     [][]string
	unlinked  []string
	started   chan struct{}
}

// NewFakeEngine returns an empty fake engine.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		files:    make(map[string][]byte),
		handlers: make(map[engine.EventKind][]engine.Handler),
		started:  make(chan struct{}, 16),
	}
}

// Factory returns an engine.Factory that always yields f.
func (f *FakeEngine) Factory() engine.Factory {
	return func(cfg engine.Config) (engine.Engine, error) {
		f.mu.Lock()
		f.configs = append(f.configs, cfg)
		f.mu.Unlock()
		return f, nil
	}
}

func (f *FakeEngine) Load(ctx context.Context) error {
	f.mu.Lock()
	f.loadCalls++
	gate := f.LoadGate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.LoadErr != nil {
		return f.LoadErr
	}
	f.mu.Lock()
	f.loaded = true
	f.closed = false
	f.mu.Unlock()
	return nil
}

func (f *FakeEngine) WriteFile(_ context.Context, name string, data []byte) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = append([]byte(nil), data...)
	return nil
}

func (f *FakeEngine) Exec(ctx context.Context, args []string) error {
	f.mu.Lock()
	f.execs = append(f.execs, append([]string(nil), args...))
	f.mu.Unlock()
	select {
	case f.started <- struct{}{}:
	default:
	}

	for _, line := range f.Logs {
		f.Emit(engine.Event{Kind: engine.EventLog, Message: line})
	}
	for _, fraction := range f.Progress {
		f.Emit(engine.Event{Kind: engine.EventProgress, Progress: fraction})
	}

	if f.ExecGate != nil {
		select {
		case <-f.ExecGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.ExecErr != nil {
		return f.ExecErr
	}
	if f.SkipOutput || len(args) == 0 {
		return nil
	}

	output := args[len(args)-1]
	f.mu.Lock()
	defer f.mu.Unlock()
	data := f.OutputData
	if data == nil {
		for i := 0; i+1 < len(args); i++ {
			if args[i] == "-i" {
				data = f.files[args[i+1]]
				break
			}
		}
	}
	f.files[output] = append([]byte(nil), data...)
	return nil
}

func (f *FakeEngine) ReadFile(_ context.Context, name string) ([]byte, error) {
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (f *FakeEngine) Stat(name string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return fakeInfo{name: name, size: int64(len(data))}, nil
}

func (f *FakeEngine) Unlink(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlinked = append(f.unlinked, name)
	if f.UnlinkErr != nil {
		return f.UnlinkErr
	}
	if _, ok := f.files[name]; !ok {
		return &fs.PathError{Op: "unlink", Path: name, Err: fs.ErrNotExist}
	}
	delete(f.files, name)
	return nil
}

func (f *FakeEngine) On(kind engine.EventKind, handler engine.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[kind] = append(f.handlers[kind], handler)
}

// Close marks the engine closed.
func (f *FakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.loaded = false
	return nil
}

// Emit delivers ev to subscribed handlers. Tests call it directly to simulate
// events arriving outside Exec.
func (f *FakeEngine) Emit(ev engine.Event) {
	f.mu.Lock()
	handlers := append([]engine.Handler(nil), f.handlers[ev.Kind]...)
	f.mu.Unlock()
	for _, handler := range handlers {
		handler(ev)
	}
}

// WaitExec blocks until Exec has been entered or the timeout passes.
func (f *FakeEngine) WaitExec(timeout time.Duration) error {
	select {
	case <-f.started:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("exec not started within %s", timeout)
	}
}

// PutFile seeds a virtual file.
func (f *FakeEngine) PutFile(name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = append([]byte(nil), data...)
}

// Files lists the virtual files currently stored.
func (f *FakeEngine) Files() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadCalls reports how many times Load ran.
func (f *FakeEngine) LoadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadCalls
}

// Configs returns the configs passed to the factory.
func (f *FakeEngine) Configs() []engine.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Config(nil), f.configs...)
}

// Execs returns every argument list Exec received.
func (f *FakeEngine) Execs() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.execs...)
}

// Unlinked returns the names passed to Unlink.
func (f *FakeEngine) Unlinked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.unlinked...)
}

// Closed reports whether Close ran since the last successful Load.
func (f *FakeEngine) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeInfo struct {
	name string
	size int64
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return i.size }
func (i fakeInfo) Mode() fs.FileMode  { return 0o644 }
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return false }
func (i fakeInfo) Sys() any           { return nil }

var _ engine.Engine = (*FakeEngine)(nil)
