package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"vcompress/internal/deps"
	"vcompress/internal/engine"
	"vcompress/internal/logging"
)

var commandContext = exec.CommandContext

// ErrInvalidName is returned for virtual file names that would escape the
// scratch directory.
var ErrInvalidName = errors.New("invalid virtual file name")

const (
	scratchPrefix = "vcompress-"
	lockName      = ".lock"
	staleGrace    = time.Minute
	stderrTail    = 20
)

// Engine runs ffmpeg against files kept in a locked scratch directory.
type Engine struct {
	cfg    engine.Config
	logger *slog.Logger

	mu       sync.Mutex
	binary   string
	dir      string
	lock     *flock.Flock
	handlers map[engine.EventKind][]engine.Handler
}

// New constructs an unloaded engine.
func New(cfg engine.Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "ffmpeg"),
		handlers: make(map[engine.EventKind][]engine.Handler),
	}, nil
}

// Factory satisfies engine.Factory.
func Factory(cfg engine.Config) (engine.Engine, error) {
	eng, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return eng, nil
}

// Load resolves the ffmpeg binary and claims a scratch directory.
func (e *Engine) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dir != "" {
		return nil
	}

	command := deps.ResolveFFmpeg(e.cfg.AssetPath)
	binary, err := exec.LookPath(command)
	if err != nil {
		return fmt.Errorf("locate ffmpeg %q: %w", command, err)
	}

	parent := strings.TrimSpace(e.cfg.WorkDir)
	if parent == "" {
		parent = os.TempDir()
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	e.sweepStale(parent)

	dir, err := os.MkdirTemp(parent, scratchPrefix+"*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		_ = os.RemoveAll(dir)
		if err == nil {
			err = errors.New("lock already held")
		}
		return fmt.Errorf("lock scratch dir: %w", err)
	}

	e.binary = binary
	e.dir = dir
	e.lock = lock
	e.logger.Debug("ffmpeg engine loaded",
		logging.String("binary", binary),
		logging.String("scratch_dir", dir),
	)
	return nil
}

// sweepStale removes scratch directories whose owner no longer holds the lock.
func (e *Engine) sweepStale(parent string) {
	matches, err := filepath.Glob(filepath.Join(parent, scratchPrefix+"*"))
	if err != nil {
		return
	}
	for _, candidate := range matches {
		info, err := os.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}
		// Directories this young may belong to an engine between MkdirTemp and TryLock.
		if time.Since(info.ModTime()) < staleGrace {
			continue
		}
		lock := flock.New(filepath.Join(candidate, lockName))
		locked, err := lock.TryLock()
		if err != nil || !locked {
			continue
		}
		_ = lock.Unlock()
		if err := os.RemoveAll(candidate); err != nil {
			logging.WarnWithContext(e.logger, "stale scratch dir cleanup failed", "scratch_sweep_failed",
				logging.String("path", candidate),
				logging.Error(err),
				logging.String(logging.FieldImpact, "disk space is not reclaimed"),
			)
			continue
		}
		e.logger.Debug("removed stale scratch dir", logging.String("path", candidate))
	}
}

// Dir returns the scratch directory, or "" before Load.
func (e *Engine) Dir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dir
}

// WriteFile stores data under name in the scratch directory.
func (e *Engine) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := e.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile returns the contents of name.
func (e *Engine) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := e.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Stat reports file info for name.
func (e *Engine) Stat(name string) (fs.FileInfo, error) {
	path, err := e.path(name)
	if err != nil {
		return nil, err
	}
	return os.Stat(path)
}

// Unlink removes name.
func (e *Engine) Unlink(name string) error {
	path, err := e.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// On subscribes handler to events of kind.
func (e *Engine) On(kind engine.EventKind, handler engine.Handler) {
	if handler == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[kind] = append(e.handlers[kind], handler)
}

// Close releases the scratch lock and removes the directory.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dir == "" {
		return nil
	}
	var errs []error
	if e.lock != nil {
		if err := e.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("unlock scratch dir: %w", err))
		}
	}
	if err := os.RemoveAll(e.dir); err != nil {
		errs = append(errs, fmt.Errorf("remove scratch dir: %w", err))
	}
	e.dir = ""
	e.lock = nil
	e.binary = ""
	return errors.Join(errs...)
}

func (e *Engine) path(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dir == "" {
		return "", engine.ErrNotLoaded
	}
	return filepath.Join(e.dir, name), nil
}

func (e *Engine) state() (binary, dir string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dir == "" {
		return "", "", engine.ErrNotLoaded
	}
	return e.binary, e.dir, nil
}

func (e *Engine) emit(ev engine.Event) {
	e.mu.Lock()
	handlers := append([]engine.Handler(nil), e.handlers[ev.Kind]...)
	e.mu.Unlock()
	for _, handler := range handlers {
		handler(ev)
	}
}

func validName(name string) bool {
	if strings.TrimSpace(name) == "" || name == lockName {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return true
}

var _ engine.Engine = (*Engine)(nil)
