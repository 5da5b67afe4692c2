package engine

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"math"
)

// ErrNotLoaded is returned by engine operations invoked before Load.
var ErrNotLoaded = errors.New("engine not loaded")

// EventKind identifies the type of event an engine emits during Exec.
type EventKind string

const (
	// EventLog carries one line of engine output in Event.Message.
	EventLog EventKind = "log"
	// EventProgress carries a completion fraction between 0 and 1 in Event.Progress.
	EventProgress EventKind = "progress"
)

// Event is a single notification emitted by an engine.
type Event struct {
	Kind     EventKind
	Message  string
	Progress float64
}

// Handler receives engine events.
type Handler func(Event)

// Engine is the transcoding engine capability contract.
type Engine interface {
	// Load prepares the engine for use. It is called once per engine.
	Load(ctx context.Context) error
	// WriteFile stores data in the virtual filesystem under name.
	WriteFile(ctx context.Context, name string, data []byte) error
	// Exec runs one argument list to completion.
	Exec(ctx context.Context, args []string) error
	// ReadFile returns the contents of a virtual file.
	ReadFile(ctx context.Context, name string) ([]byte, error)
	// Stat reports whether and how a virtual file exists.
	Stat(name string) (fs.FileInfo, error)
	// Unlink removes a virtual file.
	Unlink(name string) error
	// On subscribes handler to events of the given kind.
	On(kind EventKind, handler Handler)
}

// Config carries construction parameters for an engine.
type Config struct {
	// AssetPath overrides where the engine looks for its executable assets.
	AssetPath string
	// Log enables forwarding of engine output lines as EventLog events.
	Log bool
	// WorkDir is the parent directory for engine scratch space. Empty uses the system temp dir.
	WorkDir string
	// Logger receives engine diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Factory constructs an engine from config.
type Factory func(Config) (Engine, error)

// Clamp bounds a progress fraction to [0, 1].
func Clamp(fraction float64) float64 {
	switch {
	case math.IsNaN(fraction):
		return 0
	case fraction < 0:
		return 0
	case fraction > 1:
		return 1
	default:
		return fraction
	}
}
