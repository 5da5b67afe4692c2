package compressor

import "errors"

var (
	// ErrInvalidInput marks a missing or malformed file or mode.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBusy marks a Compress call rejected because another job is running.
	ErrBusy = errors.New("compressor busy")
	// ErrConfigConflict marks mutually exclusive options set together.
	ErrConfigConflict = errors.New("configuration conflict")
	// ErrUnsupportedMode marks an unrecognized compression mode.
	ErrUnsupportedMode = errors.New("unsupported mode")
)
