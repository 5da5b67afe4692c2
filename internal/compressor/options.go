package compressor

import (
	"fmt"
	"strings"
)

// Mode selects how the input streams are treated.
type Mode string

const (
	// ModeCopy remuxes video and audio without re-encoding.
	ModeCopy Mode = "copy"
	// ModeCopyMute remuxes video and drops audio.
	ModeCopyMute Mode = "copy-and-mute"
	// ModeReencode re-encodes video and, depending on AudioOptions, audio.
	ModeReencode Mode = "re-encode"
)

const (
	defaultVideoCodec = "libx264"
	defaultAudioCodec = "aac"
	defaultContainer  = "mp4"
	defaultMIMEType   = "video/mp4"
	defaultInputExt   = "mp4"
)

// Modes lists every supported mode in display order.
func Modes() []Mode {
	return []Mode{ModeCopy, ModeCopyMute, ModeReencode}
}

// ParseMode maps a user-supplied string to a Mode.
func ParseMode(value string) (Mode, error) {
	normalized := Mode(strings.ToLower(strings.TrimSpace(value)))
	for _, mode := range Modes() {
		if normalized == mode {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, value)
}

// Scale requests a resize. A zero dimension is derived from the other one,
// preserving aspect ratio.
type Scale struct {
	Width  int
	Height int
}

// IsZero reports whether no resize was requested.
func (s Scale) IsZero() bool {
	return s.Width <= 0 && s.Height <= 0
}

// VideoOptions configures video re-encoding. CRF and Bitrate are mutually exclusive.
type VideoOptions struct {
	Codec   string
	CRF     *int
	Bitrate string
	Preset  string
	Scale   Scale
}

// AudioOptions configures the audio stream.
type AudioOptions struct {
	Mute    bool
	Codec   string
	Bitrate string
}

// OutputOptions configures the produced file.
type OutputOptions struct {
	Container string
	FileName  string
	MIMEType  string
}

// Options describes one compression job.
type Options struct {
	Mode   Mode
	Video  VideoOptions
	Audio  AudioOptions
	Output OutputOptions

	// OnProgress receives completion fractions for this job only.
	OnProgress func(float64)
	// OnLog receives engine output lines for this job only.
	OnLog func(string)
}

// CRF returns a pointer suitable for VideoOptions.CRF.
func CRF(value int) *int {
	return &value
}

func (o Options) container() string {
	if c := strings.TrimPrefix(strings.TrimSpace(o.Output.Container), "."); c != "" {
		return strings.ToLower(c)
	}
	return defaultContainer
}

func (o Options) mimeType() string {
	if m := strings.TrimSpace(o.Output.MIMEType); m != "" {
		return m
	}
	return defaultMIMEType
}
