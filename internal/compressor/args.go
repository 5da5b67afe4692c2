package compressor

import (
	"fmt"
	"strconv"
	"strings"
)

var fastStartArgs = []string{"-movflags", "+faststart"}

// BuildArgs returns the engine argument list that compresses input into
// output according to opts. It is a pure function of its arguments.
func BuildArgs(input, output string, opts Options) ([]string, error) {
	args := []string{"-i", input}

	switch opts.Mode {
	case ModeCopy:
		args = append(args, "-c:v", "copy", "-c:a", "copy")
	case ModeCopyMute:
		args = append(args, "-c:v", "copy", "-an")
	case ModeReencode:
		videoArgs, err := reencodeVideoArgs(opts.Video)
		if err != nil {
			return nil, err
		}
		args = append(args, videoArgs...)
		args = append(args, reencodeAudioArgs(opts.Audio)...)
	case "":
		return nil, fmt.Errorf("%w: mode is required", ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, opts.Mode)
	}

	args = append(args, fastStartArgs...)
	args = append(args, "-y", output)
	return args, nil
}

func reencodeVideoArgs(video VideoOptions) ([]string, error) {
	bitrate := strings.TrimSpace(video.Bitrate)
	if video.CRF != nil && bitrate != "" {
		return nil, fmt.Errorf("%w: video crf and bitrate are mutually exclusive", ErrConfigConflict)
	}

	codec := strings.TrimSpace(video.Codec)
	if codec == "" {
		codec = defaultVideoCodec
	}
	args := []string{"-c:v", codec}

	switch {
	case video.CRF != nil:
		args = append(args, "-crf", strconv.Itoa(*video.CRF))
	case bitrate != "":
		args = append(args, "-b:v", bitrate)
	}

	if preset := strings.TrimSpace(video.Preset); preset != "" {
		args = append(args, "-preset", preset)
	}

	if !video.Scale.IsZero() {
		args = append(args, "-vf", scaleFilter(video.Scale))
	}
	return args, nil
}

// scaleFilter uses -2 for an omitted dimension so the encoder keeps the
// aspect ratio and an even pixel count.
func scaleFilter(scale Scale) string {
	dim := func(v int) string {
		if v <= 0 {
			return "-2"
		}
		return strconv.Itoa(v)
	}
	return fmt.Sprintf("scale=%s:%s", dim(scale.Width), dim(scale.Height))
}

func reencodeAudioArgs(audio AudioOptions) []string {
	if audio.Mute {
		return []string{"-an"}
	}
	codec := strings.TrimSpace(audio.Codec)
	bitrate := strings.TrimSpace(audio.Bitrate)

	switch {
	case codec != "":
		args := []string{"-c:a", codec}
		if bitrate != "" {
			args = append(args, "-b:a", bitrate)
		}
		return args
	case bitrate != "":
		return []string{"-c:a", defaultAudioCodec, "-b:a", bitrate}
	default:
		return []string{"-c:a", "copy"}
	}
}
