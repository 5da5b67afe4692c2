package compressor

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestBuildArgsCopy(t *testing.T) {
	args, err := BuildArgs("input_1.mp4", "output_1.mp4", Options{Mode: ModeCopy})
	if err != nil {
		t.Fatalf("BuildArgs: %v", err)
	}
	want := []string{"-i", "input_1.mp4", "-c:v", "copy", "-c:a", "copy", "-movflags", "+faststart", "-y", "output_1.mp4"}
	if !slices.Equal(args, want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
}

func TestBuildArgsCopyAndMute(t *testing.T) {
	args, err := BuildArgs("in.mov", "out.mp4", Options{Mode: ModeCopyMute, Audio: AudioOptions{Codec: "opus"}})
	if err != nil {
		t.Fatalf("BuildArgs: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-c:v copy -an -movflags +faststart") {
		t.Fatalf("unexpected args %q", joined)
	}
	if slices.Contains(args, "-c:a") {
		t.Fatalf("copy-and-mute must not select an audio codec: %q", joined)
	}
}

func TestBuildArgsReencode(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "crf preset and bitrate audio",
			opts: Options{
				Mode:  ModeReencode,
				Video: VideoOptions{CRF: CRF(23), Preset: "medium"},
				Audio: AudioOptions{Bitrate: "128k"},
			},
			want: "-i in.mp4 -c:v libx264 -crf 23 -preset medium -c:a aac -b:a 128k -movflags +faststart -y out.mp4",
		},
		{
			name: "video bitrate with audio passthrough",
			opts: Options{Mode: ModeReencode, Video: VideoOptions{Codec: "libx265", Bitrate: "2M"}},
			want: "-i in.mp4 -c:v libx265 -b:v 2M -c:a copy -movflags +faststart -y out.mp4",
		},
		{
			name: "muted audio ignores codec",
			opts: Options{Mode: ModeReencode, Audio: AudioOptions{Mute: true, Codec: "opus", Bitrate: "64k"}},
			want: "-i in.mp4 -c:v libx264 -an -movflags +faststart -y out.mp4",
		},
		{
			name: "explicit audio codec",
			opts: Options{Mode: ModeReencode, Audio: AudioOptions{Codec: "libopus", Bitrate: "96k"}},
			want: "-i in.mp4 -c:v libx264 -c:a libopus -b:a 96k -movflags +faststart -y out.mp4",
		},
		{
			name: "scale with width only",
			opts: Options{Mode: ModeReencode, Video: VideoOptions{Scale: Scale{Width: 1280}}},
			want: "-i in.mp4 -c:v libx264 -vf scale=1280:-2 -c:a copy -movflags +faststart -y out.mp4",
		},
		{
			name: "scale with height only",
			opts: Options{Mode: ModeReencode, Video: VideoOptions{Scale: Scale{Height: 720}}},
			want: "-i in.mp4 -c:v libx264 -vf scale=-2:720 -c:a copy -movflags +faststart -y out.mp4",
		},
		{
			name: "crf zero is honored",
			opts: Options{Mode: ModeReencode, Video: VideoOptions{CRF: CRF(0)}},
			want: "-i in.mp4 -c:v libx264 -crf 0 -c:a copy -movflags +faststart -y out.mp4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := BuildArgs("in.mp4", "out.mp4", tt.opts)
			if err != nil {
				t.Fatalf("BuildArgs: %v", err)
			}
			if got := strings.Join(args, " "); got != tt.want {
				t.Fatalf("args = %q\nwant   %q", got, tt.want)
			}
		})
	}
}

func TestBuildArgsErrors(t *testing.T) {
	if _, err := BuildArgs("in", "out", Options{Mode: ModeReencode, Video: VideoOptions{CRF: CRF(20), Bitrate: "1M"}}); !errors.Is(err, ErrConfigConflict) {
		t.Fatalf("expected ErrConfigConflict, got %v", err)
	}
	if _, err := BuildArgs("in", "out", Options{Mode: "turbo"}); !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
	if _, err := BuildArgs("in", "out", Options{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildArgsIsDeterministic(t *testing.T) {
	opts := Options{Mode: ModeReencode, Video: VideoOptions{CRF: CRF(30), Scale: Scale{Width: 640, Height: 360}}}
	first, err := BuildArgs("a", "b", opts)
	if err != nil {
		t.Fatalf("BuildArgs: %v", err)
	}
	second, _ := BuildArgs("a", "b", opts)
	if !slices.Equal(first, second) {
		t.Fatalf("args differ between calls: %v vs %v", first, second)
	}
	if first[0] != "-i" || first[1] != "a" || first[len(first)-2] != "-y" || first[len(first)-1] != "b" {
		t.Fatalf("input and output must bracket the argument list: %v", first)
	}
}

func TestParseMode(t *testing.T) {
	for input, want := range map[string]Mode{"copy": ModeCopy, " Copy-And-Mute ": ModeCopyMute, "RE-ENCODE": ModeReencode} {
		got, err := ParseMode(input)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseMode("fast"); !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
}
