package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vcompress/internal/compressor"
	"vcompress/internal/config"
)

// jobFlags binds the compression option flags shared by compress, batch and
// args. Unset flags fall back to the [defaults] config section.
type jobFlags struct {
	mode         string
	videoCodec   string
	crf          int
	videoBitrate string
	preset       string
	width        int
	height       int
	mute         bool
	audioCodec   string
	audioBitrate string
	container    string
	mimeType     string
}

func (f *jobFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.mode, "mode", "m", "", "Compression mode: copy, copy-and-mute, re-encode")
	flags.StringVar(&f.videoCodec, "video-codec", "", "Video codec for re-encode (default libx264)")
	flags.IntVar(&f.crf, "crf", 0, "Constant rate factor for re-encode")
	flags.StringVar(&f.videoBitrate, "video-bitrate", "", "Target video bitrate for re-encode, e.g. 2M")
	flags.StringVar(&f.preset, "preset", "", "Encoder preset for re-encode")
	flags.IntVar(&f.width, "width", 0, "Scale to this width on re-encode; height follows aspect ratio")
	flags.IntVar(&f.height, "height", 0, "Scale to this height on re-encode; width follows aspect ratio")
	flags.BoolVar(&f.mute, "mute", false, "Strip audio; with --mode copy this selects copy-and-mute")
	flags.StringVar(&f.audioCodec, "audio-codec", "", "Audio codec for re-encode")
	flags.StringVar(&f.audioBitrate, "audio-bitrate", "", "Audio bitrate for re-encode, e.g. 128k")
	flags.StringVar(&f.container, "container", "", "Output container extension (default mp4)")
	flags.StringVar(&f.mimeType, "mime-type", "", "MIME type tagged on the output")
}

// options merges explicit flags over config defaults. Setting one of --crf or
// --video-bitrate discards the other from the config so the two sources do
// not collide; setting both flags is reported by the compressor.
func (f *jobFlags) options(cmd *cobra.Command, defaults config.Defaults) (compressor.Options, error) {
	flags := cmd.Flags()
	pick := func(name, flagValue, fallback string) string {
		if flags.Changed(name) {
			return strings.TrimSpace(flagValue)
		}
		return fallback
	}
	pickInt := func(name string, flagValue, fallback int) int {
		if flags.Changed(name) {
			return flagValue
		}
		return fallback
	}

	modeValue := pick("mode", f.mode, defaults.Mode)
	mode, err := compressor.ParseMode(modeValue)
	if err != nil {
		return compressor.Options{}, fmt.Errorf("--mode: %w", err)
	}
	if f.mute && mode == compressor.ModeCopy {
		mode = compressor.ModeCopyMute
	}
	scale := compressor.Scale{
		Width:  pickInt("width", f.width, defaults.ScaleWidth),
		Height: pickInt("height", f.height, defaults.ScaleHeight),
	}
	if scale.Width < 0 || scale.Height < 0 {
		return compressor.Options{}, fmt.Errorf("%w: --width and --height must not be negative", compressor.ErrInvalidInput)
	}

	opts := compressor.Options{
		Mode: mode,
		Video: compressor.VideoOptions{
			Codec:   pick("video-codec", f.videoCodec, defaults.VideoCodec),
			Bitrate: pick("video-bitrate", f.videoBitrate, defaults.VideoBitrate),
			Preset:  pick("preset", f.preset, defaults.Preset),
			Scale:   scale,
		},
		Audio: compressor.AudioOptions{
			Mute:    f.mute,
			Codec:   pick("audio-codec", f.audioCodec, defaults.AudioCodec),
			Bitrate: pick("audio-bitrate", f.audioBitrate, defaults.AudioBitrate),
		},
		Output: compressor.OutputOptions{
			Container: pick("container", f.container, defaults.Container),
			MIMEType:  pick("mime-type", f.mimeType, defaults.MIMEType),
		},
	}

	switch {
	case flags.Changed("crf"):
		opts.Video.CRF = compressor.CRF(f.crf)
	case defaults.CRF != nil && !flags.Changed("video-bitrate"):
		opts.Video.CRF = compressor.CRF(*defaults.CRF)
	}
	if flags.Changed("crf") && !flags.Changed("video-bitrate") {
		opts.Video.Bitrate = ""
	}
	return opts, nil
}
