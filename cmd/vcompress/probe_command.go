package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vcompress/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Summarize a media file with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ffprobe.Inspect(cmd.Context(), ctx.ffprobeCommand(), args[0])
			if err != nil {
				return err
			}
			s := result.Summarize()
			frameRate := "-"
			if s.FrameRate > 0 {
				frameRate = strconv.FormatFloat(s.FrameRate, 'f', 2, 64)
			}
			pairs := [][2]string{
				{"Container", valueOrDash(s.Container)},
				{"Duration", formatSeconds(s.Duration)},
				{"Size", formatBytes(s.SizeBytes)},
				{"Bitrate", formatBitrate(s.BitRate)},
				{"Video", describeVideo(s)},
				{"Frame rate", frameRate},
				{"Audio", describeAudio(s)},
				{"Streams", formatCount(int64(len(result.Streams)))},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(pairs))
			return nil
		},
	}
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
