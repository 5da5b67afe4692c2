package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vcompress/internal/batch"
	"vcompress/internal/compressor"
	"vcompress/internal/history"
	"vcompress/internal/logging"
	"vcompress/internal/media/ffprobe"
)

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var outputPath string
	var probe bool

	cmd := &cobra.Command{
		Use:   "compress <input>",
		Short: "Compress a single video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg.Defaults)
			if err != nil {
				return err
			}

			input := args[0]
			output := strings.TrimSpace(outputPath)
			if output == "" {
				output = batch.OutputPath(input, cfg.Batch.OutDir, cfg.Batch.Suffix, opts.Output.Container)
			}
			if sameFile(input, output) {
				return fmt.Errorf("output %s would overwrite the input", output)
			}

			jobID := uuid.NewString()
			runCtx := logging.WithJobID(cmd.Context(), jobID)
			out := cmd.OutOrStdout()
			progress := newProgressPrinter(out)
			label := filepath.Base(input)
			opts.OnProgress = func(fraction float64) { progress.update(label, fraction) }

			c := ctx.newCompressor(logging.WithContext(runCtx, logger))
			defer c.Close()

			started := time.Now()
			blob, err := c.Compress(runCtx, compressor.FromPath(input), opts)
			if err == nil {
				err = blob.WriteFile(output)
			}
			progress.done()
			elapsed := time.Since(started)

			entry := history.Entry{
				ID:         jobID,
				InputPath:  input,
				Mode:       string(opts.Mode),
				Status:     history.StatusSucceeded,
				InputBytes: fileSize(input),
				Duration:   elapsed,
			}
			if err != nil {
				entry.Status = history.StatusFailed
				entry.Error = err.Error()
			} else {
				entry.OutputPath = output
				entry.OutputBytes = blob.Size()
			}
			ctx.recordRun(runCtx, logger, entry)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s %s -> %s (%s, %s in %s)\n",
				modeLabel(opts.Mode),
				input,
				output,
				formatBytes(entry.OutputBytes),
				formatRatio(sizeRatio(entry.InputBytes, entry.OutputBytes)),
				formatDuration(elapsed),
			)
			if probe {
				return printComparison(runCtx, out, ctx.ffprobeCommand(), input, output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: input name plus the batch suffix)")
	cmd.Flags().BoolVar(&probe, "probe", false, "Print an ffprobe comparison of input and output")
	return cmd
}

// recordRun stores entry when history is enabled. Failures only warn.
func (c *commandContext) recordRun(ctx context.Context, logger *slog.Logger, entry history.Entry) {
	store, err := c.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed", logging.Error(err))
		return
	}
	if store == nil {
		return
	}
	defer store.Close()
	if _, err := store.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed", logging.Error(err))
	}
}

func printComparison(ctx context.Context, out io.Writer, ffprobeBinary, input, output string) error {
	before, err := ffprobe.Inspect(ctx, ffprobeBinary, input)
	if err != nil {
		return fmt.Errorf("probe input: %w", err)
	}
	after, err := ffprobe.Inspect(ctx, ffprobeBinary, output)
	if err != nil {
		return fmt.Errorf("probe output: %w", err)
	}
	cmp := ffprobe.Compare(before.Summarize(), after.Summarize())
	rows := [][]string{
		{"Size", formatBytes(cmp.Before.SizeBytes), formatBytes(cmp.After.SizeBytes)},
		{"Bitrate", formatBitrate(cmp.Before.BitRate), formatBitrate(cmp.After.BitRate)},
		{"Duration", formatSeconds(cmp.Before.Duration), formatSeconds(cmp.After.Duration)},
		{"Video", describeVideo(cmp.Before), describeVideo(cmp.After)},
		{"Audio", describeAudio(cmp.Before), describeAudio(cmp.After)},
	}
	footer := []string{"Saved", formatBytes(cmp.SavedBytes()), formatRatio(cmp.Ratio())}
	fmt.Fprintln(out, renderTableWithFooter([]string{"", "Input", "Output"}, rows, footer, []columnAlignment{alignLeft, alignRight, alignRight}))
	return nil
}

func describeVideo(s ffprobe.Summary) string {
	if s.VideoCodec == "" {
		return "-"
	}
	if res := s.Resolution(); res != "" {
		return s.VideoCodec + " " + res
	}
	return s.VideoCodec
}

func describeAudio(s ffprobe.Summary) string {
	if s.AudioCodec == "" {
		return "none"
	}
	if s.AudioTracks > 1 {
		return fmt.Sprintf("%s (+%d)", s.AudioCodec, s.AudioTracks-1)
	}
	return s.AudioCodec
}

func formatBitrate(bps int64) string {
	if bps <= 0 {
		return "-"
	}
	return printer.Sprintf("%d kb/s", bps/1000)
}

func sizeRatio(before, after int64) float64 {
	if before <= 0 {
		return 0
	}
	return float64(after) / float64(before)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
