package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vcompress/internal/batch"
	"vcompress/internal/compressor"
	"vcompress/internal/logging"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var jobs int
	var outDir string

	cmd := &cobra.Command{
		Use:   "batch <inputs...>",
		Short: "Compress several files concurrently",
		Args:  cobra.MinimumNArgs(1),
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
			// Validate once up front instead of failing every item the same way.
			if _, err := compressor.BuildArgs("input", "output", opts); err != nil {
				return err
			}

			workers := cfg.Batch.Jobs
			if cmd.Flags().Changed("jobs") {
				workers = jobs
			}
			if workers < 1 {
				return errors.New("--jobs must be at least 1")
			}
			dir := cfg.Batch.OutDir
			if cmd.Flags().Changed("out-dir") {
				dir = strings.TrimSpace(outDir)
			}

			items := make([]batch.Item, 0, len(args))
			for _, input := range args {
				output := batch.OutputPath(input, dir, cfg.Batch.Suffix, opts.Output.Container)
				if sameFile(input, output) {
					return fmt.Errorf("output %s would overwrite the input", output)
				}
				items = append(items, batch.Item{Input: input, Output: output, Options: opts})
			}

			store, err := ctx.openHistory()
			if err != nil {
				logging.WarnWithContext(logger, "history unavailable", "history_open_failed", logging.Error(err))
			}
			runner := &batch.Runner{
				Jobs:          workers,
				NewCompressor: func() *compressor.Compressor { return ctx.newCompressor(logger) },
				Logger:        logger,
			}
			if store != nil {
				defer store.Close()
				runner.Recorder = store
			}
			progress := newProgressPrinter(cmd.OutOrStdout())
			progress.interactive = false
			runner.OnProgress = func(index int, fraction float64) {
				progress.update(filepath.Base(items[index].Input), fraction)
			}

			results := runner.Run(cmd.Context(), items)

			rows := make([][]string, 0, len(results))
			var totalIn, totalOut int64
			failed := 0
			for _, res := range results {
				status := "ok"
				if res.Err != nil {
					status = "failed: " + res.Err.Error()
					failed++
				} else {
					totalIn += res.InputBytes
					totalOut += res.OutputBytes
				}
				rows = append(rows, []string{
					filepath.Base(res.Item.Input),
					formatBytes(res.InputBytes),
					formatBytes(res.OutputBytes),
					formatRatio(sizeRatio(res.InputBytes, res.OutputBytes)),
					formatDuration(res.Duration),
					status,
				})
			}
			footer := []string{
				fmt.Sprintf("%d files", len(results)),
				formatBytes(totalIn),
				formatBytes(totalOut),
				formatRatio(sizeRatio(totalIn, totalOut)),
				"",
				fmt.Sprintf("%d failed", failed),
			}
			headers := []string{"Input", "Before", "After", "Ratio", "Time", "Status"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTableWithFooter(headers, rows, footer, aligns))

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of concurrent ffmpeg processes (default from config)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for outputs (default: next to each input)")
	return cmd
}
