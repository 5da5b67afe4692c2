package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vcompress/internal/compressor"
	"vcompress/internal/history"
	"vcompress/internal/logging"
)

// Item is one file to compress.
type Item struct {
	Input   string
	Output  string
	Options compressor.Options
}

// Result is the outcome of one item. Results keep the order of the items.
type Result struct {
	Item        Item
	JobID       string
	InputBytes  int64
	OutputBytes int64
	Duration    time.Duration
	Err         error
}

// Recorder stores a history entry per item.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// Runner executes items concurrently.
type Runner struct {
	// Jobs is the worker count. Values below one mean one worker.
	Jobs int
	// NewCompressor builds the compressor a worker owns.
	NewCompressor func() *compressor.Compressor
	// Recorder is optional.
	Recorder Recorder
	// OnProgress, when set, receives progress for items whose options carry
	// no progress hook of their own.
	OnProgress func(index int, fraction float64)
	Logger     *slog.Logger
}

// Run compresses every item and returns one result per item. A failing item
// does not stop the others; cancelling ctx stops dispatching new items, and
// undispatched items report the context error.
func (r *Runner) Run(ctx context.Context, items []Item) []Result {
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = Result{Item: item}
	}
	if len(items) == 0 {
		return results
	}

	logger := logging.NewComponentLogger(r.Logger, "batch")
	batchID := uuid.NewString()
	workers := r.Jobs
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}
	logger.Info("batch started",
		logging.String("batch_id", batchID),
		logging.Int("items", len(items)),
		logging.Int("workers", workers),
	)

	dispatched := make([]bool, len(items))
	work := make(chan int)
	var g errgroup.Group
	g.Go(func() error {
		defer close(work)
		for i := range items {
			select {
			case work <- i:
				dispatched[i] = true
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			c := r.newCompressor()
			defer func() {
				if err := c.Close(); err != nil {
					logger.Debug("compressor close failed", logging.Error(err))
				}
			}()
			for idx := range work {
				results[idx] = r.runOne(ctx, logger, c, batchID, idx, items[idx])
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i := range results {
		if !dispatched[i] {
			results[i].Err = fmt.Errorf("not started: %w", context.Cause(ctx))
		}
		if results[i].Err != nil {
			failed++
		}
	}
	logger.Info("batch finished",
		logging.String("batch_id", batchID),
		logging.Int("succeeded", len(items)-failed),
		logging.Int("failed", failed),
	)
	return results
}

func (r *Runner) newCompressor() *compressor.Compressor {
	if r.NewCompressor != nil {
		return r.NewCompressor()
	}
	return compressor.New(compressor.WithLogger(r.Logger))
}

func (r *Runner) runOne(ctx context.Context, logger *slog.Logger, c *compressor.Compressor, batchID string, idx int, item Item) Result {
	result := Result{Item: item, JobID: uuid.NewString()}
	ctx = logging.WithJobID(ctx, result.JobID)
	logger = logging.WithContext(ctx, logger).With(logging.String("input", item.Input))

	opts := item.Options
	if opts.OnProgress == nil && r.OnProgress != nil {
		opts.OnProgress = func(fraction float64) { r.OnProgress(idx, fraction) }
	}

	if info, err := os.Stat(item.Input); err == nil {
		result.InputBytes = info.Size()
	}
	started := time.Now()
	blob, err := c.Compress(ctx, compressor.FromPath(item.Input), opts)
	if err == nil {
		err = blob.WriteFile(item.Output)
	}
	result.Duration = time.Since(started)
	if err != nil {
		result.Err = err
		logging.WarnWithContext(logger, "batch item failed", "batch_item_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "output was not written"),
		)
	} else {
		result.OutputBytes = blob.Size()
		logger.Info("batch item finished",
			logging.String("output", item.Output),
			logging.Int64("output_bytes", result.OutputBytes),
			logging.Duration("elapsed", result.Duration),
		)
	}
	r.record(ctx, logger, batchID, result)
	return result
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, batchID string, result Result) {
	if r.Recorder == nil {
		return
	}
	entry := history.Entry{
		ID:          result.JobID,
		BatchID:     batchID,
		InputPath:   result.Item.Input,
		Mode:        string(result.Item.Options.Mode),
		Status:      history.StatusSucceeded,
		InputBytes:  result.InputBytes,
		OutputBytes: result.OutputBytes,
		Duration:    result.Duration,
	}
	if result.Err != nil {
		entry.Status = history.StatusFailed
		entry.Error = result.Err.Error()
	} else {
		entry.OutputPath = result.Item.Output
	}
	// Record even when ctx was cancelled so interrupted runs stay visible.
	if _, err := r.Recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run is missing from history"),
		)
	}
}

// OutputPath derives the destination for input: the input's base name plus
// suffix, with the container as extension, inside outDir or next to the input
// when outDir is empty.
func OutputPath(input, outDir, suffix, container string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	container = strings.TrimPrefix(strings.TrimSpace(container), ".")
	if container == "" {
		container = "mp4"
	}
	dir := strings.TrimSpace(outDir)
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+suffix+"."+container)
}
