package compressor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"vcompress/internal/engine"
	"vcompress/internal/engine/ffmpeg"
	"vcompress/internal/logging"
)

// Job is the transient description of one Compress call.
type Job struct {
	Input  string
	Output string
	Args   []string
}

// Compressor runs one compression job at a time against a lazily loaded engine.
type Compressor struct {
	assetPath       string
	workDir         string
	engineLog       bool
	defaultLog      func(string)
	defaultProgress func(float64)
	factory         engine.Factory
	fetch           Fetcher
	logger          *slog.Logger
	engineLogger    *slog.Logger
	now             func() time.Time

	mu      sync.Mutex
	engine  engine.Engine
	loading *pendingLoad
	busy    bool
	active  hooks
}

type pendingLoad struct {
	done chan struct{}
	err  error
}

func (p *pendingLoad) wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// New constructs a Compressor. The engine is not loaded until Init or the
// first Compress call.
func New(opts ...Option) *Compressor {
	c := &Compressor{
		engineLog: true,
		factory:   ffmpeg.Factory,
		fetch:     ReadAll,
		logger:    logging.NewNop(),
		now:       time.Now,
		active:    noopHooks(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engineLogger = c.logger
	c.logger = logging.NewComponentLogger(c.logger, "compressor")
	return c
}

// Init loads the engine if it is not loaded yet. Concurrent callers share a
// single outstanding load. A failed load is not remembered, so a later call
// retries.
func (c *Compressor) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.engine != nil {
		c.mu.Unlock()
		return nil
	}
	if pending := c.loading; pending != nil {
		c.mu.Unlock()
		return pending.wait(ctx)
	}
	pending := &pendingLoad{done: make(chan struct{})}
	c.loading = pending
	c.mu.Unlock()

	eng, err := c.load(ctx)

	c.mu.Lock()
	if err == nil {
		c.engine = eng
	}
	c.loading = nil
	c.mu.Unlock()

	pending.err = err
	close(pending.done)
	return err
}

func (c *Compressor) load(ctx context.Context) (engine.Engine, error) {
	eng, err := c.factory(engine.Config{
		AssetPath: c.assetPath,
		Log:       c.engineLog,
		WorkDir:   c.workDir,
		Logger:    c.engineLogger,
	})
	if err != nil {
		return nil, err
	}
	eng.On(engine.EventLog, func(ev engine.Event) {
		c.currentHooks().log(ev.Message)
	})
	eng.On(engine.EventProgress, func(ev engine.Event) {
		c.currentHooks().progress(engine.Clamp(ev.Progress))
	})
	if err := eng.Load(ctx); err != nil {
		if closer, ok := eng.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, err
	}
	c.logger.Debug("engine loaded", logging.String("asset_path", c.assetPath))
	return eng, nil
}

// Compress runs one job and returns the encoded output. Errors from the
// fetcher and the engine are returned unchanged.
func (c *Compressor) Compress(ctx context.Context, file File, opts Options) (Blob, error) {
	if err := checkFile(file); err != nil {
		return Blob{}, err
	}
	if strings.TrimSpace(string(opts.Mode)) == "" {
		return Blob{}, fmt.Errorf("%w: mode is required", ErrInvalidInput)
	}
	if !c.acquire() {
		return Blob{}, ErrBusy
	}
	defer c.release()

	job, err := c.Plan(file, opts)
	if err != nil {
		return Blob{}, err
	}

	if err := c.Init(ctx); err != nil {
		return Blob{}, err
	}
	eng := c.loadedEngine()
	c.setHooks(resolveHooks(opts, c.defaultLog, c.defaultProgress))
	defer c.cleanup(eng, job)

	logger := c.logger.With(
		logging.String(logging.FieldMode, string(opts.Mode)),
		logging.String("input", job.Input),
		logging.String("output", job.Output),
	)
	logger.Debug("compression job started", logging.String("args", strings.Join(job.Args, " ")))
	started := c.now()

	data, err := c.fetch(ctx, file)
	if err != nil {
		return Blob{}, err
	}
	if err := eng.WriteFile(ctx, job.Input, data); err != nil {
		return Blob{}, err
	}
	if err := eng.Exec(ctx, job.Args); err != nil {
		return Blob{}, err
	}
	out, err := eng.ReadFile(ctx, job.Output)
	if err != nil {
		return Blob{}, err
	}

	logger.Debug("compression job finished",
		logging.Int("input_bytes", len(data)),
		logging.Int("output_bytes", len(out)),
		logging.Duration("elapsed", c.now().Sub(started)),
	)
	return Blob{Data: out, MIMEType: opts.mimeType()}, nil
}

// Plan returns the job Compress would run for file and opts without touching
// the engine.
func (c *Compressor) Plan(file File, opts Options) (Job, error) {
	if err := checkFile(file); err != nil {
		return Job{}, err
	}
	stamp := c.now().UnixMilli()
	input := fmt.Sprintf("input_%d.%s", stamp, inputExtension(file))
	output := strings.TrimSpace(opts.Output.FileName)
	if output == "" {
		output = fmt.Sprintf("output_%d.%s", stamp, opts.container())
	}
	if err := checkOutputName(output, input); err != nil {
		return Job{}, err
	}
	args, err := BuildArgs(input, output, opts)
	if err != nil {
		return Job{}, err
	}
	return Job{Input: input, Output: output, Args: args}, nil
}

// Busy reports whether a job is in flight.
func (c *Compressor) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Loaded reports whether the engine has been loaded.
func (c *Compressor) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine != nil
}

// Close releases the engine when it holds resources. The compressor can be
// reused afterwards; the next call loads a fresh engine.
func (c *Compressor) Close() error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	eng := c.engine
	c.engine = nil
	c.mu.Unlock()

	if closer, ok := eng.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Compressor) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Compressor) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.active = noopHooks()
}

func (c *Compressor) setHooks(h hooks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = h
}

func (c *Compressor) currentHooks() hooks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Compressor) loadedEngine() engine.Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

// cleanup removes the job's virtual files. Failures never reach the caller.
func (c *Compressor) cleanup(eng engine.Engine, job Job) {
	for _, name := range []string{job.Input, job.Output} {
		if _, err := eng.Stat(name); err != nil {
			continue
		}
		if err := eng.Unlink(name); err != nil {
			c.logger.Debug("virtual file cleanup failed", logging.String("name", name), logging.Error(err))
		}
	}
}

// checkFile rejects nil files, including typed nil pointers, and files
// without a name.
func checkFile(file File) error {
	if file == nil {
		return fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if v := reflect.ValueOf(file); v.Kind() == reflect.Pointer && v.IsNil() {
		return fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if strings.TrimSpace(file.Name()) == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	return nil
}

// checkOutputName keeps the output override a flat name distinct from the
// input, since ffmpeg resolves it relative to the engine scratch space.
func checkOutputName(output, input string) error {
	if strings.ContainsAny(output, `/\`) || strings.Contains(output, "..") {
		return fmt.Errorf("%w: output file name %q must not contain path elements", ErrInvalidInput, output)
	}
	if output == input {
		return fmt.Errorf("%w: output file name %q collides with the input", ErrInvalidInput, output)
	}
	return nil
}
