package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"vcompress/internal/engine"
	"vcompress/internal/logging"
)

var (
	durationPattern = regexp.MustCompile(`Duration:\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
	timePattern     = regexp.MustCompile(`time=\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
)

// Exec runs ffmpeg with args inside the scratch directory and blocks until it
// exits. Output lines become log events when logging is enabled; progress
// events are derived from the input duration and the running time= counter.
func (e *Engine) Exec(ctx context.Context, args []string) error {
	binary, dir, err := e.state()
	if err != nil {
		return err
	}

	full := append([]string{"-hide_banner", "-nostdin"}, args...)
	cmd := commandContext(ctx, binary, full...) //nolint:gosec
	cmd.Dir = dir
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	e.logger.Debug("ffmpeg exec", logging.String("args", strings.Join(args, " ")))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	var (
		tracker progressTracker
		tail    = newLineTail(stderrTail)
	)
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanOutputLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tail.add(line)
		if e.cfg.Log {
			e.emit(engine.Event{Kind: engine.EventLog, Message: line})
		}
		if fraction, ok := tracker.observe(line); ok {
			e.emit(engine.Event{Kind: engine.EventProgress, Progress: fraction})
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep the pipe drained so ffmpeg can exit.
		_, _ = io.Copy(io.Discard, stderr)
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
		}
		if output := tail.String(); output != "" {
			return fmt.Errorf("ffmpeg failed: %w\n%s", err, output)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	if scanErr != nil {
		return fmt.Errorf("read ffmpeg output: %w", scanErr)
	}
	e.emit(engine.Event{Kind: engine.EventProgress, Progress: 1})
	return nil
}

// scanOutputLines splits on both carriage returns and newlines; ffmpeg
// rewrites its status line in place with \r.
func scanOutputLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type progressTracker struct {
	total float64
}

// observe returns a progress fraction when line carries a time= counter and
// the input duration is known.
func (p *progressTracker) observe(line string) (float64, bool) {
	if p.total <= 0 {
		if match := durationPattern.FindStringSubmatch(line); match != nil {
			p.total = clockSeconds(match[1:])
		}
		if p.total <= 0 {
			return 0, false
		}
	}
	match := timePattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	return engine.Clamp(clockSeconds(match[1:]) / p.total), true
}

func clockSeconds(parts []string) float64 {
	if len(parts) != 3 {
		return 0
	}
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0
	}
	return hours*3600 + minutes*60 + seconds
}

type lineTail struct {
	limit int
	lines []string
}

func newLineTail(limit int) *lineTail {
	return &lineTail{limit: limit}
}

func (t *lineTail) add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *lineTail) String() string {
	return strings.Join(t.lines, "\n")
}
