package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"vcompress/internal/logging"
)

// progressPrinter renders job progress. On a terminal it rewrites one line in
// place; elsewhere it prints a line each time progress crosses a 10% step.
type progressPrinter struct {
	out         io.Writer
	interactive bool

	mu       sync.Mutex
	samplers map[string]*logging.ProgressSampler
	lastLen  int
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out:         out,
		interactive: writerIsTerminal(out),
		samplers:    make(map[string]*logging.ProgressSampler),
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// update records fraction for label.
func (p *progressPrinter) update(label string, fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.interactive {
		line := fmt.Sprintf("%s %s %3.0f%%", label, progressBar(fraction, 24), fraction*100)
		pad := ""
		if p.lastLen > len(line) {
			pad = strings.Repeat(" ", p.lastLen-len(line))
		}
		fmt.Fprintf(p.out, "\r%s%s", line, pad)
		p.lastLen = len(line)
		return
	}

	sampler, ok := p.samplers[label]
	if !ok {
		sampler = logging.NewProgressSampler(10)
		p.samplers[label] = sampler
	}
	if sampler.ShouldLog(fraction) {
		fmt.Fprintf(p.out, "%s: %.0f%%\n", label, fraction*100)
	}
}

// done terminates the in-place line.
func (p *progressPrinter) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.interactive && p.lastLen > 0 {
		fmt.Fprintln(p.out)
		p.lastLen = 0
	}
}

func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
