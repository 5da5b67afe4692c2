package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary vcompress relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Requirements lists the binaries the compress and probe commands execute.
// Empty paths fall back to the sidecar and PATH lookup rules.
func Requirements(ffmpegPath, ffprobePath string) []Requirement {
	ffmpeg := ResolveFFmpeg(ffmpegPath)
	ffprobe := ResolveFFprobe(ffprobePath, ffmpeg)
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpeg, Description: "Runs compression jobs"},
		{Name: "FFprobe", Command: ffprobe, Description: "Inspects media for probe and size reports", Optional: true},
	}
}
