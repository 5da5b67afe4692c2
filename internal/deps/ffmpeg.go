package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	ffmpegName  = "ffmpeg"
	ffprobeName = "ffprobe"
)

// ResolveFFmpeg returns the ffmpeg command for an asset path.
//
// The asset path may name the binary itself or a directory that contains it.
// When it is empty, or the directory holds no executable ffmpeg, the bare
// command name is returned so exec resolves it from PATH.
func ResolveFFmpeg(assetPath string) string {
	assetPath = strings.TrimSpace(assetPath)
	if assetPath == "" {
		return ffmpegName
	}
	info, err := os.Stat(assetPath)
	if err != nil {
		// Not on disk; may still be a command name on PATH.
		return assetPath
	}
	if !info.IsDir() {
		return assetPath
	}
	candidate := filepath.Join(assetPath, executableName(ffmpegName))
	if isExecutableFile(candidate) {
		return candidate
	}
	return ffmpegName
}

// ResolveFFprobe returns the ffprobe command to execute.
//
// An explicit path wins. Otherwise an ffprobe that sits next to the resolved
// ffmpeg binary is preferred, since the two usually ship together, and the
// fallback is "ffprobe" from PATH.
func ResolveFFprobe(ffprobePath, ffmpegCommand string) string {
	if explicit := strings.TrimSpace(ffprobePath); explicit != "" {
		return explicit
	}
	ffmpegCommand = strings.TrimSpace(ffmpegCommand)
	if ffmpegCommand != "" {
		if resolved, err := exec.LookPath(ffmpegCommand); err == nil {
			if candidate, ok := sidecarCandidate(resolved, ffprobeName); ok && isExecutableFile(candidate) {
				return candidate
			}
		}
	}
	return ffprobeName
}

func sidecarCandidate(binaryPath, name string) (string, bool) {
	if binaryPath == "" {
		return "", false
	}
	return filepath.Join(filepath.Dir(binaryPath), executableName(name)), true
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return isExecutable(info)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
