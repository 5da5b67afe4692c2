package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vcompress/internal/config"
	"vcompress/internal/testsupport"
)

// stubFFmpeg copies the -i input to the last argument and reports progress.
const stubFFmpeg = `#!/bin/sh
echo "  Duration: 00:00:04.00, start: 0.000000, bitrate: 100 kb/s" >&2
printf 'frame=1 time=00:00:02.00 bitrate=1\r' >&2
in=""
prev=""
for arg; do
	if [ "$prev" = "-i" ]; then in="$arg"; fi
	prev="$arg"
	last="$arg"
done
cat "$in" > "$last"
`

const probeReport = `{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":1280,"height":720,"avg_frame_rate":"25/1"},{"index":1,"codec_name":"aac","codec_type":"audio"}],"format":{"duration":"4.0","size":"2048","bit_rate":"4096","format_name":"mov,mp4"}}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	if os.PathSeparator != '/' {
		t.Skip("CLI tests use POSIX shell stubs")
	}

	cfg := testsupport.NewConfig(t, testsupport.WithStubFFmpeg(stubFFmpeg))
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("FFMPEG_PATH", "")
	t.Setenv("FFPROBE_PATH", "")

	reportPath := testsupport.WriteFile(t, filepath.Join(base, "probe.json"), []byte(probeReport))
	cfg.Engine.FFprobePath = testsupport.WriteExecutable(t, filepath.Join(base, "bin"), "ffprobe", "#!/bin/sh\ncat "+reportPath+"\n")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[engine]
ffmpeg_path = %q
ffprobe_path = %q
work_dir = %q

[batch]
jobs = 2
suffix = "_small"

[history]
enabled = true
path = %q

[logging]
level = "warn"
dir = %q
`,
		cfg.Engine.FFmpegPath,
		cfg.Engine.FFprobePath,
		cfg.Engine.WorkDir,
		cfg.History.Path,
		cfg.Logging.Dir,
	)
	testsupport.WriteFile(t, path, []byte(content))
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", needle, haystack)
	}
}
