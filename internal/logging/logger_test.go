package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vcompress/internal/config"
	"vcompress/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")

	content, err := os.ReadFile(filepath.Join(cfg.Logging.Dir, "vcompress.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "debug message") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func newFileLogger(t *testing.T, opts logging.Options) (*slog.Logger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "out.log")
	opts.OutputPaths = []string{logPath}
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "console", Level: "info"})
	logger.Info("message without caller")

	if content := readLog(t, path); strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "console", Level: "debug"})
	logger.Info("message with caller")

	if content := readLog(t, path); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPromotesComponent(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "console", Level: "info"})
	logging.NewComponentLogger(logger, "compressor").Info("loaded", logging.String("asset_path", "/opt/ffmpeg"))

	content := readLog(t, path)
	if !strings.Contains(content, "INFO compressor: loaded") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if !strings.Contains(content, "asset_path=/opt/ffmpeg") {
		t.Fatalf("expected attribute, got %q", content)
	}
	if strings.Contains(content, "component=") {
		t.Fatalf("component should not repeat as attribute, got %q", content)
	}
}

func TestConsoleLoggerColorOnlyWhenRequested(t *testing.T) {
	plain, plainPath := newFileLogger(t, logging.Options{Format: "console"})
	plain.Warn("plain warning")
	if content := readLog(t, plainPath); strings.Contains(content, "\x1b[") {
		t.Fatalf("expected no ANSI codes in file output, got %q", content)
	}

	on := true
	colored, coloredPath := newFileLogger(t, logging.Options{Format: "console", Color: &on})
	colored.Warn("colored warning")
	if content := readLog(t, coloredPath); !strings.Contains(content, "\x1b[33mWARN") {
		t.Fatalf("expected coloured level label, got %q", content)
	}
}

func TestNewJSONLogger(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "json", Level: "info"})
	logger.Info("json message", logging.String("k", "v"))

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, path))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["msg"] != "json message" || payload["k"] != "v" || payload["level"] != "info" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "console", Level: "invalid"})
	logger.Debug("hidden")
	logger.Info("shown")

	content := readLog(t, path)
	if strings.Contains(content, "hidden") || !strings.Contains(content, "shown") {
		t.Fatalf("expected info threshold, got %q", content)
	}
}

func TestWithContextAddsJobID(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "json"})
	ctx := logging.WithJobID(context.Background(), "job-123")

	logging.WithContext(ctx, logger).Info("contextual log")

	if content := readLog(t, path); !strings.Contains(content, `"job_id":"job-123"`) {
		t.Fatalf("expected job_id field, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "json"})
	logging.WarnWithContext(logger, "history unavailable", "history_open_failed")

	content := readLog(t, path)
	for _, fragment := range []string{`"event_type":"history_open_failed"`, `"impact":`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %s in %q", fragment, content)
		}
	}
}
