package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const sampleReport = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2, "sample_rate": "48000"},
    {"index": 2, "codec_name": "ac3", "codec_type": "audio", "channels": 6}
  ],
  "format": {"filename": "in.mp4", "nb_streams": 3, "duration": "123.45", "size": "1000", "bit_rate": "32000", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
}`

func TestSummarize(t *testing.T) {
	result, err := Parse([]byte(sampleReport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	summary := result.Summarize()
	if summary.VideoCodec != "h264" || summary.Resolution() != "1920x1080" {
		t.Fatalf("unexpected video summary %+v", summary)
	}
	if math.Abs(summary.FrameRate-29.97) > 0.01 {
		t.Fatalf("frame rate = %v, want ~29.97", summary.FrameRate)
	}
	if summary.AudioCodec != "aac" || summary.AudioTracks != 2 {
		t.Fatalf("unexpected audio summary %+v", summary)
	}
	if summary.Duration != 123.45 || summary.SizeBytes != 1000 || summary.BitRate != 32000 {
		t.Fatalf("unexpected format summary %+v", summary)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
	if got := parseRational("30/0"); got != 0 {
		t.Fatalf("expected zero denominator to yield 0, got %v", got)
	}
}

func TestCompare(t *testing.T) {
	cmp := Compare(Summary{SizeBytes: 1000}, Summary{SizeBytes: 250})
	if cmp.Ratio() != 0.25 {
		t.Fatalf("ratio = %v, want 0.25", cmp.Ratio())
	}
	if cmp.SavedBytes() != 750 {
		t.Fatalf("saved = %d, want 750", cmp.SavedBytes())
	}
	if Compare(Summary{}, Summary{SizeBytes: 10}).Ratio() != 0 {
		t.Fatal("unknown input size must yield ratio 0")
	}
}

func TestInspectRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub ffprobe requires a POSIX shell")
	}
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	if err := os.WriteFile(report, []byte(sampleReport), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat " + report + "\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "in.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(result.Streams) != 3 {
		t.Fatalf("expected 3 streams, got %d", len(result.Streams))
	}
}

func TestInspectReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub ffprobe requires a POSIX shell")
	}
	stub := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'in.mp4: No such file' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if _, err := Inspect(context.Background(), stub, "in.mp4"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if _, err := Inspect(context.Background(), stub, " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
