package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// mp4Header is the start of an ISO base media ftyp box, enough for content
// sniffing to report video/mp4.
var mp4Header = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00, 'm', 'p', '4', '2', 'i', 's', 'o', 'm'}

// MP4Bytes returns size bytes that begin with an mp4 ftyp box followed by a
// repeating filler pattern. Sizes smaller than the header return the header.
func MP4Bytes(size int) []byte {
	if size < len(mp4Header) {
		size = len(mp4Header)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, mp4Header...)
	buf = append(buf, bytes.Repeat([]byte{0x42}, size-len(mp4Header))...)
	return buf
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
