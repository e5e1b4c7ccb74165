package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTranscript lays out a transcript artifact directory for one take:
// <transcriptDir>/<stem>/out.txt containing the given text.
func WriteTranscript(t testing.TB, transcriptDir, stem, text string) {
	t.Helper()
	WriteFile(t, filepath.Join(transcriptDir, stem, "out.txt"), text)
}

// WriteVideo creates a placeholder video file in the video directory.
func WriteVideo(t testing.TB, videoDir, name string) string {
	t.Helper()
	path := filepath.Join(videoDir, name)
	WriteFile(t, path, "\x00placeholder")
	return path
}
