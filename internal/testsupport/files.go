package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes a text fixture, creating parent directories as needed.
// Import tests use it to stage spreadsheet files on disk.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
