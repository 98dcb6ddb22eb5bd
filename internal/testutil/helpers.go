package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteTestDocument writes content to name inside a fresh temp directory
// and returns the file path.
func WriteTestDocument(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test document %s: %v", path, err)
	}
	return path
}

// Eventually polls cond until it returns true or the timeout expires.
// Used for asserting on results of background translation runs.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}
