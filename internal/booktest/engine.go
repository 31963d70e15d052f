package booktest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FakeEngine writes an executable shell script standing in for the notebook
// execution engine and returns its path. body is the script after the shebang;
// it receives the engine arguments, the notebook path being last.
func FakeEngine(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-engine")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		t.Fatalf("write fake engine: %v", err)
	}
	return path
}
