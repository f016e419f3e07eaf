// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteCredentialsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := `  {"type":"service_account","project_id":"acme"}  `

	path, cleanup, err := WriteCredentialsFile(dir, content)
	if err != nil {
		t.Fatalf("WriteCredentialsFile() unexpected error: %v", err)
	}
	if filepath.Dir(string(path)) != dir {
		t.Errorf("file created in %q, want %q", filepath.Dir(string(path)), dir)
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		t.Fatalf("failed to read credentials file: %v", err)
	}
	if string(data) != `{"type":"service_account","project_id":"acme"}` {
		t.Errorf("file content = %q", data)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(string(path))
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("file mode = %o, want 600", perm)
		}
	}

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() error: %v", err)
	}
	if _, err := os.Stat(string(path)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("credentials file still present after cleanup: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Errorf("second cleanup() should be a no-op, got %v", err)
	}
}

func TestWriteCredentialsFile_RejectsNonObject(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "   ", "not json", `["a"]`, `{"unterminated":`} {
		_, _, err := WriteCredentialsFile(t.TempDir(), content)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("WriteCredentialsFile(%q) error = %v, want ErrInvalidCredentials", content, err)
		}
	}
}
