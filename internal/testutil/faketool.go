// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeToolHeredoc terminates the heredocs in generated fake tools.
const fakeToolHeredoc = "__CHANDEPLOY_FAKE_EOF__"

// FakeTool describes a stand-in for the deploy CLI.
type FakeTool struct {
	// Stdout is printed verbatim, followed by a newline, when non-empty.
	Stdout string
	// Stderr is printed to standard error when non-empty.
	Stderr string
	// ExitCode is the process exit status.
	ExitCode int
}

// WriteFakeTool writes an executable shell script named "firebase" into dir
// that behaves as described by tool. Each run records its arguments in
// <path>.args and the credentials variable in <path>.gac.
// The test is skipped on Windows.
func WriteFakeTool(t testing.TB, dir string, tool FakeTool) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake deploy tool requires a POSIX shell")
	}

	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("printf '%s\\n' \"$*\" > \"$0.args\"\n")
	sb.WriteString("printf '%s' \"$GOOGLE_APPLICATION_CREDENTIALS\" > \"$0.gac\"\n")
	if tool.Stdout != "" {
		fmt.Fprintf(&sb, "cat <<'%s'\n%s\n%s\n", fakeToolHeredoc, tool.Stdout, fakeToolHeredoc)
	}
	if tool.Stderr != "" {
		fmt.Fprintf(&sb, "cat >&2 <<'%s'\n%s\n%s\n", fakeToolHeredoc, tool.Stderr, fakeToolHeredoc)
	}
	fmt.Fprintf(&sb, "exit %d\n", tool.ExitCode)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	path := filepath.Join(dir, "firebase")
	if err := os.WriteFile(path, []byte(sb.String()), 0o755); err != nil {
		t.Fatalf("failed to write fake tool: %v", err)
	}
	return path
}

// FakeToolArgs returns the space-joined arguments of the last run of the fake tool at path.
func FakeToolArgs(t testing.TB, path string) string {
	t.Helper()
	return strings.TrimSuffix(MustReadFile(t, path+".args"), "\n")
}

// FakeToolCredentials returns GOOGLE_APPLICATION_CREDENTIALS as seen by the last run.
func FakeToolCredentials(t testing.TB, path string) string {
	t.Helper()
	return MustReadFile(t, path+".gac")
}
