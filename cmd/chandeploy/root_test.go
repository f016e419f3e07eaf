// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"
)

//nolint:paralleltest // mutates the package-level version variables
func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origDate
	})

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("dev version = %q", got)
	}

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-02"
	want := "v1.2.3 (commit: abc1234, built: 2026-01-02)"
	if got := getVersionString(); got != want {
		t.Errorf("release version = %q, want %q", got, want)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := newRootCommand(NewApp(Dependencies{}))
	for _, name := range []string{"deploy", "channel", "config", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered (err: %v)", name, err)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run("version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(h.stdout.String(), "chandeploy ") {
		t.Errorf("version output = %q", h.stdout.String())
	}
}
