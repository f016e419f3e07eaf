// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"github.com/chandeploy/chandeploy/pkg/types"
)

func TestChannelCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		branch string
		want   string
	}{
		{"explicit branch", []string{"channel", "--pr", "42", "--branch", "main"}, "", "pr42-main"},
		{"current branch", []string{"channel", "--pr", "7"}, "fix-typo", "pr7-fix-typo"},
		{"sanitized", []string{"channel", "--pr", "1", "--branch", "feature/login"}, "", "pr1-feature_login"},
		{"truncated", []string{"channel", "--pr", "9", "--branch", "abcdefghijklmnopqrstuvwxyz"}, "", "pr9-abcdefghijklmnopqrst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			if tt.branch != "" {
				h.branch = func(string) (string, error) { return tt.branch, nil }
			}

			if err := h.run(tt.args...); err != nil {
				t.Fatalf("channel: %v", err)
			}
			if got := strings.TrimSpace(h.stdout.String()); got != tt.want {
				t.Errorf("channel = %q, want %q", got, tt.want)
			}
			if len(h.tool.calls) != 0 {
				t.Error("channel must not run the deploy tool")
			}
		})
	}
}

func TestChannelCommand_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing pr", []string{"channel"}},
		{"zero pr", []string{"channel", "--pr", "0"}},
		{"negative pr", []string{"channel", "--pr", "-3", "--branch", "x"}},
		{"no branch available", []string{"channel", "--pr", "3"}},
		{"positional argument", []string{"channel", "--pr", "3", "main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			err := h.run(tt.args...)
			if got := exitCodeFor(err); got != types.ExitUsage {
				t.Errorf("exit code = %d, want %d (err: %v)", got, types.ExitUsage, err)
			}
		})
	}
}
