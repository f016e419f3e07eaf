// SPDX-License-Identifier: MPL-2.0

package hosting

import "testing"

func TestSanitizeChannelID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in          string
		want        string
		wantChanged bool
	}{
		{"pr12-feature", "pr12-feature", false},
		{"release_1.2", "release_1.2", false},
		{"pr3-feature/login", "pr3-feature_login", true},
		{"my channel!", "my_channel_", true},
		{"ünïcode", "_n_code", true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, changed := SanitizeChannelID(tt.in)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("SanitizeChannelID(%q) = (%q, %v), want (%q, %v)", tt.in, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestPullRequestChannelID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		number int
		branch string
		want   string
	}{
		{"short branch", 12, "fix-typo", "pr12-fix-typo"},
		{"exactly twenty", 1, "abcdefghijklmnopqrst", "pr1-abcdefghijklmnopqrst"},
		{"truncated", 345, "feature/very-long-branch-name", "pr345-feature/very-long-br"},
		{"empty branch", 9, "", "pr9-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PullRequestChannelID(tt.number, tt.branch); got != tt.want {
				t.Errorf("PullRequestChannelID(%d, %q) = %q, want %q", tt.number, tt.branch, got, tt.want)
			}
		})
	}
}
