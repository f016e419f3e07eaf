// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"regexp"
	"strconv"
)

// pullRequestBranchLimit caps how much of the branch name lands in a derived channel id.
const pullRequestBranchLimit = 20

// invalidChannelChars matches characters the hosting service rejects in channel ids.
var invalidChannelChars = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)

// SanitizeChannelID replaces every character outside [A-Za-z0-9_.-] with '_'.
// The boolean reports whether the id had to be changed.
func SanitizeChannelID(id string) (string, bool) {
	corrected := invalidChannelChars.ReplaceAllString(id, "_")
	return corrected, corrected != id
}

// PullRequestChannelID derives a channel id for a pull request:
// "pr<number>-<first 20 characters of branch>". The result is not sanitized.
func PullRequestChannelID(number int, branch string) string {
	runes := []rune(branch)
	if len(runes) > pullRequestBranchLimit {
		runes = runes[:pullRequestBranchLimit]
	}
	return "pr" + strconv.Itoa(number) + "-" + string(runes)
}
