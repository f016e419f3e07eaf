// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Summary is the reader-facing digest of a successful deploy.
type Summary struct {
	// ExpireTime is the expiry reported for the first site (all sites of a
	// channel deploy share it).
	ExpireTime string
	// URLs lists the preview URLs in site-key order.
	URLs []string
	// Sites lists the site records in site-key order.
	Sites []SiteDeploy
}

// Interpret extracts URLs and expiry from a successful result.
func Interpret(res *SuccessResult) Summary {
	var s Summary
	if res == nil {
		return s
	}
	for _, key := range slices.Sorted(maps.Keys(res.Result)) {
		site := res.Result[key]
		s.Sites = append(s.Sites, site)
		s.URLs = append(s.URLs, site.URL)
	}
	if len(s.Sites) > 0 {
		s.ExpireTime = s.Sites[0].ExpireTime
	}
	return s
}

// HumanExpireTime formats ExpireTime as RFC 1123 in UTC, or returns it
// verbatim when it is not an RFC 3339 timestamp.
func (s Summary) HumanExpireTime() string {
	t, err := time.Parse(time.RFC3339, s.ExpireTime)
	if err != nil {
		return s.ExpireTime
	}
	return t.UTC().Format(time.RFC1123)
}

// Markdown renders the summary as a Markdown report for channel.
func (s Summary) Markdown(channel string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Preview channel `%s`\n\n", channel)
	if len(s.Sites) == 0 {
		sb.WriteString("No sites were deployed.\n")
		return sb.String()
	}

	sb.WriteString("| Site | Target | URL |\n")
	sb.WriteString("|------|--------|-----|\n")
	for _, site := range s.Sites {
		target := site.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", site.Site, target, site.URL)
	}

	fmt.Fprintf(&sb, "\nExpires %s.\n", s.HumanExpireTime())
	return sb.String()
}
