// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"slices"
	"strings"
	"testing"
)

func TestInterpret(t *testing.T) {
	t.Parallel()

	res := &SuccessResult{
		Status: StatusSuccess,
		Result: map[string]SiteDeploy{
			"zeta":  {Site: "zeta", URL: "https://zeta--ch.web.app", ExpireTime: "2024-05-01T10:00:00Z"},
			"alpha": {Site: "alpha", Target: "app", URL: "https://alpha--ch.web.app", ExpireTime: "2024-05-01T10:00:00Z"},
		},
	}

	s := Interpret(res)

	wantURLs := []string{"https://alpha--ch.web.app", "https://zeta--ch.web.app"}
	if !slices.Equal(s.URLs, wantURLs) {
		t.Errorf("URLs = %q, want %q", s.URLs, wantURLs)
	}
	if s.ExpireTime != "2024-05-01T10:00:00Z" {
		t.Errorf("ExpireTime = %q", s.ExpireTime)
	}
	if got := s.HumanExpireTime(); got != "Wed, 01 May 2024 10:00:00 UTC" {
		t.Errorf("HumanExpireTime() = %q", got)
	}
}

func TestInterpret_Nil(t *testing.T) {
	t.Parallel()

	s := Interpret(nil)
	if len(s.Sites) != 0 || s.ExpireTime != "" {
		t.Errorf("Interpret(nil) = %+v, want zero summary", s)
	}
}

func TestSummary_HumanExpireTimeFallsBack(t *testing.T) {
	t.Parallel()

	s := Summary{ExpireTime: "in a week"}
	if got := s.HumanExpireTime(); got != "in a week" {
		t.Errorf("HumanExpireTime() = %q, want verbatim value", got)
	}
}

func TestSummary_Markdown(t *testing.T) {
	t.Parallel()

	s := Interpret(&SuccessResult{
		Status: StatusSuccess,
		Result: map[string]SiteDeploy{
			"site-a": {Site: "site-a", URL: "https://x", ExpireTime: "2020-01-01T00:00:00Z"},
			"site-b": {Site: "site-b", Target: "docs", URL: "https://y", ExpireTime: "2020-01-01T00:00:00Z"},
		},
	})

	md := s.Markdown("pr4-docs")
	for _, want := range []string{
		"# Preview channel `pr4-docs`",
		"| site-a | - | https://x |",
		"| site-b | docs | https://y |",
		"Expires Wed, 01 Jan 2020 00:00:00 UTC.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q:\n%s", want, md)
		}
	}
}

func TestSummary_MarkdownNoSites(t *testing.T) {
	t.Parallel()

	if md := (Summary{}).Markdown("c"); !strings.Contains(md, "No sites were deployed.") {
		t.Errorf("Markdown() = %q", md)
	}
}
