// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/syntax"

	"github.com/chandeploy/chandeploy/internal/config"
	"github.com/chandeploy/chandeploy/internal/hosting"
	"github.com/chandeploy/chandeploy/internal/process"
)

// renderResult writes a decoded deploy result in the requested format.
// json and yaml print the tool's own document shape.
func renderResult(w io.Writer, format config.OutputFormat, channel string, res *hosting.Result, markdownStyle string) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res.Value()); err != nil {
			return err
		}
		return enc.Close()
	case config.OutputMarkdown:
		rendered, err := glamour.Render(resultMarkdown(channel, res), markdownStyle)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		_, err = io.WriteString(w, rendered)
		return err
	default:
		_, err := io.WriteString(w, resultText(channel, res))
		return err
	}
}

func resultMarkdown(channel string, res *hosting.Result) string {
	if res.IsSuccess() {
		return hosting.Interpret(res.Success).Markdown(channel)
	}
	return fmt.Sprintf("# Deploy to `%s` failed\n\n%s\n", channel, failureMessage(res))
}

func resultText(channel string, res *hosting.Result) string {
	var sb strings.Builder

	if !res.IsSuccess() {
		fmt.Fprintf(&sb, "%s Deploy to %s failed: %s\n",
			ErrorStyle.Render("✗"), TitleStyle.Render(channel), failureMessage(res))
		return sb.String()
	}

	summary := hosting.Interpret(res.Success)
	fmt.Fprintf(&sb, "%s Deployed to preview channel %s\n", SuccessStyle.Render("✓"), TitleStyle.Render(channel))
	for _, site := range summary.Sites {
		name := site.Site
		if site.Target != "" {
			name += " (" + site.Target + ")"
		}
		fmt.Fprintf(&sb, "  %s  %s\n", SubtitleStyle.Render(name), LinkStyle.Render(site.URL))
	}
	if summary.ExpireTime != "" {
		fmt.Fprintf(&sb, "  %s %s\n", SubtitleStyle.Render("Expires"), summary.HumanExpireTime())
	}
	return sb.String()
}

func failureMessage(res *hosting.Result) string {
	if res.Failure != nil {
		return res.Failure.Error
	}
	return "no result"
}

// renderDryRun prints the deploy command as a shell-quoted line, preceded by
// the credentials assignment the tool would see.
func renderDryRun(w io.Writer, inv process.Invocation) error {
	credentials := process.EnvToMap(inv.Env)[hosting.CredentialsEnvVar]

	words := make([]string, 0, len(inv.Args)+1)
	for _, word := range append([]string{inv.Path}, inv.Args...) {
		quoted, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			return fmt.Errorf("failed to quote %q: %w", word, err)
		}
		words = append(words, quoted)
	}
	quotedCreds, err := syntax.Quote(credentials, syntax.LangBash)
	if err != nil {
		return fmt.Errorf("failed to quote credentials path: %w", err)
	}

	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)
	_, err = fmt.Fprintf(w, "  %s=%s %s\n", hosting.CredentialsEnvVar, quotedCreds, CmdStyle.Render(strings.Join(words, " ")))
	return err
}
