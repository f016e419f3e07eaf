// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/chandeploy/chandeploy/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	levels := make([]string, 0, len(config.LogLevels()))
	for _, l := range config.LogLevels() {
		levels = append(levels, l.String())
	}

	rootCmd := &cobra.Command{
		Use:   "chandeploy",
		Short: "Deploy to Firebase Hosting preview channels",
		Long: TitleStyle.Render("chandeploy") + SubtitleStyle.Render(" - Firebase Hosting preview channel deploys") + `

chandeploy runs 'firebase hosting:channel:deploy', decodes its JSON result
and reports the preview URLs and expiry.

` + SubtitleStyle.Render("Examples:") + `
  chandeploy deploy --channel my-preview --credentials sa.json
  chandeploy deploy --pr 42 --project acme-web --output markdown
  chandeploy channel --pr 42
  chandeploy config init`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/chandeploy/config.cue)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "diagnostics level: "+strings.Join(levels, ", "))
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "print the full error chain on failure")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newDeployCommand(app, opts))
	rootCmd.AddCommand(newChannelCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI with os.Args and returns the process exit code.
func Run(ctx context.Context) int {
	app := NewApp(Dependencies{})

	err := fang.Execute(
		ctx,
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	return int(exitCodeFor(err))
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run(context.Background()))
}
