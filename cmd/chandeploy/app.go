// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chandeploy/chandeploy/internal/config"
	"github.com/chandeploy/chandeploy/internal/gitref"
	"github.com/chandeploy/chandeploy/internal/hosting"
	"github.com/chandeploy/chandeploy/internal/issue"
	"github.com/chandeploy/chandeploy/internal/process"
	"github.com/chandeploy/chandeploy/pkg/types"
)

// defaultMarkdownStyle lets glamour pick dark, light or plain output from the terminal.
const defaultMarkdownStyle = "auto"

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App and reaches the outside
	// world (config files, child processes, Git, environment) only through it.
	App struct {
		Config ConfigProvider
		Runner process.Runner
		Branch BranchResolver

		environ       func() []string
		lookupEnv     func(string) (string, bool)
		lookPath      func(types.FilesystemPath) (types.FilesystemPath, error)
		getwd         func() (string, error)
		tempDir       string
		markdownStyle string
		stdout        io.Writer
		stderr        io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Runner process.Runner
		Branch BranchResolver
		// Environ is the base environment for the deploy tool.
		Environ   func() []string
		LookupEnv func(string) (string, bool)
		LookPath  func(types.FilesystemPath) (types.FilesystemPath, error)
		Getwd     func() (string, error)
		// TempDir receives inline credentials files. Empty uses the OS temp dir.
		TempDir string
		// MarkdownStyle is the glamour style for Markdown output and issue help.
		MarkdownStyle string
		Stdout        io.Writer
		Stderr        io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// BranchResolver reports the checked-out branch of the repository containing dir.
	BranchResolver interface {
		CurrentBranch(dir string) (string, error)
	}

	// BranchResolverFunc adapts a function to BranchResolver.
	BranchResolverFunc func(dir string) (string, error)

	// rootOptions holds the persistent flags shared by all commands.
	rootOptions struct {
		configPath string
		logLevel   string
		verbose    bool
	}

	// session is the per-invocation state built from config and global flags.
	session struct {
		cfg     *config.Config
		logger  *log.Logger
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = process.NewExecRunner()
	}
	if deps.Branch == nil {
		deps.Branch = BranchResolverFunc(gitref.CurrentBranch)
	}
	if deps.Environ == nil {
		deps.Environ = process.Snapshot
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.LookPath == nil {
		deps.LookPath = process.LookPath
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.MarkdownStyle == "" {
		deps.MarkdownStyle = defaultMarkdownStyle
	}

	return &App{
		Config:        deps.Config,
		Runner:        deps.Runner,
		Branch:        deps.Branch,
		environ:       deps.Environ,
		lookupEnv:     deps.LookupEnv,
		lookPath:      deps.LookPath,
		getwd:         deps.Getwd,
		tempDir:       deps.TempDir,
		markdownStyle: deps.MarkdownStyle,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
	}
}

// CurrentBranch implements BranchResolver.
func (f BranchResolverFunc) CurrentBranch(dir string) (string, error) {
	return f(dir)
}

// newSession loads configuration and builds the diagnostics logger. The
// --log-level flag takes precedence over the configured level.
func (a *App) newSession(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*session, error) {
	level := config.LogLevel(opts.logLevel)
	if opts.logLevel != "" {
		if err := level.Validate(); err != nil {
			return nil, newUsageError(err)
		}
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(opts.configPath)})
	if err != nil {
		svcErr := newServiceError(err, issue.ConfigLoadFailedId, "")
		renderServiceError(a.stderr, svcErr, a.markdownStyle, log.New(a.stderr))
		return nil, newUsageError(svcErr)
	}

	if opts.logLevel == "" {
		level = cfg.LogLevel
	}
	logger := newLogger(a.stderr, level)
	logger.Debug("configuration loaded", "command", cmd.CommandPath())
	return &session{cfg: cfg, logger: logger, verbose: opts.verbose}, nil
}

// newDeployer builds a deployer that logs through logger and runs the tool with a.Runner.
func (a *App) newDeployer(logger *log.Logger) *hosting.Deployer {
	return hosting.NewDeployer(
		hosting.WithRunner(a.Runner),
		hosting.WithEnviron(a.environ),
		hosting.WithLogger(logger),
		hosting.WithStderr(a.stderr),
	)
}

// fail renders the catalog entry for issueID and returns err wrapped as a
// ServiceError. In verbose mode the full error chain is printed first.
func (a *App) fail(s *session, err error, issueID issue.Id) *ServiceError {
	styled := ""
	if s.verbose {
		styled = fmt.Sprintf("%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, true))
	}
	svcErr := newServiceError(err, issueID, styled)
	renderServiceError(a.stderr, svcErr, a.markdownStyle, s.logger)
	return svcErr
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors include their suggestions and, when verbose, the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// newLogger creates the stderr diagnostics logger at the given level.
func newLogger(w io.Writer, level config.LogLevel) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(level.String()); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
