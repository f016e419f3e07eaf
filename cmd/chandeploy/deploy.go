// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/chandeploy/chandeploy/internal/config"
	"github.com/chandeploy/chandeploy/internal/hosting"
	"github.com/chandeploy/chandeploy/internal/issue"
	"github.com/chandeploy/chandeploy/internal/process"
	"github.com/chandeploy/chandeploy/pkg/types"
)

// ServiceAccountEnvVar holds inline service account JSON when no key file is configured.
const ServiceAccountEnvVar = "FIREBASE_SERVICE_ACCOUNT"

type (
	// deployOptions captures the deploy flags. Empty values defer to the config.
	deployOptions struct {
		channel         string
		project         string
		expires         string
		credentials     string
		credentialsJSON string
		firebase        string
		output          string
		dryRun          bool
		pr              prOptions
	}

	// prOptions derives a channel id from a pull request.
	prOptions struct {
		number int
		branch string
	}

	// credentialsSource is the resolved service account input. Exactly one of
	// path and inline is set.
	credentialsSource struct {
		path   types.FilesystemPath
		inline string
	}
)

func newDeployCommand(app *App, root *rootOptions) *cobra.Command {
	opts := &deployOptions{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the current project to a preview channel",
		Long: `Deploy the current project to a Firebase Hosting preview channel.

The channel comes from --channel, then channel_id in the config (or
CHANDEPLOY_CHANNEL_ID), then is derived from --pr and the current branch.

Credentials come from --credentials, then --credentials-json, then
credentials_file in the config, then the ` + ServiceAccountEnvVar + ` variable.

Exit status is 0 on success, 1 when the deploy failed or its output could not
be decoded, the deploy tool's own status when it exits non-zero, and 2 for
usage errors.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			return runDeploy(cmd.Context(), app, s, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.channel, "channel", "c", "", "preview channel id")
	f.StringVarP(&opts.project, "project", "p", "", "Firebase project id (default: the tool's active project)")
	f.StringVar(&opts.expires, "expires", "", "channel lifetime; accepted for compatibility and not sent to the tool")
	f.StringVar(&opts.credentials, "credentials", "", "service account key file")
	f.StringVar(&opts.credentialsJSON, "credentials-json", "", "service account key contents (default $"+ServiceAccountEnvVar+")")
	f.StringVar(&opts.firebase, "firebase", "", "firebase CLI executable (default: firebase_path from config)")
	f.StringVarP(&opts.output, "output", "o", "", "output format: text, json, yaml, markdown")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the deploy command instead of running it")
	f.IntVar(&opts.pr.number, "pr", 0, "pull request number used to derive the channel id")
	f.StringVar(&opts.pr.branch, "branch", "", "pull request branch (default: current Git branch)")

	return cmd
}

func runDeploy(ctx context.Context, app *App, s *session, opts *deployOptions) error {
	if opts.credentials != "" && opts.credentialsJSON != "" {
		return newUsageError(errors.New("--credentials and --credentials-json are mutually exclusive"))
	}

	output := config.OutputFormat(pick(opts.output, s.cfg.Output.String()))
	if err := output.Validate(); err != nil {
		return newUsageError(err)
	}

	channel, err := resolveChannel(app, s, pick(opts.channel, s.cfg.ChannelID), opts.pr)
	if err != nil {
		return err
	}

	deployCfg := hosting.DeployConfig{
		ChannelID: channel,
		ProjectID: pick(opts.project, s.cfg.ProjectID),
		Expires:   pick(opts.expires, s.cfg.Expires),
	}
	if err := deployCfg.Validate(); err != nil {
		return newUsageError(app.fail(s, err, issue.ChannelRequiredId))
	}

	creds, err := resolveCredentials(app, s, opts)
	if err != nil {
		return err
	}

	tool := types.FilesystemPath(pick(opts.firebase, s.cfg.FirebasePath.String()))
	deployer := app.newDeployer(s.logger)

	if opts.dryRun {
		credPath := creds.path
		if creds.inline != "" {
			credPath = "<inline credentials>"
		}
		return renderDryRun(app.stdout, deployer.Invocation(tool, credPath, deployCfg))
	}

	resolved, err := app.lookPath(tool)
	if err != nil {
		ae := issue.NewErrorContext().
			WithOperation("resolve deploy tool").
			WithResource(tool.String()).
			WithSuggestion("Install firebase-tools or pass --firebase").
			WithIssue(issue.DeployToolNotFoundId).
			Wrap(err).
			Build()
		return app.fail(s, ae, issue.DeployToolNotFoundId)
	}

	credPath, cleanup, err := materializeCredentials(app, s, creds)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			s.logger.Warn("failed to remove credentials file", "err", err)
		}
	}()

	result, err := deployer.Deploy(ctx, resolved, credPath, deployCfg)
	if err != nil {
		code, issueID := classifyDeployError(err)
		return &ExitError{Code: code, Err: app.fail(s, err, issueID)}
	}

	if err := renderResult(app.stdout, output, channel, result, app.markdownStyle); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	if !result.IsSuccess() {
		return &ExitError{Code: types.ExitFailure, Err: app.fail(s, result.Err(), issue.DeployFailedId)}
	}
	return nil
}

// resolveChannel returns explicit when set and otherwise derives the id from
// the pull request. The id is sanitized with a warning when it contains
// characters the hosting service rejects.
func resolveChannel(app *App, s *session, explicit string, pr prOptions) (string, error) {
	channel := explicit

	if channel == "" && pr.number != 0 {
		derived, err := deriveChannel(app, s, pr)
		if err != nil {
			return "", err
		}
		channel = derived
	}

	if channel == "" {
		ae := issue.NewErrorContext().
			WithOperation("resolve channel").
			WithSuggestion("Pass --channel or --pr").
			WithIssue(issue.ChannelRequiredId).
			Wrap(errors.New("no channel id given")).
			Build()
		return "", newUsageError(app.fail(s, ae, issue.ChannelRequiredId))
	}

	if corrected, changed := hosting.SanitizeChannelID(channel); changed {
		s.logger.Warn("channel id contains invalid characters", "original", channel, "corrected", corrected)
		channel = corrected
	}
	return channel, nil
}

// deriveChannel builds pr<number>-<branch>, reading the branch from Git when
// it is not given explicitly.
func deriveChannel(app *App, s *session, pr prOptions) (string, error) {
	if pr.number < 0 {
		return "", newUsageError(fmt.Errorf("--pr must be positive, got %d", pr.number))
	}

	branch := pr.branch
	if branch == "" {
		dir, err := app.getwd()
		if err == nil {
			branch, err = app.Branch.CurrentBranch(dir)
		}
		if err != nil {
			ae := issue.NewErrorContext().
				WithOperation("determine pull request branch").
				WithSuggestion("Pass --branch").
				WithIssue(issue.BranchUnavailableId).
				Wrap(err).
				Build()
			return "", newUsageError(app.fail(s, ae, issue.BranchUnavailableId))
		}
		s.logger.Debug("using current branch", "branch", branch)
	}

	return hosting.PullRequestChannelID(pr.number, branch), nil
}

// resolveCredentials picks the service account input. Explicit flags win over
// config, and a key file wins over inline JSON from the environment.
func resolveCredentials(app *App, s *session, opts *deployOptions) (credentialsSource, error) {
	switch {
	case opts.credentials != "":
		return credentialsSource{path: types.FilesystemPath(opts.credentials)}, nil
	case opts.credentialsJSON != "":
		return credentialsSource{inline: opts.credentialsJSON}, nil
	case s.cfg.CredentialsFile != "":
		return credentialsSource{path: s.cfg.CredentialsFile}, nil
	}
	if inline, ok := app.lookupEnv(ServiceAccountEnvVar); ok && inline != "" {
		return credentialsSource{inline: inline}, nil
	}

	ae := issue.NewErrorContext().
		WithOperation("resolve credentials").
		WithSuggestion("Pass --credentials or set " + ServiceAccountEnvVar).
		WithIssue(issue.CredentialsNotFoundId).
		Wrap(errors.New("no service account credentials given")).
		Build()
	return credentialsSource{}, newUsageError(app.fail(s, ae, issue.CredentialsNotFoundId))
}

// materializeCredentials returns a key file path for the deploy tool, writing
// inline JSON to a private temporary file. cleanup is always non-nil.
func materializeCredentials(app *App, s *session, creds credentialsSource) (types.FilesystemPath, func() error, error) {
	noop := func() error { return nil }

	if creds.inline == "" {
		if _, err := os.Stat(creds.path.String()); err != nil {
			ae := issue.NewErrorContext().
				WithOperation("read credentials").
				WithResource(creds.path.String()).
				WithIssue(issue.CredentialsNotFoundId).
				Wrap(err).
				Build()
			return "", noop, newUsageError(app.fail(s, ae, issue.CredentialsNotFoundId))
		}
		return creds.path, noop, nil
	}

	path, cleanup, err := hosting.WriteCredentialsFile(app.tempDir, creds.inline)
	if err != nil {
		return "", noop, newUsageError(app.fail(s, err, issue.InvalidCredentialsId))
	}
	s.logger.Debug("wrote inline credentials", "path", path)
	return path, cleanup, nil
}

// classifyDeployError maps a deploy failure to an exit code and a catalog entry.
func classifyDeployError(err error) (types.ExitCode, issue.Id) {
	if code, ok := process.ExitCodeOf(err); ok {
		return code, issue.DeployFailedId
	}

	switch {
	case errors.Is(err, hosting.ErrMalformedResult):
		return types.ExitFailure, issue.MalformedOutputId
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return types.ExitFailure, issue.DeployToolNotFoundId
	case errors.Is(err, hosting.ErrInvalidDeployConfig), errors.Is(err, types.ErrInvalidFilesystemPath):
		return types.ExitUsage, issue.ChannelRequiredId
	default:
		return types.ExitFailure, issue.DeployFailedId
	}
}

// pick returns flagValue when set and fallback otherwise.
func pick(flagValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	return fallback
}
