// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/chandeploy/chandeploy/internal/process"
	"github.com/chandeploy/chandeploy/pkg/types"
)

type (
	// Deployer runs channel deploys through a process.Runner.
	// The zero value is not usable; create one with NewDeployer.
	Deployer struct {
		runner  process.Runner
		env     process.EnvBuilder
		environ func() []string
		logger  *log.Logger
		stderr  io.Writer
		runID   func() string
	}

	// Option configures a Deployer.
	Option func(*Deployer)
)

// NewDeployer creates a Deployer that runs the real tool with a snapshot of
// the current environment. Options replace individual collaborators.
func NewDeployer(opts ...Option) *Deployer {
	d := &Deployer{
		runner:  process.NewExecRunner(),
		env:     process.NewDefaultEnvBuilder(),
		environ: process.Snapshot,
		logger:  log.Default(),
		stderr:  os.Stderr,
		runID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithRunner sets the process runner.
func WithRunner(r process.Runner) Option {
	return func(d *Deployer) { d.runner = r }
}

// WithEnvBuilder sets the child environment builder.
func WithEnvBuilder(b process.EnvBuilder) Option {
	return func(d *Deployer) { d.env = b }
}

// WithEnviron sets the base environment source. The function is called once per deploy.
func WithEnviron(environ func() []string) Option {
	return func(d *Deployer) { d.environ = environ }
}

// WithBaseEnv fixes the base environment to a copy of env.
func WithBaseEnv(env []string) Option {
	base := append([]string(nil), env...)
	return WithEnviron(func() []string { return base })
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Deployer) { d.logger = l }
}

// WithStderr sets where the tool's stderr is forwarded.
func WithStderr(w io.Writer) Option {
	return func(d *Deployer) { d.stderr = w }
}

// WithRunIDFunc sets the generator for the per-deploy id attached to log records.
func WithRunIDFunc(fn func() string) Option {
	return func(d *Deployer) { d.runID = fn }
}

// Invocation returns the child process description for a deploy without running it.
// Stdout is left unset.
func (d *Deployer) Invocation(tool, credentials types.FilesystemPath, cfg DeployConfig) process.Invocation {
	return process.Invocation{
		Path:   string(tool),
		Args:   BuildArgs(cfg),
		Env:    d.env.Build(d.environ(), map[string]string{CredentialsEnvVar: string(credentials)}),
		Stderr: d.stderr,
	}
}

// Deploy runs the deploy tool and decodes its result.
//
// When the tool cannot be started or exits non-zero, the captured stdout and
// then the failure message are logged, and the runner's error is returned
// unchanged. When it exits zero, stdout is decoded with DecodeResult. A result
// with status "error" is returned as a value, not as an error; use Result.Err.
func (d *Deployer) Deploy(ctx context.Context, tool, credentials types.FilesystemPath, cfg DeployConfig) (*Result, error) {
	if err := tool.Validate(); err != nil {
		return nil, fmt.Errorf("deploy tool: %w", err)
	}
	if err := credentials.Validate(); err != nil {
		return nil, fmt.Errorf("credentials file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := d.logger.With("run", d.runID(), "channel", cfg.ChannelID)
	if cfg.Expires != "" {
		logger.Debug("expires is not forwarded to the deploy tool", "expires", cfg.Expires)
	}

	var stdout ChunkRecorder
	inv := d.Invocation(tool, credentials, cfg)
	inv.Stdout = &stdout

	logger.Debug("running deploy tool", "path", inv.Path, "args", inv.Args)
	if err := d.runner.Run(ctx, inv); err != nil {
		logger.Info("deploy tool output", "stdout", string(stdout.Bytes()))
		logger.Error("deploy tool failed", "err", err.Error())
		return nil, err
	}

	result, err := DecodeResult(stdout.Bytes())
	if err != nil {
		logger.Debug("undecodable deploy tool output", "bytes", stdout.Len(), "writes", stdout.Chunks())
		return nil, err
	}

	logger.Debug("deploy tool finished", "status", result.Status)
	return result, nil
}
