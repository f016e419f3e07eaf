// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/chandeploy/chandeploy/pkg/types"
)

// ErrToolNotFound is returned by LookPath when the tool cannot be resolved.
var ErrToolNotFound = errors.New("tool not found")

type (
	// Invocation describes a single child process execution.
	Invocation struct {
		// Path is the executable to run. Bare names are resolved via PATH by os/exec.
		Path string
		// Args are the arguments passed after the executable name.
		Args []string
		// Env is the complete child environment as KEY=VALUE entries.
		// A nil Env inherits the parent environment (os/exec semantics).
		Env []string
		// Dir is the working directory. Empty means the caller's directory.
		Dir string
		// Stdout receives the child's standard output.
		Stdout io.Writer
		// Stderr receives the child's standard error.
		Stderr io.Writer
	}

	// Runner executes an Invocation and blocks until the child exits.
	// A nil error means the child exited with status 0.
	Runner interface {
		Run(ctx context.Context, inv Invocation) error
	}

	// RunnerFunc adapts an ordinary function to the Runner interface.
	RunnerFunc func(ctx context.Context, inv Invocation) error

	// ExecRunner runs invocations with os/exec.
	ExecRunner struct{}

	// ExitError reports a child process that ran and exited with a non-zero status.
	ExitError struct {
		Code types.ExitCode
		Err  error
	}
)

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, inv Invocation) error {
	return f(ctx, inv)
}

// Run starts the executable and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Env = inv.Env
	cmd.Dir = inv.Dir
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	return classifyRunError(inv.Path, cmd.Run())
}

// classifyRunError separates "ran and failed" from "could not run at all".
func classifyRunError(path string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Code: types.ExitCode(exitErr.ExitCode()).OrFailure(),
			Err:  err,
		}
	}

	return fmt.Errorf("failed to start %s: %w", filepath.Base(path), err)
}

// Error returns the underlying exit message (e.g. "exit status 2").
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying *exec.ExitError, if any.
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeOf extracts the child's exit code from err.
// It reports false when err did not come from a child that ran to completion.
func ExitCodeOf(err error) (types.ExitCode, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// LookPath resolves a tool name to an executable path.
// Paths containing a separator are checked as-is; bare names are searched in PATH.
func LookPath(name types.FilesystemPath) (types.FilesystemPath, error) {
	if err := name.Validate(); err != nil {
		return "", err
	}

	resolved, err := exec.LookPath(string(name))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrToolNotFound, name, err)
	}
	return types.FilesystemPath(resolved), nil
}
