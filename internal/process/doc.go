// SPDX-License-Identifier: MPL-2.0

// Package process runs external tools as child processes.
//
// Runner is the seam between callers and os/exec: ExecRunner executes a real
// binary, while RunnerFunc lets tests script a fake tool by writing to the
// invocation's Stdout and returning an error. Non-zero exits surface as
// *ExitError so callers can recover the tool's exit code with errors.As.
//
// EnvBuilder composes the child environment from an explicit base (usually a
// snapshot of os.Environ()) and a set of overrides that always win.
package process
