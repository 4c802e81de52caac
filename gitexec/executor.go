/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
)

// Command describes one subprocess invocation.
type Command struct {
	// Dir is the working directory the process is rooted at.
	Dir string

	// Env holds KEY=value entries applied on top of the inherited
	// environment.
	Env []string

	// Argv is the full command line, executable first.
	Argv []string
}

// String renders the fully-qualified command line.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Runner executes commands on the target that owns the workspace.
type Runner interface {
	// Run blocks until the command exits and returns its merged
	// stdout+stderr text. A non-zero exit code is reported as *ExecError.
	Run(ctx context.Context, cmd Command) (string, error)
}

// ExecError reports a command that exited non-zero, together with everything
// it wrote.
type ExecError struct {
	Argv     []string
	ExitCode int
	Output   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s",
		strings.Join(e.Argv, " "), e.ExitCode, strings.TrimSpace(e.Output))
}

// Local runs commands as child processes on the local host.
type Local struct {
	// Sink, when set, receives each fully-qualified command line before it
	// runs, in the build-transcript format.
	Sink io.Writer
}

// Run implements Runner. The subprocess inherits the current environment
// with cmd.Env appended, and its error stream is folded into its output
// stream in emission order. Cancelling the context kills the subprocess.
func (l Local) Run(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Argv) == 0 {
		return "", errors.New("empty command")
	}

	if l.Sink != nil {
		fmt.Fprintf(l.Sink, "\t- Executing: `%s`\n", cmd)
	}
	clog.FromContext(ctx).Debugf("Executing `%s` in %s", cmd, cmd.Dir)

	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	out, err := c.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("running %q: %w", cmd.Argv[0], ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExecError{
				Argv:     cmd.Argv,
				ExitCode: exitErr.ExitCode(),
				Output:   string(out),
			}
		}
		return "", fmt.Errorf("starting %q: %w", cmd.Argv[0], err)
	}

	return string(out), nil
}
