// Package execrunner runs external commands for the verification pipeline.
// Every command gets an explicit working directory; nothing here touches the
// process-wide cwd.
package execrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProcessError reports a command that exited non-zero or could not start.
type ProcessError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s: exit %d: %v", e.Cmd, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%s: exit %d: %s", e.Cmd, e.ExitCode, stderr)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Runner executes commands synchronously, one at a time, and captures their
// output. Implements verify.Runner.
type Runner struct {
	tracer trace.Tracer
}

// New creates a Runner.
func New() *Runner {
	return &Runner{tracer: otel.Tracer("veripack/execrunner")}
}

// Run executes name with args in dir, waits for completion, and returns the
// captured standard output. Cancelling ctx kills the process.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmdline := name + " " + strings.Join(args, " ")

	ctx, span := r.tracer.Start(ctx, "exec."+name,
		trace.WithAttributes(
			attribute.String("cmd", cmdline),
			attribute.String("dir", dir),
		))
	defer span.End()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		perr := &ProcessError{Cmd: cmdline, ExitCode: exitCode, Stderr: stderr.String(), Err: err}
		span.RecordError(perr)
		span.SetStatus(codes.Error, perr.Error())
		return "", perr
	}
	return stdout.String(), nil
}
