package gitrun

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandError reports a failed git invocation. It carries the full argument
// list and whatever diagnostic text git wrote to stderr so callers can show
// the user exactly which command broke.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// errOutputCap marks output that grew past the configured byte cap.
var errOutputCap = errors.New("output exceeded byte cap")

// Runner executes git commands against a single repository root. Every
// invocation is bounded by a wall-clock timeout and an output byte cap;
// exceeding either is a failure for that command, never a retry.
type Runner struct {
	// Dir is the working directory for every command, normally the
	// repository root.
	Dir string
	// Timeout bounds each command's wall-clock time. Zero means no limit.
	Timeout time.Duration
	// MaxOutputBytes caps how much stdout a single command may produce.
	// Zero means no cap.
	MaxOutputBytes int
}

// Run executes git with the given arguments and returns its stdout. Failures
// (non-zero exit, timeout, output cap) come back as a *CommandError.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir

	stdout := &cappedBuffer{max: r.MaxOutputBytes}
	stderr := &cappedBuffer{max: r.MaxOutputBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else if stdout.overflowed || stderr.overflowed {
			err = errOutputCap
		}
		return "", &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	if stdout.overflowed {
		return "", &CommandError{Args: args, Err: errOutputCap}
	}

	return stdout.String(), nil
}

// cappedBuffer accumulates writes up to max bytes and fails the producing
// command once the cap is exceeded.
type cappedBuffer struct {
	buf        strings.Builder
	max        int
	overflowed bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.max > 0 && b.buf.Len()+len(p) > b.max {
		b.overflowed = true
		return 0, errOutputCap
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string { return b.buf.String() }
