// Package hostexec runs commands on the host.
//
// Commands run in one of two modes: captured, where stdout and stderr are
// collected into bounded buffers, and attached, where the child inherits the
// caller's terminal until it exits.
package hostexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxOutputBytes caps captured stdout and stderr per command.
const MaxOutputBytes = 10 * 1024 * 1024

// ErrOutputTooLarge is returned when a captured command writes more than MaxOutputBytes.
var ErrOutputTooLarge = errors.New("command output exceeded buffer limit")

// Runner executes host commands.
type Runner interface {
	// Output runs a command and returns its trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// Attach runs a command with the process's stdin, stdout and stderr.
	Attach(ctx context.Context, name string, args ...string) error
}

// ExitError describes a command that ran and failed.
type ExitError struct {
	Name   string
	Args   []string
	Stderr string
	Code   int
	Err    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s %s exited with code %d", e.Name, strings.Join(e.Args, " "), e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Local runs commands on this machine.
type Local struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewLocal returns a Local runner wired to the process's standard streams.
func NewLocal() *Local {
	return &Local{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (l *Local) Output(ctx context.Context, name string, args ...string) (string, error) {
	log.Debug().Str("cmd", name).Strs("args", args).Msg("exec")

	cmd := exec.CommandContext(ctx, name, args...)
	stdout := &boundedBuffer{limit: MaxOutputBytes}
	stderr := &boundedBuffer{limit: MaxOutputBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if stdout.overflow || stderr.overflow {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), ErrOutputTooLarge)
	}
	if err != nil {
		return strings.TrimSpace(stdout.String()), wrapRunError(name, args, stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (l *Local) Attach(ctx context.Context, name string, args ...string) error {
	log.Debug().Str("cmd", name).Strs("args", args).Msg("attach")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Run(); err != nil {
		return wrapRunError(name, args, "", err)
	}
	return nil
}

func wrapRunError(name string, args []string, stderr string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Name:   name,
			Args:   args,
			Stderr: strings.TrimSpace(stderr),
			Code:   exitErr.ExitCode(),
			Err:    err,
		}
	}
	// exec.ErrNotFound and friends: the command never started
	return fmt.Errorf("%s: %w", name, err)
}

// Func adapts a function to Runner. attached tells the function which mode
// the caller asked for; its output is ignored for attached runs.
type Func func(ctx context.Context, attached bool, name string, args ...string) (string, error)

func (f Func) Output(ctx context.Context, name string, args ...string) (string, error) {
	return f(ctx, false, name, args...)
}

func (f Func) Attach(ctx context.Context, name string, args ...string) error {
	_, err := f(ctx, true, name, args...)
	return err
}

type boundedBuffer struct {
	buf      strings.Builder
	limit    int
	overflow bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if b.buf.Len()+len(p) > b.limit {
		b.overflow = true
		b.buf.Write(p[:b.limit-b.buf.Len()])
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *boundedBuffer) String() string {
	return b.buf.String()
}
