// Package exec wraps vendor-tool invocation behind an interface so the
// backends stay testable without hardware.
package exec

import (
	"context"
	"errors"
	"os"
	osexec "os/exec"
)

// Result captures the outcome of one tool invocation.
type Result struct {
	// Output is the combined stdout and stderr.
	Output []byte
	// ExitCode is the tool's exit status, -1 when it did not run.
	ExitCode int
}

// Runner executes an external command. Implementations must honor
// context cancellation.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
	// RunWithEnv runs with extra environment variables appended to the
	// process environment.
	RunWithEnv(ctx context.Context, env []string, name string, args ...string) (Result, error)
}

// NewRunner returns the os/exec backed Runner.
func NewRunner() Runner { return osRunner{} }

type osRunner struct{}

func (osRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return run(ctx, nil, name, args...)
}

func (osRunner) RunWithEnv(ctx context.Context, env []string, name string, args ...string) (Result, error) {
	return run(ctx, env, name, args...)
}

func run(ctx context.Context, env []string, name string, args ...string) (Result, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	out, err := cmd.CombinedOutput()
	res := Result{Output: out, ExitCode: -1}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else if err == nil {
		res.ExitCode = 0
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, err
}
