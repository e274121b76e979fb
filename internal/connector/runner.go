package connector

import (
	"context"
	"os/exec"
)

// Runner executes the directory query tool and returns its standard output.
type Runner interface {
	Run(ctx context.Context, executable string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as child processes. A failing command returns an
// *exec.ExitError carrying the captured error stream.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, executable string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, executable, args...).Output()
}
