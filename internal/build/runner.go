package build

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Runner executes an external toolchain process. The exit status is the sole
// success signal; stdout and stderr pass through untouched.
type Runner interface {
	Run(ctx context.Context, args []string, env []string) error
}

// ExecRunner runs commands as real child processes.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes args[0] with the remaining arguments and the given
// environment, blocking until the process exits.
func (r *ExecRunner) Run(ctx context.Context, args []string, env []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = env
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}
