package pipeline

import (
	"context"

	"github.com/repops/repops/internal/cmd"
)

// dirFailRunner fails every command run in failDir with exit status 1.
type dirFailRunner struct {
	cmd.Runner
	failDir string
}

func (r dirFailRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if dir == r.failDir {
		return nil, &cmd.ExitError{Name: name, Code: 1, Stderr: "fatal: couldn't find remote ref"}
	}
	return r.Runner.Run(ctx, dir, name, args...)
}
