// Package cmdtest provides a scripted cmd.Runner for tests.
package cmdtest

import (
	"context"
	"strings"
	"sync"

	"github.com/repops/repops/internal/cmd"
)

// Call is one recorded invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String returns the command line without the directory.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Response is what a scripted command returns.
type Response struct {
	Stdout string
	Err    error
}

// Runner records calls and answers them from a script keyed by command line.
// Unscripted commands succeed with empty output.
type Runner struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string]Response
}

// New returns an empty Runner.
func New() *Runner {
	return &Runner{responses: make(map[string]Response)}
}

// On scripts the response for an exact command line, e.g. "git pull origin main".
func (r *Runner) On(cmdline string, resp Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[cmdline] = resp
	return r
}

// Stdout scripts a successful command with the given output.
func (r *Runner) Stdout(cmdline, stdout string) *Runner {
	return r.On(cmdline, Response{Stdout: stdout})
}

// Fail scripts a command that exits non-zero with stderr.
func (r *Runner) Fail(cmdline, stderr string) *Runner {
	name, _, _ := strings.Cut(cmdline, " ")
	return r.On(cmdline, Response{Err: &cmd.ExitError{Name: name, Code: 1, Stderr: stderr}})
}

// Run implements cmd.Runner.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	resp := r.responses[c.String()]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return []byte(resp.Stdout), nil
}

// Calls returns the recorded invocations.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Commands returns the recorded command lines.
func (r *Runner) Commands() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}
