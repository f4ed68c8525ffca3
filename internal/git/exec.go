package git

import (
	"context"
	"strings"

	"github.com/repops/repops/internal/cmd"
)

// Client runs git commands inside repository directories.
type Client struct {
	runner cmd.Runner
}

// New returns a Client that runs git through r.
func New(r cmd.Runner) *Client {
	return &Client{runner: r}
}

// run executes git in dir.
func (g *Client) run(ctx context.Context, dir string, args ...string) error {
	_, err := g.runner.Run(ctx, dir, "git", args...)
	return err
}

// output executes git in dir and returns trimmed stdout.
func (g *Client) output(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := g.runner.Run(ctx, dir, "git", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Run executes an arbitrary git command in dir.
func (g *Client) Run(ctx context.Context, dir string, args ...string) error {
	return g.run(ctx, dir, args...)
}
