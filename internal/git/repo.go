package git

import "context"

// Pull runs git pull <remote> <branch>.
func (g *Client) Pull(ctx context.Context, dir, remote, branch string) error {
	return g.run(ctx, dir, "pull", remote, branch)
}

// Checkout switches to an existing branch.
func (g *Client) Checkout(ctx context.Context, dir, branch string) error {
	return g.run(ctx, dir, "checkout", branch)
}

// CreateBranch creates branch from HEAD and switches to it.
func (g *Client) CreateBranch(ctx context.Context, dir, branch string) error {
	return g.run(ctx, dir, "checkout", "-b", branch)
}

// CurrentBranch returns the checked out branch name.
// It is empty on a detached HEAD.
func (g *Client) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return g.output(ctx, dir, "branch", "--show-current")
}

// HasChanges reports whether the working tree has staged, unstaged or
// untracked changes.
func (g *Client) HasChanges(ctx context.Context, dir string) (bool, error) {
	out, err := g.output(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// AddAll stages every change in dir.
func (g *Client) AddAll(ctx context.Context, dir string) error {
	return g.run(ctx, dir, "add", ".")
}

// Commit records staged changes with message.
func (g *Client) Commit(ctx context.Context, dir, message string) error {
	return g.run(ctx, dir, "commit", "-m", message)
}

// Push pushes branch to remote and sets it as upstream.
func (g *Client) Push(ctx context.Context, dir, remote, branch string) error {
	return g.run(ctx, dir, "push", "-u", remote, branch)
}
