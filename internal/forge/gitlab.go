package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/repops/repops/internal/cmd"
)

// GitLab implements Forge for GitLab repositories using the glab CLI.
type GitLab struct {
	runner cmd.Runner
}

// NewGitLab returns a GitLab forge running glab through r.
func NewGitLab(r cmd.Runner) *GitLab {
	return &GitLab{runner: r}
}

// Name returns "gitlab"
func (g *GitLab) Name() string {
	return "gitlab"
}

// Check verifies that glab CLI is available and authenticated
func (g *GitLab) Check(ctx context.Context) error {
	if err := lookPath("glab", "GitLab CLI", "https://gitlab.com/gitlab-org/cli"); err != nil {
		return err
	}

	if _, err := g.runner.Run(ctx, "", "glab", "auth", "status"); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "not logged") || strings.Contains(errMsg, "no token") {
			return fmt.Errorf("glab not authenticated: please run 'glab auth login'")
		}
		return fmt.Errorf("glab auth check failed: %w", err)
	}
	return nil
}

// CreatePR creates a new MR using glab CLI
func (g *GitLab) CreatePR(ctx context.Context, dir string, params CreatePRParams) (*CreatePRResult, error) {
	args := []string{"mr", "create",
		"--title", params.Title,
		"--description", params.Body,
		"--yes", // skip interactive confirmation
	}
	if params.Base != "" {
		args = append(args, "--target-branch", params.Base)
	}
	if params.Head != "" {
		args = append(args, "--source-branch", params.Head)
	}
	if params.Draft {
		args = append(args, "--draft")
	}

	out, err := g.runner.Run(ctx, dir, "glab", args...)
	if err != nil {
		return nil, fmt.Errorf("glab mr create failed: %w", err)
	}

	// glab prints progress lines followed by the MR URL
	mrURL := lastURL(out)
	if mrURL == "" {
		return nil, fmt.Errorf("%w: glab mr create returned no URL", ErrUnexpectedOutput)
	}
	return &CreatePRResult{Number: numberFromURL(mrURL), URL: mrURL}, nil
}
