package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/repops/repops/internal/cmd"
)

// GitHub implements Forge for GitHub repositories using the gh CLI.
type GitHub struct {
	runner cmd.Runner
}

// NewGitHub returns a GitHub forge running gh through r.
func NewGitHub(r cmd.Runner) *GitHub {
	return &GitHub{runner: r}
}

// Name returns "github"
func (g *GitHub) Name() string {
	return "github"
}

// Check verifies that gh CLI is available and authenticated
func (g *GitHub) Check(ctx context.Context) error {
	if err := lookPath("gh", "GitHub CLI", "https://cli.github.com"); err != nil {
		return err
	}

	if _, err := g.runner.Run(ctx, "", "gh", "auth", "status"); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "not logged") || strings.Contains(errMsg, "no accounts") {
			return fmt.Errorf("gh not authenticated: please run 'gh auth login'")
		}
		return fmt.Errorf("gh auth check failed: %w", err)
	}
	return nil
}

// CreatePR creates a new PR using gh CLI
func (g *GitHub) CreatePR(ctx context.Context, dir string, params CreatePRParams) (*CreatePRResult, error) {
	args := []string{"pr", "create",
		"--title", params.Title,
		"--body", params.Body,
	}
	if params.Base != "" {
		args = append(args, "--base", params.Base)
	}
	if params.Head != "" {
		args = append(args, "--head", params.Head)
	}
	if params.Draft {
		args = append(args, "--draft")
	}

	out, err := g.runner.Run(ctx, dir, "gh", args...)
	if err != nil {
		return nil, fmt.Errorf("gh pr create failed: %w", err)
	}

	// gh pr create prints the PR URL
	prURL := lastURL(out)
	if prURL == "" {
		return nil, fmt.Errorf("%w: gh pr create returned no URL", ErrUnexpectedOutput)
	}
	return &CreatePRResult{Number: numberFromURL(prURL), URL: prURL}, nil
}
