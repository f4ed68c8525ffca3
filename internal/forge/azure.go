package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/repops/repops/internal/cmd"
)

// AzureDevOps implements Forge for Azure Repos using the az CLI with the
// azure-devops extension. Organization and project are detected from the
// git remote of the working directory.
type AzureDevOps struct {
	runner cmd.Runner
}

// NewAzureDevOps returns an Azure DevOps forge running az through r.
func NewAzureDevOps(r cmd.Runner) *AzureDevOps {
	return &AzureDevOps{runner: r}
}

// Name returns "azure-devops"
func (a *AzureDevOps) Name() string {
	return "azure-devops"
}

// Check verifies that az CLI is available and logged in
func (a *AzureDevOps) Check(ctx context.Context) error {
	if err := lookPath("az", "Azure CLI", "https://learn.microsoft.com/cli/azure/install-azure-cli"); err != nil {
		return err
	}

	if _, err := a.runner.Run(ctx, "", "az", "account", "show", "--output", "none"); err != nil {
		if strings.Contains(err.Error(), "az login") {
			return fmt.Errorf("az not authenticated: please run 'az login'")
		}
		return fmt.Errorf("az account check failed: %w", err)
	}
	return nil
}

// CreatePR creates a new PR using az repos pr create
func (a *AzureDevOps) CreatePR(ctx context.Context, dir string, params CreatePRParams) (*CreatePRResult, error) {
	args := []string{"repos", "pr", "create",
		"--title", params.Title,
		"--description", params.Body,
		"--output", "json",
	}
	if params.Base != "" {
		args = append(args, "--target-branch", params.Base)
	}
	if params.Head != "" {
		args = append(args, "--source-branch", params.Head)
	}
	if params.Draft {
		args = append(args, "--draft", "true")
	}

	out, err := a.runner.Run(ctx, dir, "az", args...)
	if err != nil {
		return nil, fmt.Errorf("az repos pr create failed: %w", err)
	}

	var pr struct {
		PullRequestID int `json:"pullRequestId"`
		Repository    struct {
			WebURL string `json:"webUrl"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(out, &pr); err != nil {
		return nil, fmt.Errorf("%w: failed to parse az output: %v", ErrUnexpectedOutput, err)
	}
	if pr.PullRequestID == 0 {
		return nil, fmt.Errorf("%w: az repos pr create returned no pull request id", ErrUnexpectedOutput)
	}

	result := &CreatePRResult{Number: pr.PullRequestID}
	if pr.Repository.WebURL != "" {
		result.URL = fmt.Sprintf("%s/pullrequest/%d", strings.TrimRight(pr.Repository.WebURL, "/"), pr.PullRequestID)
	}
	return result, nil
}
