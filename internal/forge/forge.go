package forge

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/repops/repops/internal/cmd"
	"github.com/repops/repops/internal/repository"
)

// ErrUnexpectedOutput is returned when a forge CLI succeeded but its output
// could not be parsed into a CreatePRResult.
var ErrUnexpectedOutput = errors.New("unexpected forge output")

// CreatePRParams contains parameters for creating a PR/MR
type CreatePRParams struct {
	Title string
	Body  string
	Base  string // base branch
	Head  string // head/source branch
	Draft bool
}

// CreatePRResult contains the result of creating a PR/MR
type CreatePRResult struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// Forge represents a git hosting service (GitHub, GitLab, Azure DevOps)
type Forge interface {
	// Name returns the server type the forge serves
	Name() string

	// Check verifies the CLI is installed and authenticated
	Check(ctx context.Context) error

	// CreatePR opens a PR/MR for the repository checked out in dir
	CreatePR(ctx context.Context, dir string, params CreatePRParams) (*CreatePRResult, error)
}

// ForServer returns the Forge for a repository server type.
func ForServer(st repository.ServerType, r cmd.Runner) (Forge, error) {
	switch st {
	case repository.GitHub:
		return NewGitHub(r), nil
	case repository.GitLab:
		return NewGitLab(r), nil
	case repository.AzureDevOps:
		return NewAzureDevOps(r), nil
	default:
		return nil, &repository.InvalidServerTypeError{Value: string(st), Supported: repository.ServerTypes()}
	}
}

// lookPath reports a missing forge CLI with an install hint.
func lookPath(bin, product, url string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%s not found: please install %s (%s)", bin, product, url)
	}
	return nil
}

// lastURL returns the last line of out that looks like a web URL.
func lastURL(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "https://") || strings.HasPrefix(line, "http://") {
			return line
		}
	}
	return ""
}

// numberFromURL extracts the trailing PR/MR number of a web URL
// (e.g. https://github.com/org/repo/pull/123). It returns 0 if none.
func numberFromURL(u string) int {
	u = strings.TrimRight(u, "/")
	n, err := strconv.Atoi(u[strings.LastIndex(u, "/")+1:])
	if err != nil {
		return 0
	}
	return n
}
