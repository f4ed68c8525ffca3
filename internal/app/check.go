package app

import (
	"context"

	"github.com/repops/repops/internal/config"
	"github.com/repops/repops/internal/git"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/repository"
)

var (
	defaultCheckLocal  = git.CheckLocal
	defaultCheckRemote = git.CheckRemote
)

// CheckOptions tunes availability checks.
type CheckOptions struct {
	// SkipRemote disables contacting the remote.
	SkipRemote bool
}

// Availability is the result of checking one repository.
type Availability struct {
	Name             string   `json:"name"`
	LocalPath        string   `json:"local_path"`
	URL              string   `json:"url"`
	LocalExists      bool     `json:"local_exists"`
	RemoteChecked    bool     `json:"remote_checked"`
	RemoteAccessible bool     `json:"remote_accessible"`
	Errors           []string `json:"errors,omitempty"`
}

// OK reports whether every performed check passed.
func (av Availability) OK() bool {
	return av.LocalExists && (!av.RemoteChecked || av.RemoteAccessible)
}

// CheckRepository verifies that repo's local path is a git repository and,
// unless skipped, that its URL answers a reference listing.
func (a *App) CheckRepository(ctx context.Context, repo *repository.Repository, opts CheckOptions) Availability {
	av := Availability{
		Name:      repo.Name,
		LocalPath: repo.LocalPath,
		URL:       repo.URL,
	}

	if err := a.checkLocal(repo.LocalPath); err != nil {
		av.Errors = append(av.Errors, err.Error())
	} else {
		av.LocalExists = true
	}

	if !opts.SkipRemote {
		av.RemoteChecked = true
		if err := a.checkRemote(ctx, repo.URL); err != nil {
			av.Errors = append(av.Errors, err.Error())
		} else {
			av.RemoteAccessible = true
		}
	}

	log.FromContext(ctx).Debug("checked repository", "repo", repo.Name, "local", av.LocalExists, "remote", av.RemoteAccessible)
	return av
}

// CheckAllRepositories checks every repository in collection order.
// It stops early only if ctx is cancelled.
func (a *App) CheckAllRepositories(ctx context.Context, opts CheckOptions) ([]Availability, error) {
	repos, err := a.AllRepositories()
	if err != nil {
		return nil, err
	}
	return a.CheckRepositories(ctx, repos, opts)
}

// CheckRepositories checks repos in order.
func (a *App) CheckRepositories(ctx context.Context, repos []*repository.Repository, opts CheckOptions) ([]Availability, error) {
	results := make([]Availability, 0, len(repos))
	for _, r := range repos {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, a.CheckRepository(ctx, r, opts))
	}
	return results, nil
}

// Status is the health summary shown by "repops status".
type Status struct {
	Config           config.Info `json:"config"`
	ValidationIssues []string    `json:"validation_issues"`
	Healthy          bool        `json:"is_healthy"`
	Error            string      `json:"error,omitempty"`
}

// Status loads the configuration if needed and reports its health. Load
// failures are part of the status, not returned.
func (a *App) Status() Status {
	if _, err := a.Config(); err != nil {
		return Status{
			Config:           config.Info{Path: a.mgr.Path()},
			ValidationIssues: []string{"Failed to get status: " + err.Error()},
			Error:            err.Error(),
		}
	}
	issues := a.ValidateConfig()
	if issues == nil {
		issues = []string{}
	}
	return Status{
		Config:           a.ConfigInfo(),
		ValidationIssues: issues,
		Healthy:          len(issues) == 0,
	}
}
