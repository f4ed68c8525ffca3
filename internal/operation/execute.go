package operation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/repops/repops/internal/cmd"
	"github.com/repops/repops/internal/forge"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/repository"
)

var (
	errUnsupportedLanguage = errors.New("unsupported language")
	errDetachedHead        = errors.New("not on a branch")
)

// Execute runs the operation against repo. It does not check Supports;
// callers (normally the pipeline) do that once beforehand.
//
// It returns false with a nil error for expected failures and an error only
// when a command could not be started or ctx was cancelled.
func (o *Op) Execute(ctx context.Context, repo *repository.Repository) (bool, error) {
	var err error
	switch o.kind {
	case KindPull:
		err = o.git().Pull(ctx, repo.LocalPath, o.env.remote(), repo.DefaultBranch)
	case KindCreateBranch:
		err = o.createBranch(ctx, repo)
	case KindLint:
		err = o.lint(ctx, repo)
	case KindBuild:
		err = o.build(ctx, repo)
	case KindUnitTest:
		err = o.unitTest(ctx, repo)
	case KindCreatePullRequest:
		err = o.createPullRequest(ctx, repo)
	default:
		return false, fmt.Errorf("unknown operation %v", o.kind)
	}
	return o.result(ctx, repo, err)
}

// result maps err to the (success, error) pair of Execute.
func (o *Op) result(ctx context.Context, repo *repository.Repository, err error) (bool, error) {
	l := log.FromContext(ctx)
	if err == nil {
		l.Debug("operation succeeded", "repo", repo.Name, "op", o.Name())
		return true, nil
	}
	if exitErr, ok := cmd.IsExitError(err); ok {
		l.Errorf("%s: %s failed: %s", repo.Name, o.Name(), exitErr.Error())
		return false, nil
	}
	if errors.Is(err, forge.ErrUnexpectedOutput) ||
		errors.Is(err, errUnsupportedLanguage) ||
		errors.Is(err, errDetachedHead) {
		l.Errorf("%s: %s failed: %v", repo.Name, o.Name(), err)
		return false, nil
	}
	return false, err
}

func (o *Op) run(ctx context.Context, repo *repository.Repository, name string, args ...string) error {
	out, err := o.env.Runner.Run(ctx, repo.LocalPath, name, args...)
	if err != nil {
		return err
	}
	if s := strings.TrimSpace(string(out)); s != "" {
		log.FromContext(ctx).Debug("command output", "repo", repo.Name, "cmd", name, "output", s)
	}
	return nil
}

func (o *Op) createBranch(ctx context.Context, repo *repository.Repository) error {
	g := o.git()
	if err := g.Checkout(ctx, repo.LocalPath, repo.DefaultBranch); err != nil {
		return err
	}
	return g.CreateBranch(ctx, repo.LocalPath, o.branch)
}

func (o *Op) lint(ctx context.Context, repo *repository.Repository) error {
	switch o.language(repo) {
	case Python:
		if o.fix {
			return o.run(ctx, repo, "autopep8", "--in-place", "--recursive", repo.LocalPath)
		}
		return o.run(ctx, repo, "flake8", repo.LocalPath)
	case JavaScript, TypeScript:
		if o.fix {
			return o.run(ctx, repo, "npm", "run", "lint", "--", "--fix")
		}
		return o.run(ctx, repo, "npm", "run", "lint")
	default:
		return fmt.Errorf("%w %q", errUnsupportedLanguage, repo.Language)
	}
}

func (o *Op) build(ctx context.Context, repo *repository.Repository) error {
	if err := o.run(ctx, repo, "npm", "install"); err != nil {
		return err
	}
	return o.run(ctx, repo, "npm", "run", "build")
}

func (o *Op) unitTest(ctx context.Context, repo *repository.Repository) error {
	path := o.testPath
	if path == "" {
		path = filepath.Join(repo.LocalPath, "tests")
	}
	return o.run(ctx, repo, "pytest", path, "-v")
}

func (o *Op) createPullRequest(ctx context.Context, repo *repository.Repository) error {
	g := o.git()
	dir := repo.LocalPath

	branch, err := g.CurrentBranch(ctx, dir)
	if err != nil {
		return err
	}
	if branch == "" {
		return errDetachedHead
	}

	dirty, err := g.HasChanges(ctx, dir)
	if err != nil {
		return err
	}
	if dirty {
		if err := g.AddAll(ctx, dir); err != nil {
			return err
		}
		if err := g.Commit(ctx, dir, o.pr.Title); err != nil {
			return err
		}
	}

	if err := g.Push(ctx, dir, o.env.remote(), branch); err != nil {
		return err
	}

	f, err := forge.ForServer(repo.ServerType, o.env.Runner)
	if err != nil {
		return err
	}
	base := o.pr.Base
	if base == "" {
		base = repo.DefaultBranch
	}
	pr, err := f.CreatePR(ctx, dir, forge.CreatePRParams{
		Title: o.pr.Title,
		Body:  o.pr.Description,
		Base:  base,
		Head:  branch,
		Draft: o.pr.Draft,
	})
	if err != nil {
		return err
	}

	log.FromContext(ctx).Debug("pull request created", "repo", repo.Name, "url", pr.URL)
	if o.pr.OnCreated != nil {
		o.pr.OnCreated(repo, pr)
	}
	return nil
}
