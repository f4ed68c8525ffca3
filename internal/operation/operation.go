package operation

import (
	"fmt"
	"strings"

	"github.com/repops/repops/internal/cmd"
	"github.com/repops/repops/internal/forge"
	"github.com/repops/repops/internal/git"
	"github.com/repops/repops/internal/repository"
)

// Kind identifies an operation.
type Kind int

const (
	KindPull Kind = iota + 1
	KindCreateBranch
	KindLint
	KindBuild
	KindUnitTest
	KindCreatePullRequest
)

func (k Kind) String() string {
	switch k {
	case KindPull:
		return "pull"
	case KindCreateBranch:
		return "create-branch"
	case KindLint:
		return "lint"
	case KindBuild:
		return "build"
	case KindUnitTest:
		return "unit-test"
	case KindCreatePullRequest:
		return "create-pull-request"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Languages accepted by the language-specific kinds.
const (
	Python     = "python"
	JavaScript = "javascript"
	TypeScript = "typescript"
)

// languages lists the languages each kind applies to. Kinds without an
// entry apply to every repository.
var languages = map[Kind][]string{
	KindLint:     {Python, JavaScript, TypeScript},
	KindBuild:    {JavaScript, TypeScript},
	KindUnitTest: {Python},
}

// PRParams configures CreatePullRequest.
type PRParams struct {
	Title       string
	Description string
	// Base overrides the repository's default branch as the PR target.
	Base  string
	Draft bool
	// OnCreated, if set, is called for every PR that was opened.
	OnCreated func(repo *repository.Repository, pr *forge.CreatePRResult)
}

// Env is what operations need to run: a command runner and the git remote
// to pull from and push to.
type Env struct {
	Runner cmd.Runner
	Remote string
}

func (e Env) remote() string {
	if e.Remote == "" {
		return "origin"
	}
	return e.Remote
}

// Op is one operation of a given Kind with its parameters.
type Op struct {
	kind     Kind
	branch   string
	fix      bool
	testPath string
	pr       PRParams
	env      Env
}

// Pull fetches and merges the default branch from the remote.
func (e Env) Pull() *Op {
	return &Op{kind: KindPull, env: e}
}

// CreateBranch checks out the default branch and creates name from it.
func (e Env) CreateBranch(name string) *Op {
	return &Op{kind: KindCreateBranch, branch: name, env: e}
}

// Lint runs the language's linter, or its autofixer when fix is set.
func (e Env) Lint(fix bool) *Op {
	return &Op{kind: KindLint, fix: fix, env: e}
}

// Build installs dependencies and runs the build script.
func (e Env) Build() *Op {
	return &Op{kind: KindBuild, env: e}
}

// UnitTest runs pytest against path, or <repo>/tests when path is empty.
func (e Env) UnitTest(path string) *Op {
	return &Op{kind: KindUnitTest, testPath: path, env: e}
}

// CreatePullRequest commits pending changes, pushes the current branch and
// opens a PR/MR on the repository's forge.
func (e Env) CreatePullRequest(p PRParams) *Op {
	return &Op{kind: KindCreatePullRequest, pr: p, env: e}
}

// Kind returns the operation's kind.
func (o *Op) Kind() Kind {
	return o.kind
}

// Name returns a human-readable name, e.g. "Create Branch: feature/x".
func (o *Op) Name() string {
	switch o.kind {
	case KindPull:
		return "Git Pull"
	case KindCreateBranch:
		return "Create Branch: " + o.branch
	case KindLint:
		if o.fix {
			return "Lint (autofix)"
		}
		return "Lint"
	case KindBuild:
		return "Build"
	case KindUnitTest:
		return "Unit Tests"
	case KindCreatePullRequest:
		return "Pull Request: " + o.pr.Title
	default:
		return o.kind.String()
	}
}

// Languages returns the languages the operation applies to, or nil if it
// applies to every repository.
func (o *Op) Languages() []string {
	return languages[o.kind]
}

// Supports reports whether the operation applies to repo. Language
// comparison ignores case.
func (o *Op) Supports(repo *repository.Repository) bool {
	langs, ok := languages[o.kind]
	if !ok {
		return true
	}
	return repo.HasLanguage(langs...)
}

func (o *Op) git() *git.Client {
	return git.New(o.env.Runner)
}

func (o *Op) language(repo *repository.Repository) string {
	return strings.ToLower(repo.Language)
}
