package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/samber/lo"

	"github.com/repops/repops/internal/cmd"
	"github.com/repops/repops/internal/forge"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/operation"
	"github.com/repops/repops/internal/repository"
)

// Env supplies the probes doctor uses.
type Env struct {
	LookPath   func(file string) (string, error)
	CheckForge func(ctx context.Context, st repository.ServerType) error
}

// NewEnv returns an Env probing PATH and the real forge CLIs through r.
func NewEnv(r cmd.Runner) Env {
	return Env{
		LookPath: exec.LookPath,
		CheckForge: func(ctx context.Context, st repository.ServerType) error {
			f, err := forge.ForServer(st, r)
			if err != nil {
				return err
			}
			return f.Check(ctx)
		},
	}
}

// tool is an executable some repositories need.
type tool struct {
	bin       string
	languages []string
	hint      string
}

var languageTools = []tool{
	{"flake8", []string{operation.Python}, "pip install flake8"},
	{"autopep8", []string{operation.Python}, "pip install autopep8"},
	{"pytest", []string{operation.Python}, "pip install pytest"},
	{"npm", []string{operation.JavaScript, operation.TypeScript}, "install Node.js (https://nodejs.org)"},
}

// Run checks git, the language tools and forge CLIs the repositories need,
// and turns configIssues into config issues.
func Run(ctx context.Context, env Env, repos []*repository.Repository, configIssues []string) Report {
	l := log.FromContext(ctx)
	var rep Report

	rep.Checked++
	if _, err := env.LookPath("git"); err != nil {
		rep.Issues = append(rep.Issues, Issue{
			Key:         "git",
			Description: "git not found in PATH",
			Hint:        "install git (https://git-scm.com)",
			Category:    CategoryTools,
		})
	}

	for _, t := range languageTools {
		users := lo.Filter(repos, func(r *repository.Repository, _ int) bool {
			return r.HasLanguage(t.languages...)
		})
		if len(users) == 0 {
			continue
		}
		rep.Checked++
		l.Debug("checking tool", "tool", t.bin, "repositories", len(users))
		if _, err := env.LookPath(t.bin); err != nil {
			rep.Issues = append(rep.Issues, Issue{
				Key:         t.bin,
				Description: fmt.Sprintf("%s not found in PATH, needed by %s", t.bin, names(users)),
				Hint:        t.hint,
				Category:    CategoryTools,
			})
		}
	}

	inUse := lo.Uniq(lo.Map(repos, func(r *repository.Repository, _ int) repository.ServerType {
		return r.ServerType
	}))
	for _, st := range repository.ServerTypes() {
		if !lo.Contains(inUse, st) {
			continue
		}
		rep.Checked++
		l.Debug("checking forge", "server", st)
		if err := env.CheckForge(ctx, st); err != nil {
			users := lo.Filter(repos, func(r *repository.Repository, _ int) bool { return r.ServerType == st })
			rep.Issues = append(rep.Issues, Issue{
				Key:         st.String(),
				Description: fmt.Sprintf("%v (pull requests for %s will fail)", err, names(users)),
				Category:    CategoryForge,
			})
		}
	}

	rep.Checked++
	for _, msg := range configIssues {
		rep.Issues = append(rep.Issues, Issue{
			Key:         "repos file",
			Description: msg,
			Category:    CategoryConfig,
		})
	}

	return rep
}

// names lists repository names, abbreviated after three.
func names(repos []*repository.Repository) string {
	ns := lo.Map(repos, func(r *repository.Repository, _ int) string { return r.Name })
	if len(ns) > 3 {
		return fmt.Sprintf("%s and %d more", strings.Join(ns[:3], ", "), len(ns)-3)
	}
	return strings.Join(ns, ", ")
}
