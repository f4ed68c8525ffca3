package hooks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/repops/repops/internal/cmd"
	"github.com/repops/repops/internal/config"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/pipeline"
	"github.com/repops/repops/internal/repository"
)

// Run statuses substituted for {status}.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// shellQuote escapes a string for safe use in shell commands.
// It wraps the value in single quotes and escapes any embedded single quotes.
func shellQuote(s string) string {
	// e.g., "it's" becomes 'it'\''s'
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Context holds the values for placeholder substitution
type Context struct {
	RunID   string
	Trigger string // command that ran (pull, pipeline, ...)
	Status  string // StatusOK or StatusFailed
	Failed  []string

	// Set for per-repository hooks only
	Repo    string
	Path    string
	Branch  string
	Results string // "N/M"
}

// Match is a hook selected to run.
type Match struct {
	Name string
	Hook config.Hook
}

// Select determines which hooks to run. If hookName is given only that hook
// runs, regardless of its "on" list. Otherwise every hook whose "on" list
// contains trigger or "all" runs, in name order.
func Select(hooks map[string]config.Hook, hookName string, noHook bool, trigger string) ([]Match, error) {
	if noHook {
		return nil, nil
	}

	if hookName != "" {
		hook, exists := hooks[hookName]
		if !exists {
			return nil, fmt.Errorf("unknown hook %q", hookName)
		}
		return []Match{{Name: hookName, Hook: hook}}, nil
	}

	var matches []Match
	for name, hook := range hooks {
		if slices.Contains(hook.On, "all") || slices.Contains(hook.On, trigger) {
			matches = append(matches, Match{Name: name, Hook: hook})
		}
	}
	slices.SortFunc(matches, func(a, b Match) int { return strings.Compare(a.Name, b.Name) })
	return matches, nil
}

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values
// from c. {failed} expands to one quoted word per failed repository.
func SubstitutePlaceholders(command string, c Context) string {
	failed := make([]string, len(c.Failed))
	for i, f := range c.Failed {
		failed[i] = shellQuote(f)
	}

	r := strings.NewReplacer(
		"{run-id}", shellQuote(c.RunID),
		"{trigger}", shellQuote(c.Trigger),
		"{status}", shellQuote(c.Status),
		"{failed}", strings.Join(failed, " "),
		"{repo}", shellQuote(c.Repo),
		"{path}", shellQuote(c.Path),
		"{branch}", shellQuote(c.Branch),
		"{results}", shellQuote(c.Results),
	)
	return r.Replace(command)
}

// RunForReport runs the matched hooks for a finished run. Run-level hooks
// run once; per-repository hooks run in each repository of the run.
// Failures are logged as warnings.
func RunForReport(ctx context.Context, r cmd.Runner, matches []Match, trigger string, rep *pipeline.Report, repos []*repository.Repository) {
	if len(matches) == 0 {
		return
	}

	base := Context{RunID: rep.RunID, Trigger: trigger, Status: StatusOK}
	for _, rr := range rep.Repositories {
		if rr.Failed() {
			base.Failed = append(base.Failed, rr.Name)
		}
	}
	if len(base.Failed) > 0 {
		base.Status = StatusFailed
	}

	byName := make(map[string]*repository.Repository, len(repos))
	for _, repo := range repos {
		byName[repo.Name] = repo
	}

	for _, m := range matches {
		if !m.Hook.PerRepo {
			runHook(ctx, r, m, base, "")
			continue
		}
		for _, rr := range rep.Repositories {
			repo, ok := byName[rr.Name]
			if !ok {
				continue
			}
			c := base
			c.Repo, c.Path, c.Branch = repo.Name, repo.LocalPath, repo.DefaultBranch
			c.Results = fmt.Sprintf("%d/%d", rr.Succeeded(), len(rr.Results))
			c.Status = StatusOK
			if rr.Failed() {
				c.Status = StatusFailed
			}
			runHook(ctx, r, m, c, repo.LocalPath)
		}
	}
}

// runHook executes a single hook with variable substitution.
func runHook(ctx context.Context, r cmd.Runner, m Match, c Context, dir string) {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(m.Hook.Command, c)

	if c.Repo != "" {
		l.Printf("Running hook '%s' for %s...\n", m.Name, c.Repo)
	} else {
		l.Printf("Running hook '%s'...\n", m.Name)
	}

	out, err := r.Run(ctx, dir, "sh", "-c", command)
	if s := strings.TrimSpace(string(out)); s != "" {
		l.Println(s)
	}
	if err != nil {
		l.Warnf("hook %q failed: %v", m.Name, err)
		return
	}
	if m.Hook.Description != "" {
		l.Printf("  ✓ %s\n", m.Hook.Description)
	}
}
