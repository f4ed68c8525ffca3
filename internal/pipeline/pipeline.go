// Package pipeline runs an ordered list of steps against repositories,
// stopping a repository's remaining steps at its first failure.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/repository"
)

// Step is one unit of work of a pipeline. operation.Op implements it.
type Step interface {
	Name() string
	Supports(repo *repository.Repository) bool
	Execute(ctx context.Context, repo *repository.Repository) (bool, error)
}

// Event describes a step about to run.
type Event struct {
	Repo  string
	Step  string
	Index int // 1-based position across the whole run
	Total int // repositories × steps
}

// Observer is called before every step. It must not block.
type Observer func(Event)

// Pipeline is a named, ordered list of steps.
type Pipeline struct {
	name     string
	steps    []Step
	observer Observer
}

// New creates a pipeline with the given steps.
func New(name string, steps ...Step) *Pipeline {
	return &Pipeline{name: name, steps: steps}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Add appends a step.
func (p *Pipeline) Add(s Step) *Pipeline {
	p.steps = append(p.steps, s)
	return p
}

// Steps returns the steps in execution order.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Observe registers fn to be called before each step.
func (p *Pipeline) Observe(fn Observer) {
	p.observer = fn
}

// Results maps a repository name to the outcome of each step that ran on it.
type Results map[string][]bool

// Execute runs every step against every repository, in order.
//
// A repository's steps stop at the first false; the next repository starts
// regardless. A step that does not support the repository counts as false.
// If a step returns an error, Execute stops and returns the results gathered
// so far together with the error.
func (p *Pipeline) Execute(ctx context.Context, repos []*repository.Repository) (Results, error) {
	results := make(Results, len(repos))
	_, err := p.run(ctx, repos, results)
	return results, err
}

// Run is Execute producing a Report.
func (p *Pipeline) Run(ctx context.Context, repos []*repository.Repository) (*Report, error) {
	rep := &Report{
		RunID:     uuid.NewString(),
		Pipeline:  p.name,
		StartedAt: time.Now(),
	}
	for _, s := range p.steps {
		rep.Steps = append(rep.Steps, s.Name())
	}

	results := make(Results, len(repos))
	done, err := p.run(ctx, repos, results)
	for _, repo := range repos[:done] {
		rep.Repositories = append(rep.Repositories, RepoResult{Name: repo.Name, Results: results[repo.Name]})
	}
	rep.Duration = time.Since(rep.StartedAt)
	return rep, err
}

// run fills results and returns how many repositories were started.
func (p *Pipeline) run(ctx context.Context, repos []*repository.Repository, results Results) (int, error) {
	l := log.FromContext(ctx)
	total := len(repos) * len(p.steps)
	index := 0

	for i, repo := range repos {
		outcomes := make([]bool, 0, len(p.steps))
		for _, step := range p.steps {
			index++
			if p.observer != nil {
				p.observer(Event{Repo: repo.Name, Step: step.Name(), Index: index, Total: total})
			}

			if !step.Supports(repo) {
				l.Warnf("%s: skipping %s (language %q not supported)", repo.Name, step.Name(), repo.Language)
				outcomes = append(outcomes, false)
				break
			}

			l.Debug("executing", "repo", repo.Name, "op", step.Name())
			ok, err := step.Execute(ctx, repo)
			if err != nil {
				results[repo.Name] = outcomes
				return i + 1, fmt.Errorf("%s: %s: %w", repo.Name, step.Name(), err)
			}
			outcomes = append(outcomes, ok)
			if !ok {
				break
			}
		}
		results[repo.Name] = outcomes
	}
	return len(repos), nil
}
