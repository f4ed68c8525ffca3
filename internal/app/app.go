package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/repops/repops/internal/config"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/repository"
)

// ErrUnknownRepository is matched by *UnknownRepositoryError.
var ErrUnknownRepository = errors.New("unknown repository")

// UnknownRepositoryError reports a repository name that is not configured,
// with close matches if there are any.
type UnknownRepositoryError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownRepositoryError) Error() string {
	msg := fmt.Sprintf("repository '%s' not found", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *UnknownRepositoryError) Is(target error) bool {
	return target == ErrUnknownRepository
}

// App is the repops application.
type App struct {
	mgr         *config.Manager
	checkLocal  func(path string) error
	checkRemote func(ctx context.Context, url string) error
}

// New returns an App for the repos file at path. Nothing is read until the
// first access.
func New(path string) *App {
	return &App{
		mgr:         config.NewManager(path),
		checkLocal:  defaultCheckLocal,
		checkRemote: defaultCheckRemote,
	}
}

// LoadConfig (re)reads the repos file.
func (a *App) LoadConfig(ctx context.Context) (*repository.Collection, error) {
	c, err := a.mgr.Load()
	if err != nil {
		log.FromContext(ctx).Debug("failed to load configuration", "path", a.mgr.Path(), "err", err)
		return nil, err
	}
	log.FromContext(ctx).Debug("loaded configuration", "path", a.mgr.Path(), "repositories", c.Len())
	return c, nil
}

// SaveConfig writes the collection back to the repos file.
func (a *App) SaveConfig(ctx context.Context) error {
	if err := a.mgr.Save(); err != nil {
		return err
	}
	log.FromContext(ctx).Debug("saved configuration", "path", a.mgr.Path())
	return nil
}

// CreateNewConfig replaces the collection with an empty one.
func (a *App) CreateNewConfig() *repository.Collection {
	return a.mgr.CreateNew()
}

// Config returns the collection, loading it on first use.
func (a *App) Config() (*repository.Collection, error) {
	return a.mgr.Collection()
}

// ConfigPath returns the repos file path.
func (a *App) ConfigPath() string {
	return a.mgr.Path()
}

// ValidateConfig returns one message per problem in the loaded collection.
func (a *App) ValidateConfig() []string {
	return a.mgr.Validate()
}

// ConfigInfo summarizes the loaded collection.
func (a *App) ConfigInfo() config.Info {
	return a.mgr.Info()
}

// AddRepository adds (or replaces) a repository. It is not saved.
func (a *App) AddRepository(ctx context.Context, name, url, serverType, localPath, defaultBranch, group, language string) (*repository.Repository, error) {
	r, err := a.mgr.AddRepository(name, url, serverType, localPath, defaultBranch, group, language)
	if err != nil {
		return nil, fmt.Errorf("add repository '%s': %w", name, err)
	}
	log.FromContext(ctx).Debug("added repository", "repo", r.Name, "group", r.Group)
	return r, nil
}

// RemoveRepository removes a repository and reports whether it existed.
// Removing an unknown name is a no-op.
func (a *App) RemoveRepository(ctx context.Context, name string) (bool, error) {
	removed, err := a.mgr.RemoveRepository(name)
	if err != nil || !removed {
		return false, err
	}
	log.FromContext(ctx).Debug("removed repository", "repo", name)
	return true, nil
}

// Repository returns the named repository.
func (a *App) Repository(name string) (*repository.Repository, error) {
	c, err := a.Config()
	if err != nil {
		return nil, err
	}
	r, ok := c.Get(name)
	if !ok {
		return nil, a.unknown(name)
	}
	return r, nil
}

// RepositoriesByGroup returns the members of group in insertion order.
func (a *App) RepositoriesByGroup(group string) ([]*repository.Repository, error) {
	c, err := a.Config()
	if err != nil {
		return nil, err
	}
	return c.ByGroup(group), nil
}

// AllRepositories returns every repository, group by group.
func (a *App) AllRepositories() ([]*repository.Repository, error) {
	c, err := a.Config()
	if err != nil {
		return nil, err
	}
	return c.All(), nil
}

// Groups returns the group names in first-insertion order.
func (a *App) Groups() ([]string, error) {
	c, err := a.Config()
	if err != nil {
		return nil, err
	}
	return c.Groups(), nil
}

// Filter selects repositories for an operation run. Zero fields match
// everything.
type Filter struct {
	Names    []string
	Group    string
	Language string
}

// Select returns the repositories matching f. Names must all exist.
// Language is compared exactly.
func (a *App) Select(f Filter) ([]*repository.Repository, error) {
	c, err := a.Config()
	if err != nil {
		return nil, err
	}

	repos := c.All()
	if len(f.Names) > 0 {
		repos = make([]*repository.Repository, 0, len(f.Names))
		for _, name := range lo.Uniq(f.Names) {
			r, err := a.Repository(name)
			if err != nil {
				return nil, err
			}
			repos = append(repos, r)
		}
	}
	if f.Group != "" {
		repos = lo.Filter(repos, func(r *repository.Repository, _ int) bool {
			return r.Group == f.Group
		})
	}
	return repository.FilterByLanguage(repos, f.Language), nil
}

// unknown builds an UnknownRepositoryError with fuzzy suggestions.
func (a *App) unknown(name string) error {
	err := &UnknownRepositoryError{Name: name}
	c, cerr := a.Config()
	if cerr != nil {
		return err
	}
	err.Suggestions = suggest(name, c.Names())
	return err
}

// suggest returns up to three names that fuzzily match name, best first.
func suggest(name string, names []string) []string {
	matches := fuzzy.Find(name, names)
	return lo.Map(lo.Slice(matches, 0, 3), func(m fuzzy.Match, _ int) string {
		return m.Str
	})
}
