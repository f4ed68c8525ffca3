package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/repops/repops/internal/repository"
	"github.com/repops/repops/internal/storage"
)

var (
	// ErrConfig is matched by every configuration error.
	ErrConfig = errors.New("configuration error")

	// ErrNotFound reports a missing repos file.
	ErrNotFound = fmt.Errorf("%w: file not found", ErrConfig)

	// ErrInvalidConfig reports a repos file that is not a YAML mapping in nested form.
	ErrInvalidConfig = fmt.Errorf("%w: invalid configuration", ErrConfig)

	// ErrNoConfig is returned by Save when nothing was loaded or created.
	ErrNoConfig = fmt.Errorf("%w: no configuration to save", ErrConfig)
)

// Manager loads, validates and saves the repos file.
type Manager struct {
	path string
	coll *repository.Collection
}

// NewManager returns a manager for the repos file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the repos file path.
func (m *Manager) Path() string {
	return m.path
}

// Loaded reports whether a collection was loaded or created.
func (m *Manager) Loaded() bool {
	return m.coll != nil
}

// Load reads and decodes the repos file, replacing the current collection.
// Empty files yield an empty collection.
func (m *Manager) Load() (*repository.Collection, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, m.path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfig, m.path, err)
	}

	c, err := repository.Unmarshal(data)
	if err != nil {
		if errors.Is(err, repository.ErrMalformed) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, m.path, err)
		}
		return nil, fmt.Errorf("load %s: %w", m.path, err)
	}

	m.coll = c
	return c, nil
}

// Save writes the collection to the repos file atomically, creating
// parent directories as needed.
func (m *Manager) Save() error {
	if m.coll == nil {
		return ErrNoConfig
	}
	data, err := repository.Marshal(m.coll)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrConfig, m.path, err)
	}
	if err := storage.WriteFile(m.path, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrConfig, m.path, err)
	}
	return nil
}

// CreateNew replaces the current collection with an empty one.
func (m *Manager) CreateNew() *repository.Collection {
	m.coll = repository.NewCollection()
	return m.coll
}

// Collection returns the current collection, loading it on first use.
func (m *Manager) Collection() (*repository.Collection, error) {
	if m.coll != nil {
		return m.coll, nil
	}
	return m.Load()
}

// Validate returns one message per rule violated by a loaded repository.
// It never fails; with nothing loaded it reports that.
func (m *Manager) Validate() []string {
	if m.coll == nil {
		return []string{"No configuration loaded"}
	}
	var issues []string
	for _, r := range m.coll.All() {
		issues = append(issues, repositoryIssues(r)...)
	}
	return issues
}

// Info summarizes the repos file.
type Info struct {
	Loaded            bool                          `json:"loaded"`
	Path              string                        `json:"path"`
	TotalRepositories int                           `json:"total_repositories"`
	Groups            map[string]int                `json:"groups,omitempty"`
	ServerTypes       map[repository.ServerType]int `json:"server_types,omitempty"`
}

// Info returns counts for the loaded collection. Groups only lists
// non-empty groups.
func (m *Manager) Info() Info {
	if m.coll == nil {
		return Info{Path: m.path}
	}
	return Info{
		Loaded:            true,
		Path:              m.path,
		TotalRepositories: m.coll.Len(),
		Groups:            m.coll.GroupSizes(),
		ServerTypes:       m.coll.ServerTypeCounts(),
	}
}

// AddRepository builds a repository and adds it to the collection,
// replacing any repository of the same name. A name shared between a
// top-level repository and a group is rejected since it could not be saved.
func (m *Manager) AddRepository(name, url, serverType, localPath, defaultBranch, group, language string) (*repository.Repository, error) {
	c, err := m.Collection()
	if err != nil {
		return nil, err
	}
	r, err := repository.New(name, url, serverType, localPath, defaultBranch, group)
	if err != nil {
		return nil, err
	}
	r.Language = language
	if err := c.CheckClash(r); err != nil {
		return nil, err
	}
	c.Add(r)
	return r, nil
}

// RemoveRepository removes the named repository and reports whether it existed.
func (m *Manager) RemoveRepository(name string) (bool, error) {
	c, err := m.Collection()
	if err != nil {
		return false, err
	}
	return c.Remove(name), nil
}
