package repository

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Collection holds repositories keyed by name and their group membership.
// Every name listed in a group exists in the repository map and a
// repository is listed in exactly one group.
type Collection struct {
	repos      map[string]*Repository
	groups     map[string][]string
	groupOrder []string
}

// NewCollection returns an empty collection with the default group.
func NewCollection() *Collection {
	c := &Collection{
		repos:  make(map[string]*Repository),
		groups: make(map[string][]string),
	}
	c.ensureGroup(DefaultGroup)
	return c
}

func (c *Collection) ensureGroup(group string) {
	if _, ok := c.groups[group]; ok {
		return
	}
	c.groups[group] = nil
	c.groupOrder = append(c.groupOrder, group)
}

// Add inserts r, replacing any repository with the same name. A replaced
// repository that lived in another group is moved to r's group.
func (c *Collection) Add(r *Repository) {
	if r.Group == "" {
		r.Group = DefaultGroup
	}
	if old, ok := c.repos[r.Name]; ok && old.Group != r.Group {
		c.unlist(old.Group, r.Name)
	}
	c.repos[r.Name] = r
	c.ensureGroup(r.Group)
	if !slices.Contains(c.groups[r.Group], r.Name) {
		c.groups[r.Group] = append(c.groups[r.Group], r.Name)
	}
}

// CheckClash returns a validation error when adding r would leave a
// top-level repository and a non-empty group sharing a name, which the
// nested form cannot encode.
func (c *Collection) CheckClash(r *Repository) error {
	group := r.Group
	if group == "" {
		group = DefaultGroup
	}
	if group == DefaultGroup {
		others := slices.DeleteFunc(slices.Clone(c.groups[r.Name]), func(n string) bool {
			return n == r.Name
		})
		if r.Name != DefaultGroup && len(others) > 0 {
			return fmt.Errorf("%w: %q is already a group name", ErrValidation, r.Name)
		}
		return nil
	}
	if top, ok := c.repos[group]; ok && top.Group == DefaultGroup && top.Name != r.Name {
		return fmt.Errorf("%w: group %q is already a repository name", ErrValidation, group)
	}
	return nil
}

// Remove deletes the named repository. It reports whether it existed.
func (c *Collection) Remove(name string) bool {
	r, ok := c.repos[name]
	if !ok {
		return false
	}
	delete(c.repos, name)
	c.unlist(r.Group, name)
	return true
}

func (c *Collection) unlist(group, name string) {
	c.groups[group] = slices.DeleteFunc(c.groups[group], func(n string) bool {
		return n == name
	})
}

// Get returns the named repository.
func (c *Collection) Get(name string) (*Repository, bool) {
	r, ok := c.repos[name]
	return r, ok
}

// Len returns the number of repositories.
func (c *Collection) Len() int {
	return len(c.repos)
}

// All returns every repository, group by group in first-insertion order.
func (c *Collection) All() []*Repository {
	return lo.FlatMap(c.groupOrder, func(g string, _ int) []*Repository {
		return c.ByGroup(g)
	})
}

// Names returns the names of All in the same order.
func (c *Collection) Names() []string {
	return lo.Map(c.All(), func(r *Repository, _ int) string { return r.Name })
}

// ByGroup returns the members of group in insertion order.
func (c *Collection) ByGroup(group string) []*Repository {
	return lo.Map(c.groups[group], func(n string, _ int) *Repository { return c.repos[n] })
}

// Groups returns every group name, including empty ones, in first-insertion order.
func (c *Collection) Groups() []string {
	return slices.Clone(c.groupOrder)
}

// GroupSizes returns the member count of each non-empty group.
func (c *Collection) GroupSizes() map[string]int {
	sizes := lo.MapValues(c.groups, func(members []string, _ string) int { return len(members) })
	return lo.OmitByValues(sizes, []int{0})
}

// ServerTypeCounts returns how many repositories use each server type.
func (c *Collection) ServerTypeCounts() map[ServerType]int {
	return lo.CountValuesBy(c.All(), func(r *Repository) ServerType { return r.ServerType })
}

// FilterByLanguage returns the repositories whose language equals lang
// exactly. An empty lang returns All.
func FilterByLanguage(repos []*Repository, lang string) []*Repository {
	if lang == "" {
		return repos
	}
	return lo.Filter(repos, func(r *Repository, _ int) bool { return r.Language == lang })
}

// FilterByLanguage filters All by language; see the package-level function.
func (c *Collection) FilterByLanguage(lang string) []*Repository {
	return FilterByLanguage(c.All(), lang)
}
