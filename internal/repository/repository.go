package repository

import (
	"fmt"
	"strings"
)

// DefaultGroup is the group repositories belong to when none is given.
const DefaultGroup = "default"

// ServerType is the git hosting provider a repository lives on.
type ServerType string

const (
	GitHub      ServerType = "github"
	GitLab      ServerType = "gitlab"
	AzureDevOps ServerType = "azure-devops"
)

// ServerTypes returns the supported server types in display order.
func ServerTypes() []ServerType {
	return []ServerType{GitHub, GitLab, AzureDevOps}
}

// ParseServerType parses s case-insensitively.
func ParseServerType(s string) (ServerType, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, st := range ServerTypes() {
		if string(st) == want {
			return st, nil
		}
	}
	return "", &InvalidServerTypeError{Value: s, Supported: ServerTypes()}
}

func (s ServerType) String() string {
	return string(s)
}

// Repository is one managed git repository.
//
// LocalPath, URL and DefaultBranch are not checked at construction;
// see config.Manager.Validate.
type Repository struct {
	Name          string     `json:"name"`
	URL           string     `json:"url" validate:"notblank"`
	ServerType    ServerType `json:"server"`
	LocalPath     string     `json:"path" validate:"abspath"`
	DefaultBranch string     `json:"defaultBranch" validate:"notblank"`
	Language      string     `json:"language,omitempty"`
	Group         string     `json:"group"`
}

// New builds a repository, parsing serverType against the supported set.
// An empty group means DefaultGroup.
func New(name, url, serverType, localPath, defaultBranch, group string) (*Repository, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrRepository)
	}
	st, err := ParseServerType(serverType)
	if err != nil {
		return nil, err
	}
	if group == "" {
		group = DefaultGroup
	}
	return &Repository{
		Name:          name,
		URL:           url,
		ServerType:    st,
		LocalPath:     localPath,
		DefaultBranch: defaultBranch,
		Group:         group,
	}, nil
}

// HasLanguage reports whether the repository's language is one of langs,
// ignoring case.
func (r *Repository) HasLanguage(langs ...string) bool {
	for _, l := range langs {
		if strings.EqualFold(r.Language, l) {
			return true
		}
	}
	return false
}
