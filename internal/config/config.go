package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Environment variables that override settings.
const (
	EnvReposFile = "REPOPS_CONFIG"
	EnvRemote    = "REPOPS_REMOTE"
)

// DefaultRemote is the remote pulled from and pushed to.
const DefaultRemote = "origin"

// PRConfig holds pull request defaults
type PRConfig struct {
	Base  string `toml:"base" json:"base"`   // base branch (empty = repository default branch)
	Draft bool   `toml:"draft" json:"draft"` // open PRs as drafts
}

// TestConfig holds unit test defaults
type TestConfig struct {
	Path string `toml:"path" json:"path"` // test path passed to pytest (empty = <repo>/tests)
}

// ThemeConfig selects the color theme for tables and progress output
type ThemeConfig struct {
	Name     string `toml:"name" json:"name"`         // preset family, see ValidThemeNames
	Mode     string `toml:"mode" json:"mode"`         // "auto", "light" or "dark"
	Nerdfont bool   `toml:"nerdfont" json:"nerdfont"` // use nerd font symbols
}

// Hook is a shell command run after an operation command finishes
type Hook struct {
	Command     string   `toml:"command" json:"command"`
	Description string   `toml:"description" json:"description,omitempty"`
	On          []string `toml:"on" json:"on,omitempty"`             // commands this hook runs on (empty = only via --hook)
	PerRepo     bool     `toml:"per_repo" json:"per_repo,omitempty"` // run once per repository, in its directory
}

// Settings holds the repops settings
type Settings struct {
	ReposFile string          `toml:"repos_file" json:"repos_file"`
	Remote    string          `toml:"remote" json:"remote"`
	PR        PRConfig        `toml:"pr" json:"pr"`
	Test      TestConfig      `toml:"test" json:"test"`
	Theme     ThemeConfig     `toml:"theme" json:"theme"`
	Hooks     map[string]Hook `toml:"hooks" json:"hooks,omitempty"` // parsed from [hooks.NAME] sections
}

// Default returns the default settings
func Default() Settings {
	return Settings{
		Remote: DefaultRemote,
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// configDir returns ~/.config/repops
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "repops"), nil
}

// SettingsPath returns the path to the settings file
func SettingsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultReposPath returns ~/.config/repops/repos.yml
func DefaultReposPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "repos.yml"), nil
}

// Load reads settings from ~/.config/repops/config.toml and applies
// environment overrides.
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return applyEnv(Default(), os.Getenv), nil
	}
	s, err := LoadFile(path)
	if err != nil {
		return applyEnv(Default(), os.Getenv), err
	}
	return applyEnv(s, os.Getenv), nil
}

// LoadFile reads settings from path. A missing file yields Default().
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read settings file: %w", err)
	}

	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	if err := ValidatePath(s.ReposFile, "repos_file"); err != nil {
		return Default(), err
	}
	if err := validateEnum(s.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return Default(), err
	}
	if err := validateEnum(s.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return Default(), err
	}
	if err := validateHooks(s.Hooks); err != nil {
		return Default(), err
	}
	// Shell doesn't expand ~ in config files
	if s.ReposFile, err = expandPath(s.ReposFile); err != nil {
		return Default(), fmt.Errorf("expand repos_file: %w", err)
	}

	if s.Remote == "" {
		s.Remote = DefaultRemote
	}
	return s, nil
}

func applyEnv(s Settings, getenv func(string) string) Settings {
	if v := getenv(EnvReposFile); v != "" {
		s.ReposFile = v
	}
	if v := getenv(EnvRemote); v != "" {
		s.Remote = v
	}
	return s
}

// ReposPath resolves the repos file: the flag value if set, then
// repos_file (including the REPOPS_CONFIG override), then the default.
// The result is absolute.
func (s Settings) ReposPath(flag string) (string, error) {
	path := flag
	if path == "" {
		path = s.ReposFile
	}
	if path == "" {
		return DefaultReposPath()
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

type settingsKey struct{}

// WithSettings attaches settings to the context.
func WithSettings(ctx context.Context, s *Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// FromContext returns the settings stored in ctx, or Default().
func FromContext(ctx context.Context) *Settings {
	if s, ok := ctx.Value(settingsKey{}).(*Settings); ok {
		return s
	}
	d := Default()
	return &d
}

const defaultSettings = `# repops settings

# Repository list used when --config is not given.
# Must be an absolute path or start with ~
# Overridden by the REPOPS_CONFIG environment variable.
# repos_file = "~/.config/repops/repos.yml"

# Remote used by pull and push (REPOPS_REMOTE overrides)
remote = "origin"

# Pull request defaults for "repops pr" and "repops pipeline --pr"
[pr]
# base = "main"   # empty = each repository's default branch
draft = false

# Unit test defaults for "repops test"
[test]
# path = "tests/unit"   # empty = <repo>/tests

[theme]
# name = "default"   # none, default, dracula or nord
# mode = "auto"      # auto, light or dark
nerdfont = false

# Hooks - run shell commands after an operation command finishes
# Use --hook=name to run a specific hook, --no-hook to skip all hooks
#
# Hooks with "on" run automatically for matching commands.
# Hooks without "on" only run when explicitly called with --hook=name.
#
# [hooks.notify]
# command = "notify-send repops '{trigger}: {status}'"
# description = "Desktop notification"
# on = ["pipeline"]
#
# [hooks.log]
# command = "echo {run-id} {repo} {results} >> ~/repops.log"
# per_repo = true   # run once per repository, in its directory
# on = ["all"]
#
# Available "on" values: "pull", "branch", "pr", "lint", "build", "test",
# "pipeline", "all"
#
# Available placeholders (values are shell-quoted):
#   {run-id}   - run ID, as listed by "repops history"
#   {trigger}  - command that ran (pull, pipeline, ...)
#   {status}   - "ok" or "failed" (per repository with per_repo)
#   {failed}   - names of failed repositories
#   {repo}     - repository name (per_repo only)
#   {path}     - repository path (per_repo only)
#   {branch}   - default branch (per_repo only)
#   {results}  - "N/M" steps succeeded (per_repo only)
`

// DefaultSettingsTOML returns the commented template written by Init.
func DefaultSettingsTOML() string {
	return defaultSettings
}

// Init creates a default settings file at ~/.config/repops/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := SettingsPath()
	if err != nil {
		return "", err
	}
	return path, initFile(path, force)
}

func initFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("settings file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultSettings), 0o644)
}
