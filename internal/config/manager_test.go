package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/repops/repops/internal/repository"
)

func writeRepos(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repos.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestManager_LoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yml") },
			wantErr: ErrNotFound,
		},
		{
			name:    "not yaml",
			path:    func(t *testing.T) string { return writeRepos(t, "api: [broken") },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "not a mapping",
			path:    func(t *testing.T) string { return writeRepos(t, "- api\n") },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "missing field",
			path:    func(t *testing.T) string { return writeRepos(t, "api:\n  url: u\n") },
			wantErr: repository.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewManager(tt.path(t))
			_, err := m.Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if m.Loaded() {
				t.Error("Loaded() = true after failed load")
			}
		})
	}
}

func TestManager_ErrorsMatchErrConfig(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrNotFound, ErrInvalidConfig, ErrNoConfig} {
		if !errors.Is(err, ErrConfig) {
			t.Errorf("%v does not match ErrConfig", err)
		}
	}
}

func TestManager_LoadEmptyFile(t *testing.T) {
	t.Parallel()

	m := NewManager(writeRepos(t, ""))
	c, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestManager_SaveWithoutLoad(t *testing.T) {
	t.Parallel()

	m := NewManager(filepath.Join(t.TempDir(), "repos.yml"))
	if err := m.Save(); !errors.Is(err, ErrNoConfig) {
		t.Errorf("Save() error = %v, want ErrNoConfig", err)
	}
}

func TestManager_AddSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "repos.yml")
	m := NewManager(path)
	m.CreateNew()

	if _, err := m.AddRepository("x", "https://host/x.git", "github", "/abs/path", "main", "infra", ""); err != nil {
		t.Fatalf("AddRepository() error = %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := NewManager(path)
	c, err := reloaded.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, ok := c.Get("x")
	if !ok {
		t.Fatal("repository x not found after reload")
	}
	want := repository.Repository{
		Name:          "x",
		URL:           "https://host/x.git",
		ServerType:    repository.GitHub,
		LocalPath:     "/abs/path",
		DefaultBranch: "main",
		Group:         "infra",
	}
	if *got != want {
		t.Errorf("reloaded = %+v, want %+v", *got, want)
	}
}

func TestManager_AddInvalidServerType(t *testing.T) {
	t.Parallel()

	m := NewManager(filepath.Join(t.TempDir(), "repos.yml"))
	m.CreateNew()

	_, err := m.AddRepository("x", "https://host/x.git", "bitbucket", "/abs/path", "main", "", "")
	var ste *repository.InvalidServerTypeError
	if !errors.As(err, &ste) {
		t.Fatalf("AddRepository() error = %v, want InvalidServerTypeError", err)
	}
	c, _ := m.Collection()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after rejected add, want 0", c.Len())
	}
}

func TestManager_AddNameClash(t *testing.T) {
	t.Parallel()

	m := NewManager(filepath.Join(t.TempDir(), "repos.yml"))
	m.CreateNew()

	if _, err := m.AddRepository("tf", "https://host/tf.git", "github", "/src/tf", "main", "infra", ""); err != nil {
		t.Fatalf("AddRepository(tf) error = %v", err)
	}
	_, err := m.AddRepository("infra", "https://host/infra.git", "github", "/src/infra", "main", "", "")
	if !errors.Is(err, repository.ErrValidation) {
		t.Fatalf("AddRepository(infra) error = %v, want ErrValidation", err)
	}
	if err := m.Save(); err != nil {
		t.Errorf("Save() after rejected add error = %v", err)
	}
}

func TestManager_RemoveRepository(t *testing.T) {
	t.Parallel()

	m := NewManager(writeRepos(t, "api:\n  url: u\n  server: github\n  path: /p\n  defaultBranch: main\n"))

	removed, err := m.RemoveRepository("api")
	if err != nil || !removed {
		t.Fatalf("RemoveRepository(api) = %v, %v, want true, nil", removed, err)
	}
	removed, err = m.RemoveRepository("api")
	if err != nil || removed {
		t.Errorf("second RemoveRepository(api) = %v, %v, want false, nil", removed, err)
	}
}

func TestManager_Validate(t *testing.T) {
	t.Parallel()

	m := NewManager("unused")
	if got := m.Validate(); !slices.Equal(got, []string{"No configuration loaded"}) {
		t.Errorf("Validate() before load = %v", got)
	}

	c := m.CreateNew()
	c.Add(&repository.Repository{Name: "ok", URL: "u", ServerType: repository.GitHub, LocalPath: "/p", DefaultBranch: "main"})
	c.Add(&repository.Repository{Name: "bad", URL: "  ", ServerType: repository.GitHub, LocalPath: "rel/path", DefaultBranch: ""})
	c.Add(&repository.Repository{Name: "branch", URL: "u", ServerType: repository.GitLab, LocalPath: "/p", DefaultBranch: " "})

	want := []string{
		"Repository 'bad': local path must be absolute",
		"Repository 'bad': URL cannot be empty",
		"Repository 'bad': default branch cannot be empty",
		"Repository 'branch': default branch cannot be empty",
	}
	if got := m.Validate(); !slices.Equal(got, want) {
		t.Errorf("Validate() = %v, want %v", got, want)
	}
}

func TestManager_ValidateClean(t *testing.T) {
	t.Parallel()

	m := NewManager("unused")
	m.CreateNew().Add(&repository.Repository{Name: "ok", URL: "u", ServerType: repository.GitHub, LocalPath: "/p", DefaultBranch: "main"})
	if got := m.Validate(); len(got) != 0 {
		t.Errorf("Validate() = %v, want none", got)
	}
}

func TestManager_Info(t *testing.T) {
	t.Parallel()

	m := NewManager("/tmp/repos.yml")
	if info := m.Info(); info.Loaded || info.Path != "/tmp/repos.yml" {
		t.Errorf("Info() before load = %+v", info)
	}

	c := m.CreateNew()
	c.Add(&repository.Repository{Name: "a", ServerType: repository.GitHub, Group: "infra"})
	c.Add(&repository.Repository{Name: "b", ServerType: repository.GitHub})
	c.Add(&repository.Repository{Name: "c", ServerType: repository.AzureDevOps, Group: "infra"})

	info := m.Info()
	if !info.Loaded || info.TotalRepositories != 3 {
		t.Errorf("Info() = %+v", info)
	}
	if info.Groups["infra"] != 2 || info.Groups[repository.DefaultGroup] != 1 {
		t.Errorf("Info().Groups = %v", info.Groups)
	}
	if info.ServerTypes[repository.GitHub] != 2 || info.ServerTypes[repository.AzureDevOps] != 1 {
		t.Errorf("Info().ServerTypes = %v", info.ServerTypes)
	}
}
