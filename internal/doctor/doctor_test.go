package doctor

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/repops/repops/internal/repository"
)

func fakeEnv(missing []string, forgeErrs map[repository.ServerType]error) (Env, *[]repository.ServerType) {
	var checked []repository.ServerType
	return Env{
		LookPath: func(file string) (string, error) {
			if slices.Contains(missing, file) {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + file, nil
		},
		CheckForge: func(_ context.Context, st repository.ServerType) error {
			checked = append(checked, st)
			return forgeErrs[st]
		},
	}, &checked
}

var testRepos = []*repository.Repository{
	{Name: "api", ServerType: repository.GitHub, Language: "python"},
	{Name: "web", ServerType: repository.GitHub, Language: "TypeScript"},
	{Name: "ops", ServerType: repository.AzureDevOps},
}

func TestRun_Healthy(t *testing.T) {
	t.Parallel()

	env, checked := fakeEnv(nil, nil)
	rep := Run(context.Background(), env, testRepos, nil)

	if !rep.OK() {
		t.Errorf("Issues = %+v, want none", rep.Issues)
	}
	// git, flake8, autopep8, pytest, npm, github, azure-devops, config
	if rep.Checked != 8 {
		t.Errorf("Checked = %d, want 8", rep.Checked)
	}
	want := []repository.ServerType{repository.GitHub, repository.AzureDevOps}
	if !slices.Equal(*checked, want) {
		t.Errorf("checked forges = %v, want %v", *checked, want)
	}
}

func TestRun_Issues(t *testing.T) {
	t.Parallel()

	env, _ := fakeEnv(
		[]string{"git", "pytest"},
		map[repository.ServerType]error{repository.AzureDevOps: errors.New("az not authenticated: please run 'az login'")},
	)
	rep := Run(context.Background(), env, testRepos, []string{"Repository 'x': URL cannot be empty"})

	tools := rep.ByCategory(CategoryTools)
	if len(tools) != 2 || tools[0].Key != "git" || tools[1].Key != "pytest" {
		t.Fatalf("tool issues = %+v", tools)
	}
	if !strings.Contains(tools[1].Description, "needed by api") {
		t.Errorf("pytest description = %q", tools[1].Description)
	}

	forges := rep.ByCategory(CategoryForge)
	if len(forges) != 1 || forges[0].Key != "azure-devops" {
		t.Fatalf("forge issues = %+v", forges)
	}
	if !strings.Contains(forges[0].Description, "az login") || !strings.Contains(forges[0].Description, "ops") {
		t.Errorf("forge description = %q", forges[0].Description)
	}

	cfg := rep.ByCategory(CategoryConfig)
	if len(cfg) != 1 || cfg[0].Description != "Repository 'x': URL cannot be empty" {
		t.Errorf("config issues = %+v", cfg)
	}
}

func TestRun_NoRepositories(t *testing.T) {
	t.Parallel()

	env, checked := fakeEnv(nil, nil)
	rep := Run(context.Background(), env, nil, nil)
	if rep.Checked != 2 {
		t.Errorf("Checked = %d, want 2 (git and config)", rep.Checked)
	}
	if len(*checked) != 0 {
		t.Errorf("forges checked without repositories: %v", *checked)
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	repos := []*repository.Repository{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"}}
	tests := []struct {
		n    int
		want string
	}{
		{1, "a"},
		{3, "a, b, c"},
		{5, "a, b, c and 2 more"},
	}
	for _, tt := range tests {
		if got := names(repos[:tt.n]); got != tt.want {
			t.Errorf("names(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
