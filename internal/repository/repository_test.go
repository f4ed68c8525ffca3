package repository

import (
	"errors"
	"strings"
	"testing"
)

func TestParseServerType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ServerType
		wantErr bool
	}{
		{"github", GitHub, false},
		{"GitHub", GitHub, false},
		{"gitlab", GitLab, false},
		{"azure-devops", AzureDevOps, false},
		{"  AZURE-DEVOPS ", AzureDevOps, false},
		{"bitbucket", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseServerType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseServerType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseServerType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_InvalidServerType(t *testing.T) {
	t.Parallel()

	_, err := New("x", "https://host/x.git", "bitbucket", "/abs/path", "main", "infra")
	if err == nil {
		t.Fatal("New with bitbucket = nil error, want InvalidServerTypeError")
	}

	var ste *InvalidServerTypeError
	if !errors.As(err, &ste) {
		t.Fatalf("error %T is not *InvalidServerTypeError", err)
	}
	if ste.Value != "bitbucket" {
		t.Errorf("Value = %q, want %q", ste.Value, "bitbucket")
	}
	want := []ServerType{GitHub, GitLab, AzureDevOps}
	if len(ste.Supported) != len(want) {
		t.Fatalf("Supported = %v, want %v", ste.Supported, want)
	}
	for i := range want {
		if ste.Supported[i] != want[i] {
			t.Errorf("Supported[%d] = %q, want %q", i, ste.Supported[i], want[i])
		}
	}
	if !strings.Contains(err.Error(), "github, gitlab, azure-devops") {
		t.Errorf("Error() = %q, want supported types listed", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("InvalidServerTypeError should match ErrValidation")
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r, err := New("api", "https://github.com/org/api.git", "GITHUB", "/src/api", "main", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if r.Group != DefaultGroup {
		t.Errorf("Group = %q, want %q", r.Group, DefaultGroup)
	}
	if r.ServerType != GitHub {
		t.Errorf("ServerType = %q, want %q", r.ServerType, GitHub)
	}
}

func TestNew_EmptyName(t *testing.T) {
	t.Parallel()

	_, err := New(" ", "u", "github", "/p", "main", "")
	if !errors.Is(err, ErrRepository) {
		t.Errorf("New with empty name error = %v, want ErrRepository", err)
	}
}

func TestMissingFieldError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *MissingFieldError
		want string
	}{
		{"default group", &MissingFieldError{Field: "url", Repo: "api", Group: DefaultGroup}, "missing required field: url in repository 'api'"},
		{"named group", &MissingFieldError{Field: "path", Repo: "tf", Group: "infra"}, "missing required field: path in repository 'tf' in group 'infra'"},
		{"no context", &MissingFieldError{Field: "server"}, "missing required field: server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrValidation) {
				t.Error("MissingFieldError should match ErrValidation")
			}
		})
	}
}

func TestHasLanguage(t *testing.T) {
	t.Parallel()

	r := &Repository{Name: "svc", Language: "Python"}

	tests := []struct {
		langs []string
		want  bool
	}{
		{[]string{"python"}, true},
		{[]string{"PYTHON"}, true},
		{[]string{"javascript", "typescript"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := r.HasLanguage(tt.langs...); got != tt.want {
			t.Errorf("HasLanguage(%v) = %v, want %v", tt.langs, got, tt.want)
		}
	}
}
