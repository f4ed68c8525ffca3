package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	s := Default()
	if s.Remote != DefaultRemote {
		t.Errorf("Remote = %q, want %q", s.Remote, DefaultRemote)
	}
	if s.ReposFile != "" {
		t.Errorf("ReposFile = %q, want empty", s.ReposFile)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name    string
		content string
		want    Settings
		wantErr bool
	}{
		{
			name:    "full",
			content: "repos_file = \"/etc/repops/repos.yml\"\nremote = \"upstream\"\n[pr]\nbase = \"develop\"\ndraft = true\n[test]\npath = \"tests/unit\"\n",
			want: Settings{
				ReposFile: "/etc/repops/repos.yml",
				Remote:    "upstream",
				PR:        PRConfig{Base: "develop", Draft: true},
				Test:      TestConfig{Path: "tests/unit"},
			},
		},
		{
			name:    "tilde expanded",
			content: "repos_file = \"~/repos.yml\"\n",
			want:    Settings{ReposFile: filepath.Join(home, "repos.yml"), Remote: DefaultRemote},
		},
		{
			name:    "empty remote falls back",
			content: "remote = \"\"\n",
			want:    Settings{Remote: DefaultRemote},
		},
		{
			name:    "relative repos file",
			content: "repos_file = \"repos.yml\"\n",
			wantErr: true,
		},
		{
			name:    "theme",
			content: "[theme]\nname = \"nord\"\nmode = \"light\"\nnerdfont = true\n",
			want:    Settings{Remote: DefaultRemote, Theme: ThemeConfig{Name: "nord", Mode: "light", Nerdfont: true}},
		},
		{
			name:    "unknown theme",
			content: "[theme]\nname = \"solarized\"\n",
			wantErr: true,
		},
		{
			name:    "hooks",
			content: "[hooks.notify]\ncommand = \"echo {status}\"\non = [\"pipeline\", \"all\"]\nper_repo = true\n",
			want: Settings{Remote: DefaultRemote, Hooks: map[string]Hook{
				"notify": {Command: "echo {status}", On: []string{"pipeline", "all"}, PerRepo: true},
			}},
		},
		{
			name:    "hook with unknown trigger",
			content: "[hooks.x]\ncommand = \"true\"\non = [\"prune\"]\n",
			wantErr: true,
		},
		{
			name:    "hook without command",
			content: "[hooks.x]\non = [\"pull\"]\n",
			wantErr: true,
		},
		{
			name:    "invalid toml",
			content: "remote = \n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := LoadFile(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !reflect.DeepEqual(got, Default()) {
					t.Errorf("LoadFile() on error = %+v, want Default()", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadFile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	got, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v, want nil", err)
	}
	if !reflect.DeepEqual(got, Default()) {
		t.Errorf("LoadFile() = %+v, want Default()", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvReposFile: "/tmp/other.yml",
		EnvRemote:    "fork",
	}
	got := applyEnv(Default(), func(k string) string { return env[k] })

	if got.ReposFile != "/tmp/other.yml" {
		t.Errorf("ReposFile = %q, want /tmp/other.yml", got.ReposFile)
	}
	if got.Remote != "fork" {
		t.Errorf("Remote = %q, want fork", got.Remote)
	}

	unchanged := applyEnv(Default(), func(string) string { return "" })
	if !reflect.DeepEqual(unchanged, Default()) {
		t.Errorf("applyEnv with empty env = %+v, want Default()", unchanged)
	}
}

func TestReposPath(t *testing.T) {
	t.Parallel()

	def, err := DefaultReposPath()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name     string
		settings Settings
		flag     string
		want     string
	}{
		{"flag wins", Settings{ReposFile: "/a.yml"}, "/b.yml", "/b.yml"},
		{"settings", Settings{ReposFile: "/a.yml"}, "", "/a.yml"},
		{"default", Settings{}, "", def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.settings.ReposPath(tt.flag)
			if err != nil {
				t.Fatalf("ReposPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReposPath(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}

func TestReposPath_RelativeFlag(t *testing.T) {
	t.Parallel()

	got, err := Default().ReposPath("repos.yml")
	if err != nil {
		t.Fatalf("ReposPath() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ReposPath(relative) = %q, want absolute", got)
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~", false},
		{"~/repos.yml", false},
		{"/abs/repos.yml", false},
		{"repos.yml", true},
		{"../repos.yml", true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.path, "repos_file")
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestWithSettings_FromContext(t *testing.T) {
	t.Parallel()

	s := &Settings{Remote: "upstream"}
	ctx := WithSettings(context.Background(), s)
	if got := FromContext(ctx); got != s {
		t.Error("FromContext did not return the stored settings")
	}

	if got := FromContext(context.Background()); !reflect.DeepEqual(*got, Default()) {
		t.Errorf("FromContext(empty) = %+v, want Default()", *got)
	}
}

func TestDefaultSettingsIsValidTOML(t *testing.T) {
	t.Parallel()

	var s Settings
	if _, err := toml.Decode(defaultSettings, &s); err != nil {
		t.Fatalf("default settings template does not parse: %v", err)
	}
	if s.Remote != DefaultRemote {
		t.Errorf("template remote = %q, want %q", s.Remote, DefaultRemote)
	}
}

func TestInitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "repops", "config.toml")

	if err := initFile(path, false); err != nil {
		t.Fatalf("initFile() error = %v", err)
	}
	err := initFile(path, false)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second initFile() error = %v, want already exists", err)
	}
	if err := initFile(path, true); err != nil {
		t.Errorf("initFile(force) error = %v", err)
	}
}

func TestValidateEnum(t *testing.T) {
	t.Parallel()

	if err := validateEnum("", "theme.mode", ValidThemeModes); err != nil {
		t.Errorf("validateEnum(empty) = %v, want nil", err)
	}
	err := validateEnum("dim", "theme.mode", ValidThemeModes)
	if err == nil {
		t.Fatal("validateEnum(dim) = nil, want error")
	}
	want := `invalid theme.mode "dim": must be "auto", "light", or "dark"`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
