package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckLocal(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	plain := t.TempDir()
	file := filepath.Join(plain, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"git repository", repo, nil},
		{"plain directory", plain, ErrNotRepository},
		{"regular file", file, ErrNotRepository},
		{"missing", filepath.Join(plain, "absent"), ErrLocalMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckLocal(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckLocal(%q) = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestCheckRemote(t *testing.T) {
	t.Parallel()

	_, origin := setupTestRepoWithOrigin(t)
	ctx := context.Background()

	if err := CheckRemote(ctx, origin); err != nil {
		t.Errorf("CheckRemote(origin) = %v, want nil", err)
	}

	missing := filepath.Join(t.TempDir(), "absent.git")
	if err := CheckRemote(ctx, missing); err == nil {
		t.Error("CheckRemote(missing) = nil, want error")
	}
}

func TestCheckRemote_EmptyRepository(t *testing.T) {
	t.Parallel()

	bare := filepath.Join(resolveTempDir(t), "empty.git")
	runGit(t, "", "init", "--bare", "-b", "main", bare)

	if err := CheckRemote(context.Background(), bare); err != nil {
		t.Errorf("CheckRemote(empty) = %v, want nil", err)
	}
}
