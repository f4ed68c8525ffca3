package git

import (
	"errors"
	"os/exec"
	"testing"
)

func TestCheckGit(t *testing.T) {
	tests := []struct {
		name    string
		look    func(string) (string, error)
		wantErr error
	}{
		{"found", func(string) (string, error) { return "/usr/bin/git", nil }, nil},
		{"missing", func(string) (string, error) { return "", exec.ErrNotFound }, ErrGitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := lookPath
			lookPath = tt.look
			t.Cleanup(func() { lookPath = prev })

			if err := CheckGit(); !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckGit() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
