package git

import (
	"context"
	"errors"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"
)

var (
	// ErrLocalMissing reports that a repository's local path does not exist.
	ErrLocalMissing = errors.New("local directory does not exist")

	// ErrNotRepository reports a local path that is not a git repository.
	ErrNotRepository = errors.New("directory exists but is not a git repository")
)

// CheckLocal verifies that path is an existing git repository.
func CheckLocal(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrLocalMissing
		}
		return fmt.Errorf("error checking local path: %w", err)
	}
	if !info.IsDir() {
		return ErrNotRepository
	}

	if _, err := gogit.PlainOpen(path); err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return ErrNotRepository
		}
		return fmt.Errorf("open repository: %w", err)
	}
	return nil
}

// CheckRemote lists the references of url without cloning it.
// An empty remote repository counts as reachable.
func CheckRemote(ctx context.Context, url string) error {
	remote := gogit.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	if _, err := remote.ListContext(ctx, &gogit.ListOptions{}); err != nil {
		if errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return nil
		}
		return fmt.Errorf("list remote %s: %w", url, err)
	}
	return nil
}
