package git

import (
	"errors"
	"os/exec"
)

// ErrGitNotFound reports that the git executable is not on PATH.
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// CheckGit returns ErrGitNotFound unless git can be found on PATH.
// Every operation shells out to git, so commands call this before touching
// any repository.
func CheckGit() error {
	if _, err := lookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}
