// Package cmd provides helpers for executing shell commands with proper error handling.
//
// Commands are run with [os/exec.CommandContext] so cancelling the context
// kills the child. Stderr is captured and becomes the message of an
// [ExitError] when the command exits non-zero, which lets callers tell an
// expected failure (the tool ran and said no) from a launch failure (the
// tool is missing).
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoDir, "npm", "install"); err != nil {
//	    if exitErr, ok := cmd.IsExitError(err); ok {
//	        // exitErr.Stderr holds what npm printed
//	    }
//	}
//
// Code that needs to be testable without spawning processes depends on the
// [Runner] interface; [ExecRunner] is the real implementation.
//
// # Design Notes
//
// repops shells out to git, npm, pytest, gh, glab and az rather than using
// libraries, so user configuration (SSH keys, credential helpers, npm
// scripts) applies unchanged.
package cmd
