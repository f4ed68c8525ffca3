// Package forge provides an abstraction layer for git hosting services.
//
// Pull requests are opened through each platform's CLI, run inside the
// repository's working directory so the CLI picks the target repository
// from the git remote:
//
//   - GitHub: gh pr create
//   - GitLab: glab mr create
//   - Azure DevOps: az repos pr create
//
// Use [ForServer] to get the implementation for a repository's declared
// server type, and [Detect] to guess a server type from a remote URL.
//
// Failed CLI invocations are wrapped with %w, so callers can use
// cmd.IsExitError to tell a refused PR (non-zero exit) from a missing CLI.
// Never call gh, glab or az directly outside this package.
package forge
