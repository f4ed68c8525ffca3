// Package git wraps the git operations repops runs inside managed repositories.
//
// Mutating operations shell out to the git CLI through a [Client] so user
// configuration (SSH keys, credential helpers, hooks) applies and tests can
// substitute a scripted cmd.Runner:
//
//   - [Client.Pull], [Client.Checkout], [Client.CreateBranch]
//   - [Client.CurrentBranch], [Client.HasChanges]
//   - [Client.AddAll], [Client.Commit], [Client.Push]
//
// Read-only availability checks use go-git instead, which needs neither a
// working directory nor a clone:
//
//   - [CheckLocal]: the local path exists and is a repository
//   - [CheckRemote]: the remote URL answers a reference listing
package git
