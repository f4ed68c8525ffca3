// Package doctor diagnoses the environment operations depend on.
//
// The doctor package detects:
//
//   - Tool issues: git, or a language tool a configured repository needs
//     (flake8, autopep8, pytest, npm), is missing from PATH.
//
//   - Forge issues: the CLI for a server type in use (gh, glab, az) is
//     missing or not authenticated, so pull requests would fail.
//
//   - Config issues: the repos file has validation problems.
//
// # Usage
//
//	rep := doctor.Run(ctx, doctor.NewEnv(runner), repos, validationIssues)
//	for _, issue := range rep.Issues { ... }
//
// Each [Issue] includes a description and a hint on how to resolve it.
package doctor
