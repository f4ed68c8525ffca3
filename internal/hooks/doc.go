// Package hooks runs user-defined shell commands after operation commands.
//
// Hooks are shell commands defined in the settings file that run after a
// run of pull, branch, pr, lint, build, test or pipeline. They enable
// workflow automation such as notifications or logging results.
//
// # Hook Selection
//
// Hooks can run automatically or manually:
//
//   - Automatic: Hooks with "on" config matching the command run automatically
//   - Manual: Use --hook=name to run a specific hook, --no-hook to skip all
//
// Example config:
//
//	[hooks.notify]
//	command = "notify-send repops {status}"
//	on = ["pipeline"]
//
//	[hooks.log]
//	command = "echo {repo} {results} >> ~/repops.log"
//	per_repo = true
//	on = ["all"]
//
// # Placeholders
//
// Placeholders are replaced with shell-quoted values before the command
// runs with "sh -c". Run-level hooks see {run-id}, {trigger}, {status} and
// {failed}; per-repository hooks additionally see {repo}, {path}, {branch}
// and {results}, and run in the repository's directory.
//
// Hook failures are reported as warnings and never fail the command.
package hooks
