// Package config handles repops settings and the repos file.
//
// # Settings
//
// Settings are read from ~/.config/repops/config.toml. A missing file means
// defaults; an invalid file is reported and defaults are used.
//
// Sources (highest priority first):
//
//   - --config flag: repos file for this invocation
//   - REPOPS_CONFIG / REPOPS_REMOTE env vars
//   - Settings file
//   - Default values (~/.config/repops/repos.yml, remote "origin")
//
// # Repos File
//
// [Manager] loads the YAML repos file into a repository.Collection, saves
// it back in nested form and validates it. Errors match [ErrConfig];
// decode errors from the repository package (missing fields, unknown
// server types) keep matching repository.ErrValidation.
//
// Validation never fails. It returns one message per violated rule:
//
//	Repository 'api': local path must be absolute
//	Repository 'api': URL cannot be empty
//	Repository 'api': default branch cannot be empty
package config
