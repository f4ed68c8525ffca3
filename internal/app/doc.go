// Package app is the entry point the CLI talks to. It wraps the repos
// file manager with repository lookup, filtering, availability checks
// and a health summary.
//
// App never configures logging; it logs through the logger carried by the
// context it is called with.
package app
