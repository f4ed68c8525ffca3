// Package prompt asks the user to confirm destructive registry changes,
// such as removing a repository from the repos file. Callers only prompt
// when stdin is a terminal.
package prompt
