package main

import "os"

// Process exit codes.
const (
	exitOK    = 0
	exitError = 1
	// exitFailed signals --fail with at least one failed repository step.
	exitFailed = 2
)

func main() {
	os.Exit(Execute())
}
