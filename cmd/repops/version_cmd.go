package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/output"
)

// Set by goreleaser through -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionString() string {
	return fmt.Sprintf("repops %s (%s, %s, %s)", version, commit[:min(7, len(commit))], date, runtime.Version())
}

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the version",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			if short {
				out.Println(version)
				return nil
			}
			out.Println(versionString())
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
