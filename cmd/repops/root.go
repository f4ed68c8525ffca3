package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/app"
	runcmd "github.com/repops/repops/internal/cmd"
	"github.com/repops/repops/internal/config"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/output"
	"github.com/repops/repops/internal/ui/styles"
)

var (
	// Global flags
	configPath string
	verbose    bool
	quiet      bool

	// Shared state injected into commands
	settings    *config.Settings
	application *app.App
	runner      runcmd.Runner = runcmd.ExecRunner{}
)

// Command group IDs for organizing help output
const (
	GroupOperation = "operation"
	GroupRegistry  = "registry"
	GroupConfig    = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "repops",
		Short: "Run git and build operations across many repositories",
		Long: `repops manages a list of git repositories and runs operations on all of
them at once: pull, create branches, lint, build, test and open pull requests
on GitHub, GitLab or Azure DevOps.

Repositories are listed in a YAML file (default ~/.config/repops/repos.yml),
optionally organized into groups.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for completion and help commands
			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}

			// Validate mutually exclusive flags
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			// Flags are parsed now, so the logger can honor --verbose/--quiet
			ctx := cmd.Context()
			cmd.SetContext(log.WithLogger(ctx, log.New(log.FromContext(ctx).Writer(), verbose, quiet)))

			return setup(cmd)
		},
		// Run is not set - shows help when no subcommand provided
	}

	// Global flags
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the repositories file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	root.Version = versionString()
	root.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	root.AddGroup(
		&cobra.Group{ID: GroupOperation, Title: "Operation Commands:"},
		&cobra.Group{ID: GroupRegistry, Title: "Registry Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Operation commands
	root.AddCommand(newPullCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newPrCmd())
	root.AddCommand(newLintCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newTestCmd())
	root.AddCommand(newPipelineCmd())
	root.AddCommand(newHistoryCmd())

	// Registry commands
	root.AddCommand(newStatusCmd())
	root.AddCommand(newListReposCmd())
	root.AddCommand(newAddRepoCmd())
	root.AddCommand(newRemoveRepoCmd())
	root.AddCommand(newCheckReposCmd())

	// Config commands
	root.AddCommand(newConfigInfoCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// setup resolves the repos file and creates the application.
func setup(cmd *cobra.Command) error {
	s := config.FromContext(cmd.Context())
	path, err := s.ReposPath(configPath)
	if err != nil {
		return fmt.Errorf("resolve repos file: %w", err)
	}
	settings = s
	application = app.New(path)
	log.FromContext(cmd.Context()).Debug("using repos file", "path", path)
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	// Load settings
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithSettings(ctx, &loaded)
	styles.Init(loaded.Theme)

	// Create logger (stderr for diagnostics); replaced once flags are parsed
	logger := log.New(os.Stderr, false, false)
	ctx = log.WithLogger(ctx, logger)

	// Add output printer (stdout for primary data, colors downsampled when piped)
	ctx = output.WithPrinter(ctx, output.Stdout())

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	err = rootCmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errRunFailed):
		logger.Errorf("%v", err)
		return exitFailed
	default:
		logger.Errorf("%v", err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'repops -h' for help")
		return exitError
	}
}
