package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/app"
	"github.com/repops/repops/internal/config"
	"github.com/repops/repops/internal/git"
	"github.com/repops/repops/internal/history"
	"github.com/repops/repops/internal/hooks"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/operation"
	"github.com/repops/repops/internal/output"
	"github.com/repops/repops/internal/pipeline"
	"github.com/repops/repops/internal/repository"
	"github.com/repops/repops/internal/storage"
	"github.com/repops/repops/internal/ui/progress"
	"github.com/repops/repops/internal/ui/prompt"
	"github.com/repops/repops/internal/ui/styles"
)

// errRunFailed is returned with --fail when a repository had a failing step.
var errRunFailed = errors.New("one or more operations failed")

// selection holds the repository filter flags shared by operation commands.
type selection struct {
	names    []string
	group    string
	language string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&s.names, "repository", "r", nil, "Only these repositories (repeatable)")
	cmd.Flags().StringVarP(&s.group, "group", "g", "", "Only repositories in this group")
	cmd.Flags().StringVarP(&s.language, "language", "L", "", "Only repositories with this language")

	cmd.RegisterFlagCompletionFunc("repository", completeRepoNames)
	cmd.RegisterFlagCompletionFunc("group", completeGroups)
}

func (s *selection) filter() app.Filter {
	return app.Filter{Names: s.names, Group: s.group, Language: s.language}
}

// runOptions are the output flags shared by operation commands.
type runOptions struct {
	jsonOutput bool
	report     string
	fail       bool
	hook       string
	noHook     bool
}

func (o *runOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Output the run report as JSON")
	cmd.Flags().StringVar(&o.report, "report", "", "Also write the JSON run report to `FILE`")
	cmd.Flags().BoolVar(&o.fail, "fail", false, "Exit with status 2 if any operation failed")
	cmd.Flags().StringVar(&o.hook, "hook", "", "Run only this hook after the run")
	cmd.Flags().BoolVar(&o.noHook, "no-hook", false, "Do not run hooks")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	cmd.RegisterFlagCompletionFunc("hook", completeHooks)
}

// operationEnv returns the environment operations run in.
func operationEnv() operation.Env {
	return operation.Env{Runner: runner, Remote: settings.Remote}
}

// runSteps selects repositories, runs the steps as a pipeline and prints
// the result.
func runSteps(cmd *cobra.Command, name string, sel *selection, opts *runOptions, steps ...pipeline.Step) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)

	if err := git.CheckGit(); err != nil {
		return err
	}
	matches, err := hooks.Select(settings.Hooks, opts.hook, opts.noHook, cmd.Name())
	if err != nil {
		return err
	}

	repos, err := application.Select(sel.filter())
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		l.Println("No repositories match.")
		return nil
	}
	l.Debug("running pipeline", "name", name, "repositories", len(repos), "steps", len(steps))

	p := pipeline.New(name, steps...)
	rep, err := runWithProgress(ctx, p, repos)
	if err != nil {
		// Keep what ran before the abort.
		if rep != nil && len(rep.Repositories) > 0 {
			recordRun(ctx, rep)
			if perr := printReport(ctx, rep, opts.jsonOutput); perr != nil {
				l.Debug("print partial report", "error", perr)
			}
		}
		return fmt.Errorf("pipeline %s aborted: %w", name, err)
	}

	recordRun(ctx, rep)
	hooks.RunForReport(ctx, runner, matches, cmd.Name(), rep, repos)

	if opts.report != "" {
		if err := storage.SaveJSON(opts.report, rep); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if err := printReport(ctx, rep, opts.jsonOutput); err != nil {
		return err
	}
	if opts.fail && rep.Failed() {
		return errRunFailed
	}
	return nil
}

// historyPath is replaced in tests.
var historyPath = history.DefaultPath

// historyLockTimeout bounds the wait for another process recording a run.
const historyLockTimeout = 5 * time.Second

// recordRun appends rep to the run history. Failing to record is not fatal.
func recordRun(ctx context.Context, rep *pipeline.Report) {
	l := log.FromContext(ctx)
	path, err := historyPath()
	if err == nil {
		lockCtx, cancel := context.WithTimeout(ctx, historyLockTimeout)
		err = history.Record(lockCtx, path, rep)
		cancel()
	}
	if err != nil {
		l.Warnf("could not record run history: %v", err)
		return
	}
	l.Debug("recorded run", "run_id", rep.RunID, "path", path)
}

// runWithProgress runs p, showing a progress bar on an interactive stderr
// unless verbose or quiet output was requested.
func runWithProgress(ctx context.Context, p *pipeline.Pipeline, repos []*repository.Repository) (*pipeline.Report, error) {
	if !showProgress() {
		return p.Run(ctx, repos)
	}

	bar := progress.NewProgressBar(os.Stderr, len(repos)*len(p.Steps()), p.Name())
	p.Observe(bar.Observe)
	bar.Start()
	defer bar.Stop()
	return p.Run(ctx, repos)
}

// stderrIsTerminal, stdinIsTerminal and confirm are replaced in tests.
var (
	stderrIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stderr.Fd())
	}
	stdinIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd())
	}
	confirm = prompt.Confirm
)

func showProgress() bool {
	return !verbose && !quiet && stderrIsTerminal()
}

// printReport prints the per-repository table and summary lines, or the
// report as JSON.
func printReport(ctx context.Context, rep *pipeline.Report, jsonOutput bool) error {
	out := output.FromContext(ctx)
	if jsonOutput {
		return out.JSON(rep)
	}

	headers := []string{"REPOSITORY", "RESULTS"}
	rows := make([][]string, 0, len(rep.Repositories))
	for _, rr := range rep.Repositories {
		rows = append(rows, []string{rr.Name, styles.FormatResults(rr.Results, len(rep.Steps))})
	}
	out.Table(headers, rows)
	out.Println()
	for _, line := range rep.Summary() {
		out.Println(line)
	}
	return nil
}

// completeRepoNames completes configured repository names.
func completeRepoNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if application == nil {
		if err := setup(cmd); err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	}
	c, err := application.Config()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.Names(), cobra.ShellCompDirectiveNoFileComp
}

// completeGroups completes configured group names.
func completeGroups(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if application == nil {
		if err := setup(cmd); err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	}
	groups, err := application.Groups()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return groups, cobra.ShellCompDirectiveNoFileComp
}

// completeHooks completes hook names from the settings file.
func completeHooks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s := config.FromContext(cmd.Context())
	names := make([]string, 0, len(s.Hooks))
	for name := range s.Hooks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, cobra.ShellCompDirectiveNoFileComp
}
