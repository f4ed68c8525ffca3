package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/pipeline"
)

// pipelineFlags selects the steps of a pipeline run.
type pipelineFlags struct {
	pull   bool
	branch string
	lint   bool
	fix    bool
	build  bool
	test   bool
	pr     bool
	prs    prFlags
}

// steps returns the selected steps in their fixed order:
// pull, branch, lint, build, test, pr.
func (f *pipelineFlags) steps(created *[]createdPR) []pipeline.Step {
	env := operationEnv()
	var steps []pipeline.Step
	if f.pull {
		steps = append(steps, env.Pull())
	}
	if f.branch != "" {
		steps = append(steps, env.CreateBranch(f.branch))
	}
	if f.lint {
		steps = append(steps, env.Lint(f.fix))
	}
	if f.build {
		steps = append(steps, env.Build())
	}
	if f.test {
		steps = append(steps, env.UnitTest(settings.Test.Path))
	}
	if f.pr {
		steps = append(steps, env.CreatePullRequest(f.prs.params(created)))
	}
	return steps
}

func newPipelineCmd() *cobra.Command {
	var (
		sel  selection
		opts runOptions
		f    pipelineFlags
	)

	cmd := &cobra.Command{
		Use:     "pipeline",
		Short:   "Run several operations in sequence on every repository",
		GroupID: GroupOperation,
		Args:    cobra.NoArgs,
		Long: `Run the selected operations on every repository, one repository at a time.

Steps always run in this order: pull, branch, lint, build, test, pr.
For each repository the run stops at the first step that fails; the
remaining repositories still run. Steps that do not apply to a
repository's language count as failed.

A summary "N/M operations succeeded" is printed per repository. With --json
the full run report is printed instead.`,
		Example: `  repops pipeline --pull --lint --test
  repops pipeline --branch chore/deps --build --pr --pr-title "Bump deps"
  repops pipeline --pull --json --report run.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.fix && !f.lint {
				return fmt.Errorf("--fix requires --lint")
			}
			if f.pr {
				if strings.TrimSpace(f.prs.title) == "" {
					return fmt.Errorf("--pr requires --pr-title")
				}
				f.prs.applySettings(cmd)
			}

			var created []createdPR
			steps := f.steps(&created)
			if len(steps) == 0 {
				return fmt.Errorf("no operations selected (use --pull, --branch, --lint, --build, --test or --pr)")
			}

			if err := runSteps(cmd, "pipeline", &sel, &opts, steps...); err != nil {
				return err
			}
			return reportPRs(cmd, created, f.prs.copy)
		},
	}

	cmd.Flags().BoolVar(&f.pull, "pull", false, "Pull the default branch")
	cmd.Flags().StringVar(&f.branch, "branch", "", "Create and check out branch `NAME`")
	cmd.Flags().BoolVar(&f.lint, "lint", false, "Run linters")
	cmd.Flags().BoolVar(&f.fix, "fix", false, "Let linters fix problems (with --lint)")
	cmd.Flags().BoolVar(&f.build, "build", false, "Install and build javascript repositories")
	cmd.Flags().BoolVar(&f.test, "test", false, "Run python unit tests")
	cmd.Flags().BoolVar(&f.pr, "pr", false, "Open a pull request")
	cmd.Flags().StringVar(&f.prs.title, "pr-title", "", "Pull request title")
	cmd.Flags().StringVar(&f.prs.description, "pr-description", "", "Pull request description")
	cmd.Flags().StringVar(&f.prs.base, "base", "", "Pull request base branch")
	cmd.Flags().BoolVar(&f.prs.draft, "draft", false, "Open the pull request as a draft")
	cmd.Flags().BoolVar(&f.prs.copy, "copy", false, "Copy created PR URLs to the clipboard")

	sel.register(cmd)
	opts.register(cmd)
	return cmd
}
