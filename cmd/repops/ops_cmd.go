package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/forge"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/operation"
	"github.com/repops/repops/internal/output"
	"github.com/repops/repops/internal/repository"
	"github.com/repops/repops/internal/ui/styles"
)

func newPullCmd() *cobra.Command {
	var (
		sel  selection
		opts runOptions
	)

	cmd := &cobra.Command{
		Use:     "pull",
		Short:   "Pull the default branch in every repository",
		GroupID: GroupOperation,
		Args:    cobra.NoArgs,
		Long: `Run "git pull <remote> <default branch>" in every selected repository.

The remote defaults to "origin" and can be changed with the remote setting
or REPOPS_REMOTE.`,
		Example: `  repops pull                 # Pull all repositories
  repops pull -g infra        # Only the infra group
  repops pull -r api -r web   # Only api and web`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, "pull", &sel, &opts, operationEnv().Pull())
		},
	}

	sel.register(cmd)
	opts.register(cmd)
	return cmd
}

func newBranchCmd() *cobra.Command {
	var (
		sel  selection
		opts runOptions
	)

	cmd := &cobra.Command{
		Use:     "branch <name>",
		Short:   "Create and check out a branch in every repository",
		GroupID: GroupOperation,
		Args:    cobra.ExactArgs(1),
		Example: `  repops branch feature/login
  repops branch fix/deps -L python`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("branch name cannot be empty")
			}
			return runSteps(cmd, "branch "+name, &sel, &opts, operationEnv().CreateBranch(name))
		},
	}

	sel.register(cmd)
	opts.register(cmd)
	return cmd
}

// prFlags are the pull request flags shared by pr and pipeline.
type prFlags struct {
	title       string
	description string
	base        string
	draft       bool
	copy        bool
}

// applySettings fills base and draft from the settings file unless the
// flags were given.
func (f *prFlags) applySettings(cmd *cobra.Command) {
	if !cmd.Flags().Changed("base") {
		f.base = settings.PR.Base
	}
	if !cmd.Flags().Changed("draft") {
		f.draft = settings.PR.Draft
	}
}

// params builds PRParams that collect created PRs into created.
func (f *prFlags) params(created *[]createdPR) operation.PRParams {
	return operation.PRParams{
		Title:       f.title,
		Description: f.description,
		Base:        f.base,
		Draft:       f.draft,
		OnCreated: func(repo *repository.Repository, pr *forge.CreatePRResult) {
			*created = append(*created, createdPR{Repo: repo.Name, Number: pr.Number, URL: pr.URL})
		},
	}
}

type createdPR struct {
	Repo   string
	Number int
	URL    string
}

// reportPRs prints created PRs and, with --copy, puts their URLs on the
// clipboard one per line.
func reportPRs(cmd *cobra.Command, created []createdPR, copyURLs bool) error {
	if len(created) == 0 {
		return nil
	}
	out := output.FromContext(cmd.Context())
	out.Println()
	out.Println(styles.Header("Pull requests"))

	urls := make([]string, 0, len(created))
	for _, pr := range created {
		ref := styles.FormatPRRef(pr.Number, pr.URL)
		if ref == "" {
			ref = pr.URL
		}
		out.Printf("  %s  %s\n", pr.Repo, ref)
		urls = append(urls, pr.URL)
	}

	if !copyURLs {
		return nil
	}
	if err := clipboard.WriteAll(strings.Join(urls, "\n")); err != nil {
		log.FromContext(cmd.Context()).Warnf("could not copy to clipboard: %v", err)
		return nil
	}
	log.FromContext(cmd.Context()).Printf("Copied %d URL(s) to the clipboard\n", len(urls))
	return nil
}

func newPrCmd() *cobra.Command {
	var (
		sel  selection
		opts runOptions
		pr   prFlags
	)

	cmd := &cobra.Command{
		Use:     "pr",
		Short:   "Commit, push and open a pull request in every repository",
		GroupID: GroupOperation,
		Args:    cobra.NoArgs,
		Long: `Open a pull request from the current branch of every selected repository.

Uncommitted changes are committed with the title as message, the branch is
pushed to the remote and a PR is created with the CLI of the repository's
server: gh (github), glab (gitlab) or az (azure-devops).

The PR targets --base, the pr.base setting, or the repository's default
branch, in that order.`,
		Example: `  repops pr --title "Bump deps"
  repops pr --title "Fix lint" --description "Autofix" --draft
  repops pr --title "Release" --base release --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(pr.title) == "" {
				return fmt.Errorf("--title cannot be empty")
			}
			pr.applySettings(cmd)
			var created []createdPR
			if err := runSteps(cmd, "pr", &sel, &opts, operationEnv().CreatePullRequest(pr.params(&created))); err != nil {
				return err
			}
			return reportPRs(cmd, created, pr.copy)
		},
	}

	cmd.Flags().StringVarP(&pr.title, "title", "t", "", "PR title, also used as commit message")
	cmd.Flags().StringVarP(&pr.description, "description", "d", "", "PR description")
	cmd.Flags().StringVarP(&pr.base, "base", "b", "", "Base branch (default: pr.base setting or repository default branch)")
	cmd.Flags().BoolVar(&pr.draft, "draft", false, "Create the PR as a draft (default: pr.draft setting)")
	cmd.Flags().BoolVar(&pr.copy, "copy", false, "Copy the created PR URLs to the clipboard")
	cmd.MarkFlagRequired("title")

	sel.register(cmd)
	opts.register(cmd)
	return cmd
}

func newLintCmd() *cobra.Command {
	var (
		sel  selection
		opts runOptions
		fix  bool
	)

	cmd := &cobra.Command{
		Use:     "lint",
		Short:   "Run linters in python and javascript repositories",
		GroupID: GroupOperation,
		Args:    cobra.NoArgs,
		Long: `Lint every selected repository that has a supported language.

python:                 flake8 (autopep8 --in-place --recursive with --fix)
javascript, typescript: npm run lint (npm run lint -- --fix with --fix)

Repositories in other languages are reported as failed and skipped.`,
		Example: `  repops lint
  repops lint --fix -L python`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, "lint", &sel, &opts, operationEnv().Lint(fix))
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Fix problems automatically")
	sel.register(cmd)
	opts.register(cmd)
	return cmd
}

func newBuildCmd() *cobra.Command {
	var (
		sel  selection
		opts runOptions
	)

	cmd := &cobra.Command{
		Use:     "build",
		Short:   "Install and build javascript repositories",
		GroupID: GroupOperation,
		Args:    cobra.NoArgs,
		Long:    `Run "npm install" followed by "npm run build" in every javascript or typescript repository.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, "build", &sel, &opts, operationEnv().Build())
		},
	}

	sel.register(cmd)
	opts.register(cmd)
	return cmd
}

func newTestCmd() *cobra.Command {
	var (
		sel  selection
		opts runOptions
		path string
	)

	cmd := &cobra.Command{
		Use:     "test",
		Short:   "Run unit tests in python repositories",
		GroupID: GroupOperation,
		Args:    cobra.NoArgs,
		Long: `Run "pytest -v" in every python repository.

Tests are collected from --path, the test.path setting, or the repository's
tests directory.`,
		Example: `  repops test
  repops test --path tests/unit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("path") {
				path = settings.Test.Path
			}
			return runSteps(cmd, "test", &sel, &opts, operationEnv().UnitTest(path))
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Test path passed to pytest (default: test.path setting or tests/)")
	sel.register(cmd)
	opts.register(cmd)
	return cmd
}
