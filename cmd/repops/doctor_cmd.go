package main

import (
	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/doctor"
	"github.com/repops/repops/internal/output"
	"github.com/repops/repops/internal/repository"
	"github.com/repops/repops/internal/ui/styles"
)

// doctorEnv is replaced in tests.
var doctorEnv = func() doctor.Env { return doctor.NewEnv(runner) }

func newDoctorCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Check that the tools operations need are installed",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Check the environment operations run in:

  - git and the language tools configured repositories need
    (flake8, autopep8 and pytest for python, npm for javascript/typescript)
  - gh, glab and az for the server types in use, including authentication
  - validation problems in the repos file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repos, err := application.AllRepositories()
			var issues []string
			if err != nil {
				issues = []string{err.Error()}
			} else {
				issues = application.ValidateConfig()
			}

			rep := doctor.Run(ctx, doctorEnv(), repos, issues)
			if rep.Issues == nil {
				rep.Issues = []doctor.Issue{}
			}
			if jsonOutput {
				return out.JSON(rep)
			}
			printDoctor(out, rep, repos)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

var categoryNames = map[doctor.IssueCategory]string{
	doctor.CategoryTools:  "Tool issues",
	doctor.CategoryForge:  "Forge issues",
	doctor.CategoryConfig: "Config issues",
}

func printDoctor(out *output.Printer, rep doctor.Report, repos []*repository.Repository) {
	out.Printf("Checked %d item(s) for %d repositories\n", rep.Checked, len(repos))
	if rep.OK() {
		out.Println(styles.FormatCheck(true, true) + " No issues found")
		return
	}

	for _, cat := range doctor.Categories {
		issues := rep.ByCategory(cat)
		if len(issues) == 0 {
			continue
		}
		out.Printf("\n%s:\n", categoryNames[cat])
		for _, issue := range issues {
			out.Printf("  %s %s: %s\n", styles.FormatCheck(true, false), issue.Key, issue.Description)
			if issue.Hint != "" {
				out.Printf("      %s\n", styles.MutedStyle.Render(issue.Hint))
			}
		}
	}
}
