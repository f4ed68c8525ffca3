package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/app"
	"github.com/repops/repops/internal/config"
	"github.com/repops/repops/internal/forge"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/output"
	"github.com/repops/repops/internal/repository"
	"github.com/repops/repops/internal/ui/progress"
	"github.com/repops/repops/internal/ui/static"
	"github.com/repops/repops/internal/ui/styles"
)

// serverAuto asks add-repo to detect the server type from the URL.
const serverAuto = "auto"

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the health of the repos file",
		GroupID: GroupRegistry,
		Args:    cobra.NoArgs,
		Long: `Load the repos file and report validation problems.

Relative paths, blank URLs and blank default branches are reported as
issues. A repos file that cannot be loaded is reported, not fatal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			st := application.Status()
			if jsonOutput {
				return out.JSON(st)
			}

			out.Println(styles.Header("Repos file: ") + st.Config.Path)
			if st.Error == "" {
				out.Printf("Repositories: %d\n", st.Config.TotalRepositories)
			}
			if st.Healthy {
				out.Println(styles.FormatCheck(true, true) + " Configuration is valid")
				return nil
			}
			out.Printf("%s %d issue(s):\n", styles.FormatCheck(true, false), len(st.ValidationIssues))
			for _, issue := range st.ValidationIssues {
				out.Printf("  - %s\n", issue)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newListReposCmd() *cobra.Command {
	var (
		group      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list-repos",
		Short:   "List configured repositories",
		Aliases: []string{"ls"},
		GroupID: GroupRegistry,
		Args:    cobra.NoArgs,
		Example: `  repops list-repos
  repops list-repos -g infra
  repops list-repos --json | jq '.[].name'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			var (
				repos []*repository.Repository
				err   error
			)
			if group != "" {
				repos, err = application.RepositoriesByGroup(group)
			} else {
				repos, err = application.AllRepositories()
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				if repos == nil {
					repos = []*repository.Repository{}
				}
				return out.JSON(repos)
			}
			if len(repos) == 0 {
				log.FromContext(cmd.Context()).Println("No repositories configured.")
				return nil
			}

			headers := []string{"NAME", "GROUP", "SERVER", "LANGUAGE", "BRANCH", "PATH"}
			rows := make([][]string, 0, len(repos))
			for _, r := range repos {
				rows = append(rows, []string{r.Name, r.Group, r.ServerType.String(), r.Language, r.DefaultBranch, r.LocalPath})
			}
			out.Table(headers, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Only repositories in this group")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.RegisterFlagCompletionFunc("group", completeGroups)
	return cmd
}

// loadOrCreate loads the repos file, starting an empty one if it does not
// exist yet.
func loadOrCreate(cmd *cobra.Command) error {
	if _, err := application.Config(); err != nil {
		if !errors.Is(err, config.ErrNotFound) {
			return err
		}
		log.FromContext(cmd.Context()).Debug("repos file missing, starting empty", "path", application.ConfigPath())
		application.CreateNewConfig()
	}
	return nil
}

func newAddRepoCmd() *cobra.Command {
	var (
		group    string
		language string
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:     "add-repo <name> <url> <server> <path> <branch>",
		Short:   "Add a repository to the repos file",
		GroupID: GroupRegistry,
		Args:    cobra.ExactArgs(5),
		Long: `Add a repository, or replace the one with the same name.

SERVER is one of github, gitlab, azure-devops, or "auto" to detect it from
the URL. PATH is made absolute. The repos file is created if it does not
exist.`,
		Example: `  repops add-repo api git@github.com:org/api.git github ~/src/api main -L python
  repops add-repo web https://gitlab.com/org/web.git auto ./web master -g frontend`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 2:
				opts := []string{serverAuto}
				for _, st := range repository.ServerTypes() {
					opts = append(opts, st.String())
				}
				return opts, cobra.ShellCompDirectiveNoFileComp
			case 3:
				return nil, cobra.ShellCompDirectiveFilterDirs
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			name, url, server, path, branch := args[0], args[1], args[2], args[3], args[4]

			if server == serverAuto {
				server = forge.Detect(url).String()
				l.Debug("detected server type", "url", url, "server", server)
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			if err := loadOrCreate(cmd); err != nil {
				return err
			}
			r, err := application.AddRepository(ctx, name, url, server, abs, branch, group, language)
			if err != nil {
				return err
			}

			if !noSave {
				if err := application.SaveConfig(ctx); err != nil {
					return fmt.Errorf("save repos file: %w", err)
				}
			}
			l.Printf("Added %s (%s, group %s)\n", r.Name, r.ServerType, r.Group)
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Group to add the repository to")
	cmd.Flags().StringVarP(&language, "language", "L", "", "Repository language (python, javascript, typescript, ...)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the repos file")
	cmd.RegisterFlagCompletionFunc("group", completeGroups)
	return cmd
}

func newRemoveRepoCmd() *cobra.Command {
	var (
		noSave bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:               "remove-repo <name>",
		Short:             "Remove a repository from the repos file",
		Aliases:           []string{"rm-repo"},
		GroupID:           GroupRegistry,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRepoNames,
		Long: `Remove a repository from the repos file. The local clone is not touched.

When stdin is a terminal, asks for confirmation unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			if _, err := application.Repository(args[0]); err != nil {
				return err
			}

			if !yes && stdinIsTerminal() {
				res, err := confirm(os.Stdin, os.Stderr, fmt.Sprintf("Remove %s from the repos file?", args[0]))
				if err != nil {
					return err
				}
				if res.Cancelled || !res.Confirmed {
					l.Println("Aborted")
					return nil
				}
			}

			if _, err := application.RemoveRepository(ctx, args[0]); err != nil {
				return err
			}
			if !noSave {
				if err := application.SaveConfig(ctx); err != nil {
					return fmt.Errorf("save repos file: %w", err)
				}
			}
			l.Printf("Removed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the repos file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newCheckReposCmd() *cobra.Command {
	var (
		names      []string
		noRemote   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "check-repos",
		Short:   "Check that repositories exist locally and remotely",
		GroupID: GroupRegistry,
		Args:    cobra.NoArgs,
		Long: `Check every repository: the local path must be a git repository and the
URL must answer a reference listing. Remote checks can be skipped with
--no-remote.`,
		Example: `  repops check-repos
  repops check-repos --name api --no-remote`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repos, err := application.Select(app.Filter{Names: names})
			if err != nil {
				return err
			}
			opts := app.CheckOptions{SkipRemote: noRemote}

			var sp *progress.Spinner
			if showProgress() && !jsonOutput {
				sp = progress.NewSpinner(os.Stderr, "Checking repositories...")
				sp.Start()
			}
			results := make([]app.Availability, 0, len(repos))
			for _, r := range repos {
				if err := ctx.Err(); err != nil {
					if sp != nil {
						sp.Stop()
					}
					return err
				}
				if sp != nil {
					sp.UpdateMessage("Checking " + r.Name + "...")
				}
				results = append(results, application.CheckRepository(ctx, r, opts))
			}
			if sp != nil {
				sp.Stop()
			}

			if jsonOutput {
				return out.JSON(results)
			}
			printAvailability(out, results)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&names, "name", "n", nil, "Only check these repositories (repeatable)")
	cmd.Flags().BoolVar(&noRemote, "no-remote", false, "Skip remote checks")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.RegisterFlagCompletionFunc("name", completeRepoNames)
	return cmd
}

func printAvailability(out *output.Printer, results []app.Availability) {
	headers := []string{"NAME", "LOCAL", "REMOTE", "PATH"}
	rows := make([][]string, 0, len(results))
	for _, av := range results {
		rows = append(rows, []string{
			av.Name,
			styles.FormatCheck(true, av.LocalExists),
			styles.FormatCheck(av.RemoteChecked, av.RemoteAccessible),
			av.LocalPath,
		})
	}
	out.Table(headers, rows)

	failed := slices.DeleteFunc(slices.Clone(results), app.Availability.OK)
	if len(failed) == 0 {
		return
	}
	out.Println()
	for _, av := range failed {
		out.Printf("%s: %s\n", av.Name, strings.Join(av.Errors, "; "))
	}
}

func newConfigInfoCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "config-info",
		Short:   "Summarize the repos file",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			if _, err := application.Config(); err != nil {
				return err
			}
			info := application.ConfigInfo()
			if jsonOutput {
				return out.JSON(info)
			}

			out.Fields(
				static.Field{Label: "Repos file", Value: info.Path},
				static.Field{Label: "Repositories", Value: fmt.Sprint(info.TotalRepositories)},
			)

			groups, err := application.Groups()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, g := range groups {
				if n := info.Groups[g]; n > 0 {
					rows = append(rows, []string{g, fmt.Sprint(n)})
				}
			}
			if len(rows) > 0 {
				out.Println()
				out.Table([]string{"GROUP", "REPOSITORIES"}, rows)
			}

			rows = rows[:0]
			for _, st := range repository.ServerTypes() {
				if n := info.ServerTypes[st]; n > 0 {
					rows = append(rows, []string{st.String(), fmt.Sprint(n)})
				}
			}
			if len(rows) > 0 {
				out.Println()
				out.Table([]string{"SERVER", "REPOSITORIES"}, rows)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
