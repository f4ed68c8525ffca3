package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/history"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/output"
	"github.com/repops/repops/internal/ui/static"
	"github.com/repops/repops/internal/ui/styles"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "history [run-id]",
		Short:   "List recent operation runs",
		GroupID: GroupOperation,
		Args:    cobra.MaximumNArgs(1),
		Long: `List the most recent operation runs, newest first.

With a run ID (or a unique prefix of one) the steps and failed repositories
of that run are shown.`,
		Example: `  repops history
  repops history -n 5
  repops history 3f2a`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			path, err := historyPath()
			if err != nil {
				return err
			}
			h, err := history.Load(path)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			if len(args) == 1 {
				e, ok := h.Find(args[0])
				if !ok {
					return fmt.Errorf("no unique run matches %q", args[0])
				}
				if jsonOutput {
					return out.JSON(e)
				}
				printRun(out, e)
				return nil
			}

			entries := h.Entries
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				return out.JSON(entries)
			}
			if len(entries) == 0 {
				log.FromContext(ctx).Println("No runs recorded.")
				return nil
			}

			headers := []string{"RUN", "PIPELINE", "STARTED", "DURATION", "REPOS", "FAILED"}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					shortID(e.RunID),
					e.Pipeline,
					e.StartedAt.Local().Format(time.DateTime),
					e.Duration.Round(time.Millisecond).String(),
					fmt.Sprint(e.Repositories),
					fmt.Sprint(len(e.Failed)),
				})
			}
			out.Table(headers, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printRun(out *output.Printer, e history.Entry) {
	out.Println(styles.Header("Run ") + e.RunID)
	out.Fields(
		static.Field{Label: "Pipeline", Value: e.Pipeline},
		static.Field{Label: "Started", Value: fmt.Sprintf("%s (%s)", e.StartedAt.Local().Format(time.DateTime), e.Duration.Round(time.Millisecond))},
		static.Field{Label: "Steps", Value: strings.Join(e.Steps, ", ")},
		static.Field{Label: "Repositories", Value: fmt.Sprintf("%d, failed: %d", e.Repositories, len(e.Failed))},
	)
	for _, name := range e.Failed {
		out.Printf("  %s %s\n", styles.FormatCheck(true, false), name)
	}
}
