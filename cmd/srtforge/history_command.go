package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"srtforge/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				runs, err := store.RecentRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No recorded runs yet")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						run.Folder,
						run.Profile,
						run.Status,
						fmt.Sprintf("%d/%d", run.Succeeded, run.FilesTotal),
						fmt.Sprintf("%d", run.Skipped),
						fmt.Sprintf("%d", run.Failed),
						runDuration(run),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Folder", "Profile", "Status", "OK", "Skip", "Fail", "Duration"},
					rows, nil, 6, 7, 8, 9,
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-file outcomes for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				runID, err := resolveRunID(cmd, store, args[0])
				if err != nil {
					return err
				}
				records, err := store.FilesForRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintf(out, "No file records for run %s\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.Path,
						record.Outcome,
						formatDuration(time.Duration(record.Seconds * float64(time.Second))),
						record.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"File", "Outcome", "Time", "Detail"},
					rows, nil, 3,
				))
				return nil
			})
		},
	}
}

func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.Paths.StateDir)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// resolveRunID accepts either a full run id or the shortened prefix the list
// view prints.
func resolveRunID(cmd *cobra.Command, store *history.Store, value string) (string, error) {
	if len(value) >= 36 {
		return value, nil
	}
	runs, err := store.RecentRuns(cmd.Context(), 1000)
	if err != nil {
		return "", err
	}
	matched := ""
	for _, run := range runs {
		if shortID(run.ID) == value || run.ID == value {
			if matched != "" {
				return "", fmt.Errorf("run id %q is ambiguous", value)
			}
			matched = run.ID
		}
	}
	if matched == "" {
		return "", fmt.Errorf("no run matches %q", value)
	}
	return matched, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDuration(run history.Run) string {
	if run.FinishedAt.IsZero() || run.StartedAt.IsZero() {
		return "-"
	}
	return formatDuration(run.FinishedAt.Sub(run.StartedAt))
}
