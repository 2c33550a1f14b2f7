package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List previous apply runs, or the operations of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()
			out := cmd.OutOrStdout()

			if pruneDays > 0 {
				removed, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -pruneDays))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d runs older than %d days\n", removed, pruneDays)
				return nil
			}

			if len(args) == 1 {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("no run matches %q", args[0])
				}
				ops, err := store.Operations(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Run %s on %s (%s)\n", run.ID, run.Root, formatTimestamp(run.StartedAt))
				if len(ops) == 0 {
					fmt.Fprintln(out, "No operations recorded")
					return nil
				}
				rows := make([][]string, 0, len(ops))
				for _, op := range ops {
					rows = append(rows, []string{op.Action, dash(op.Source), dash(op.Destination), op.Reason, dash(op.Error)})
				}
				fmt.Fprintln(out, renderTable([]string{"Action", "From", "To", "Reason", "Error"}, rows, nil))
				return nil
			}

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					formatTimestamp(run.StartedAt),
					run.Root,
					strconv.Itoa(run.Scanned),
					strconv.Itoa(run.Stats.FilesRenamed),
					strconv.Itoa(run.Stats.FilesMoved),
					strconv.Itoa(run.Stats.FoldersCreated + run.Stats.FoldersRenamed),
					strconv.Itoa(run.Errors),
					yesNo(run.Finished()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Root", "Files", "Renamed", "Moved", "Folders", "Errors", "Done"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().IntVar(&pruneDays, "prune-days", 0, "Delete runs older than this many days")
	return cmd
}
