package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autotitle/internal/workflow"
)

// parseOverrides splits repeated --set path=name flags.
func parseOverrides(values []string) ([][2]string, error) {
	out := make([][2]string, 0, len(values))
	for _, value := range values {
		path, name, ok := strings.Cut(value, "=")
		if !ok || strings.TrimSpace(path) == "" || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q (want path=name)", value)
		}
		out = append(out, [2]string{strings.TrimSpace(path), strings.TrimSpace(name)})
	}
	return out, nil
}

func applyOverrides(plan *workflow.Plan, values []string) error {
	overrides, err := parseOverrides(values)
	if err != nil {
		return err
	}
	for _, o := range overrides {
		if err := plan.Override(o[0], o[1]); err != nil {
			return err
		}
	}
	return nil
}

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var overrides []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "apply <root>",
		Short: "Rename resolved files and organize them into show and season folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, cleanup, err := ctx.newManager(true)
			if err != nil {
				return err
			}
			defer cleanup()

			plan, err := manager.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := applyOverrides(plan, overrides); err != nil {
				return err
			}
			report, err := manager.Apply(cmd.Context(), plan)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, scanView{
					RunID:      report.RunID,
					Root:       report.Root,
					CacheReady: plan.CacheReady,
					Items:      newScanItemViews(plan.Root, report.Items),
					Stats:      &report.Stats,
				})
			}
			out := cmd.OutOrStdout()
			if len(report.Items) == 0 {
				fmt.Fprintf(out, "No media files found under %s\n", plan.Root)
				return nil
			}
			writeItemsTable(out, plan.Root, report.Items, false)
			writeCounts(out, report.Counts)
			fmt.Fprintf(out, "Folders created: %d, folders renamed: %d, files moved: %d, files renamed: %d\n",
				report.Stats.FoldersCreated, report.Stats.FoldersRenamed, report.Stats.FilesMoved, report.Stats.FilesRenamed)
			if report.Root != plan.Root {
				fmt.Fprintf(out, "Scan root is now %s\n", report.Root)
			}
			fmt.Fprintf(out, "Run %s\n", report.RunID)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "Override a canonical name (path=name); repeatable")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
