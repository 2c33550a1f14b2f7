package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autotitle/internal/media"
	"autotitle/internal/workflow"
)

type scanItemView struct {
	Path       string   `json:"path"`
	Status     string   `json:"status"`
	Provenance string   `json:"provenance,omitempty"`
	Canonical  string   `json:"canonical_name,omitempty"`
	Target     string   `json:"target_path,omitempty"`
	Options    []string `json:"options,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type scanView struct {
	RunID      string         `json:"run_id"`
	Root       string         `json:"root"`
	CacheReady bool           `json:"cache_ready"`
	Items      []scanItemView `json:"items"`
	Stats      *media.Stats   `json:"stats,omitempty"`
}

func newScanItemViews(root string, items []media.ScanItem) []scanItemView {
	views := make([]scanItemView, 0, len(items))
	for _, item := range items {
		rel, err := filepath.Rel(root, item.OriginalPath)
		if err != nil {
			rel = item.OriginalPath
		}
		view := scanItemView{
			Path:       rel,
			Status:     string(item.Status),
			Provenance: string(item.Provenance),
			Canonical:  item.CanonicalName,
			Target:     item.Path(),
			Options:    item.Options,
		}
		if item.Err != nil {
			view.Error = item.Err.Error()
		}
		views = append(views, view)
	}
	return views
}

func writeItemsTable(out io.Writer, root string, items []media.ScanItem, showOptions bool) {
	colorize := shouldColorize(out)
	headers := []string{"#", "File", "Status", "Source", "Canonical Name"}
	if showOptions {
		headers = append(headers, "Options")
	}
	rows := make([][]string, 0, len(items))
	for i, view := range newScanItemViews(root, items) {
		row := []string{
			strconv.Itoa(i + 1),
			view.Path,
			statusLabel(media.Status(view.Status), colorize),
			dash(view.Provenance),
			dash(view.Canonical),
		}
		if view.Error != "" {
			row[4] = view.Error
		}
		if showOptions {
			row = append(row, dash(strings.Join(view.Options, " | ")))
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight}))
}

func writeCounts(out io.Writer, counts workflow.Counts) {
	fmt.Fprintf(out, "%d files: %d resolved, %d unresolved, %d errors\n",
		counts.Total, counts.Resolved, counts.Unresolved, counts.Errors)
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var showOptions bool

	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Resolve canonical names for media files without changing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, cleanup, err := ctx.newManager(false)
			if err != nil {
				return err
			}
			defer cleanup()

			plan, err := manager.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, scanView{
					RunID:      plan.RunID,
					Root:       plan.Root,
					CacheReady: plan.CacheReady,
					Items:      newScanItemViews(plan.Root, plan.Items),
				})
			}
			out := cmd.OutOrStdout()
			if len(plan.Items) == 0 {
				fmt.Fprintf(out, "No media files found under %s\n", plan.Root)
				return nil
			}
			writeItemsTable(out, plan.Root, plan.Items, showOptions)
			writeCounts(out, workflow.CountItems(plan.Items))
			if !plan.CacheReady {
				fmt.Fprintln(out, "Knowledge cache was not ready; run `autotitle cache populate` for better offline matches.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showOptions, "options", false, "Show every candidate name")
	return cmd
}
