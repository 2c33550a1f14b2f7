package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"autotitle/internal/organizer"
)

func relTo(root, path string) string {
	if path == "" {
		return "-"
	}
	if rel, err := filepath.Rel(filepath.Dir(root), path); err == nil {
		return rel
	}
	return path
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var overrides []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "preview <root>",
		Short: "Show the renames and folder operations apply would perform",
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
			if err := applyOverrides(plan, overrides); err != nil {
				return err
			}
			ops := manager.Preview(plan)
			if jsonOutput {
				if ops == nil {
					ops = []organizer.FolderOp{}
				}
				return writeJSON(cmd, ops)
			}
			out := cmd.OutOrStdout()
			if len(ops) == 0 {
				fmt.Fprintln(out, "Nothing to do")
				return nil
			}
			rows := make([][]string, 0, len(ops))
			for _, op := range ops {
				rows = append(rows, []string{string(op.Action), relTo(plan.Root, op.Source), relTo(plan.Root, op.Destination), op.Reason})
			}
			fmt.Fprintln(out, renderTable([]string{"Action", "From", "To", "Reason"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "Override a canonical name (path=name); repeatable")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
