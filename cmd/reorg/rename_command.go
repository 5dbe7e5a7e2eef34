package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reorg/internal/config"
	"reorg/internal/engine"
	"reorg/internal/plan"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var (
		template     string
		manifestPath string
		fileConflict string
		exclude      string
		preview      bool
		workers      int
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "rename <path>",
		Short: "Batch-rename a directory's entries from a template",
		Long: `Batch-rename a directory's entries from a template.

Template fields: {name} {stem} {ext} {index} {date}, plus any field
supplied per item in a JSON manifest (e.g. {description}). The description
field and the final name are truncated to the configured maximums.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			var items []plan.RenameItem
			if manifestPath != "" {
				expanded, err := config.ExpandPath(manifestPath)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(expanded)
				if err != nil {
					return fmt.Errorf("read manifest: %w", err)
				}
				if err := json.Unmarshal(data, &items); err != nil {
					return fmt.Errorf("parse manifest: %w", err)
				}
			}
			obs, closeObs := runObservers(cmd, quiet)
			defer closeObs()

			resp, err := eng.Rename(cmd.Context(), engine.RenameRequest{
				Source:         source,
				Items:          items,
				Template:       template,
				FileConflict:   fileConflict,
				Exclude:        exclude,
				Preview:        preview,
				MaxConcurrency: workers,
			}, obs)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Message)
			if resp.OperationID != "" {
				fmt.Fprintf(out, "Undo with: reorg undo %s\n", resp.OperationID)
			}
			if resp.ErrorCount > 0 {
				return fmt.Errorf("rename completed with %d error(s)", resp.ErrorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "T", "", "Naming template (required)")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "JSON manifest of items with per-item fields")
	cmd.Flags().StringVar(&fileConflict, "file-conflict", "auto", "File conflict policy: auto, skip, overwrite, rename")
	cmd.Flags().StringVarP(&exclude, "exclude", "e", "", "Comma-separated keywords; matching paths are skipped")
	cmd.Flags().BoolVarP(&preview, "preview", "n", false, "Show what would happen without changing anything")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool bound (0 uses the configured default)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
