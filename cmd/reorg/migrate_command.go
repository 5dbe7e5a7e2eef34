package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reorg/internal/config"
	"reorg/internal/engine"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var (
		target       string
		mode         string
		copyItems    bool
		fileConflict string
		dirConflict  string
		exclude      string
		preview      bool
		workers      int
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "migrate <source>... --target <dir>",
		Short: "Move or copy file sets into a new layout",
		Long: `Move or copy file sets into a new layout.

Modes:
  preserve  keep each source's directory structure under the target
  flat      place each source's immediate files directly under the target
  direct    move each source as a unit, merging same-named directories`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			sources := make([]string, 0, len(args))
			for _, arg := range args {
				src, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				sources = append(sources, src)
			}
			expandedTarget, err := config.ExpandPath(target)
			if err != nil {
				return err
			}
			obs, closeObs := runObservers(cmd, quiet)
			defer closeObs()

			resp, err := eng.Migrate(cmd.Context(), engine.MigrateRequest{
				Sources:        sources,
				Target:         expandedTarget,
				Mode:           mode,
				Copy:           copyItems,
				FileConflict:   fileConflict,
				DirConflict:    dirConflict,
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
				return fmt.Errorf("migrate completed with %d error(s)", resp.ErrorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "d", "", "Destination directory (required)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "preserve", "Migration mode: preserve, flat, direct")
	cmd.Flags().BoolVar(&copyItems, "copy", false, "Copy instead of move (not undoable, never journaled)")
	cmd.Flags().StringVar(&fileConflict, "file-conflict", "auto", "File conflict policy: auto, skip, overwrite, rename")
	cmd.Flags().StringVar(&dirConflict, "dir-conflict", "auto", "Directory conflict policy: auto, skip, overwrite, rename")
	cmd.Flags().StringVarP(&exclude, "exclude", "e", "", "Comma-separated keywords; matching paths are skipped")
	cmd.Flags().BoolVarP(&preview, "preview", "n", false, "Show what would happen without changing anything")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool bound (0 uses the configured default)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
