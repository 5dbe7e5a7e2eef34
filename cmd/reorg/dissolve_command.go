package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reorg/internal/config"
	"reorg/internal/engine"
)

func newDissolveCommand(ctx *commandContext) *cobra.Command {
	var (
		modes        []string
		fileConflict string
		dirConflict  string
		exclude      string
		threshold    float64
		noSimilarity bool
		preview      bool
		workers      int
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "dissolve <path>",
		Short: "Collapse redundant wrapper directories under a path",
		Long: `Collapse redundant wrapper directories under a path.

Modes:
  nested   a folder holding exactly one subfolder and no files
  archive  a folder holding exactly one archive file and nothing else
  media    a folder holding exactly one media file and nothing else
  direct   move the folder's entries into its parent and delete it`,
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
			obs, closeObs := runObservers(cmd, quiet)
			defer closeObs()

			resp, err := eng.Dissolve(cmd.Context(), engine.DissolveRequest{
				Source:              source,
				Modes:               modes,
				FileConflict:        fileConflict,
				DirConflict:         dirConflict,
				Exclude:             exclude,
				SimilarityThreshold: threshold,
				EnableSimilarity:    !noSimilarity,
				Preview:             preview,
				MaxConcurrency:      workers,
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
				return fmt.Errorf("dissolve completed with %d error(s)", resp.ErrorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&modes, "mode", "m", []string{"nested"}, "Dissolve modes: nested, archive, media, direct")
	cmd.Flags().StringVar(&fileConflict, "file-conflict", "auto", "File conflict policy: auto, skip, overwrite, rename")
	cmd.Flags().StringVar(&dirConflict, "dir-conflict", "auto", "Directory conflict policy: auto, skip, overwrite, rename")
	cmd.Flags().StringVarP(&exclude, "exclude", "e", "", "Comma-separated keywords; matching paths are skipped")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", -1, "Similarity threshold (0 disables the gate, negative uses the configured default)")
	cmd.Flags().BoolVar(&noSimilarity, "no-similarity", false, "Disable the similarity gate")
	cmd.Flags().BoolVarP(&preview, "preview", "n", false, "Show what would happen without changing anything")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool bound (0 uses the configured default)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	return cmd
}
