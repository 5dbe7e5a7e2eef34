package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reorg/internal/engine"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo [batch-id]",
		Short: "Reverse a journaled batch (most recent when no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			req := engine.UndoRequest{}
			if len(args) == 1 {
				req.BatchID = args[0]
			}
			resp, err := eng.Undo(cmd.Context(), req)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Batch %s: %s\n", resp.BatchID, resp.Message)
			if resp.FailedCount > 0 {
				return fmt.Errorf("undo completed with %d failed step(s)", resp.FailedCount)
			}
			return nil
		},
	}
	return cmd
}
