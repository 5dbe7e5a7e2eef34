package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"reorg/internal/engine"
	"reorg/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent journaled batches, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			summaries, err := eng.History(cmd.Context(), engine.HistoryRequest{Limit: limit})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summaries)
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No batches recorded.")
				return nil
			}
			if !stdoutIsTTY() {
				for _, s := range summaries {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%d\n",
						s.ID, formatTimestamp(s.Timestamp), s.Mode, s.Path, s.Count)
				}
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(summaries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum batches to list (0 uses the configured default)")
	return cmd
}

// renderHistoryTable lays out batch summaries for interactive terminals.
func renderHistoryTable(summaries []journal.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Timestamp", "Mode", "Path", "Ops"})
	for _, s := range summaries {
		tw.AppendRow(table.Row{s.ID, formatTimestamp(s.Timestamp), s.Mode, s.Path, s.Count})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
