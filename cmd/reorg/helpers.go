package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reorg/internal/engine"
	"reorg/internal/executor"
)

// writeJSON emits v as indented JSON on the command's stdout, for --json
// consumers that parse the response structs directly.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runObservers wires progress and log lines to the command's stderr. On a
// TTY, progress updates rewrite a single status line; otherwise they are
// suppressed in favor of the final summary.
func runObservers(cmd *cobra.Command, quiet bool) (engine.Observers, func()) {
	obs := engine.Observers{
		Logs: executor.LogFunc(func(level, message string) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", level, message)
		}),
	}
	if quiet || !stdoutIsTTY() {
		return obs, func() {}
	}
	buffered := executor.NewBuffered(executor.ProgressFunc(func(p executor.Progress) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\r%3.0f%% (%d/%d)", p.Percent, p.Done, p.Total)
		if p.Percent >= 100 {
			fmt.Fprintln(cmd.ErrOrStderr())
		}
	}), 64)
	obs.Progress = buffered
	return obs, buffered.Close
}

func formatTimestamp(ts time.Time) string {
	return ts.Local().Format("2006-01-02 15:04:05")
}
