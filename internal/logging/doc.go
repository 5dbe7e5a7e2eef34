// Package logging builds slog loggers with console and JSON output and the
// attribute helpers used across the codebase.
//
// The console handler prints one line per record with the component attribute
// promoted into the message prefix. Every engine run carries a run_id
// correlation attribute propagated through context.
package logging
