// Package executor applies or previews plans: conflict resolution per move,
// a bounded worker pool for file-level operations, mutex-guarded outcome
// tallies, and throttled progress reporting. Per-item failures are recorded
// and never abort the batch.
package executor
