// Package preflight verifies run prerequisites before any filesystem
// mutation happens: root directories must exist and carry read/write/execute
// permission. A failed check aborts the whole run with an actionable message
// rather than failing mid-batch.
package preflight
