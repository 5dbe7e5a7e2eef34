// Package journal durably records applied operations per run as batches,
// one JSON file per batch under a locked per-user directory, and replays a
// batch in reverse to undo it.
package journal
