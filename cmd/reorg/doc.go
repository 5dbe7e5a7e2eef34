// Package main hosts the reorg CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into engine
// requests: dissolving wrapper directories, migrating file sets, batch
// renaming, undoing journaled batches, and listing history. It centralizes
// configuration resolution, journal setup, and structured logging so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
