// Package fileutil provides the low-level filesystem primitives shared by the
// planner, executor, and journal: copying, moving with cross-device fallback,
// deterministic directory listing, and empty-subtree removal.
//
// Moves prefer os.Rename and fall back to copy + remove when the rename
// crosses filesystems, so callers never need to care where a path lives.
package fileutil
