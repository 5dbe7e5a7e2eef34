// Package engine orchestrates the reorganization use cases: each request is
// preflighted, planned, gated, conflict-resolved, executed, and journaled in
// one cycle, always returning a structured response.
package engine
