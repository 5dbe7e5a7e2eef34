// Package similarity scores name similarity and gates structural matches.
//
// The ratio is a longest-matching-blocks edit similarity in [0, 1]: the
// longest common substring is located and the flanking regions are matched
// recursively, mirroring the classic sequence-matcher ratio. Names are
// normalized before comparison (extension stripped for filename-looking
// strings, Unicode case folding applied).
//
// A Gate wraps the ratio with an acceptance threshold; a threshold of zero
// disables gating so every candidate is accepted.
package similarity
