// Package conflict decides the effective destination for a planned move
// whose destination already exists. The resolver only decides; carrying out
// replacements and merges is the executor's job, which keeps previews free
// of filesystem mutation.
package conflict

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Policy names a conflict-handling strategy, applied independently for files
// and directories.
type Policy string

const (
	// PolicyAuto picks the conservative default: rename for files, merge for
	// directories.
	PolicyAuto Policy = "auto"
	// PolicySkip abandons the colliding operation.
	PolicySkip Policy = "skip"
	// PolicyOverwrite replaces a file destination; colliding directories are
	// merged recursively.
	PolicyOverwrite Policy = "overwrite"
	// PolicyRename finds a free name by appending an incrementing numeric
	// suffix.
	PolicyRename Policy = "rename"
)

// ParsePolicy validates a policy string from a request. Empty input maps to
// auto.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return PolicyAuto, nil
	case PolicyAuto:
		return PolicyAuto, nil
	case PolicySkip:
		return PolicySkip, nil
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyRename:
		return PolicyRename, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q", raw)
	}
}

// Outcome tells the executor how to carry a resolved move out.
type Outcome string

const (
	// OutcomeProceed means the destination is free; move as planned.
	OutcomeProceed Outcome = "proceed"
	// OutcomeSkip abandons the operation; it counts as skipped, not failed.
	OutcomeSkip Outcome = "skip"
	// OutcomeReplace removes the existing destination before moving.
	OutcomeReplace Outcome = "replace"
	// OutcomeRename moves to the alternate destination in Decision.Dst.
	OutcomeRename Outcome = "rename"
	// OutcomeMerge folds a source directory into an existing destination
	// directory entry by entry.
	OutcomeMerge Outcome = "merge"
)

// Decision is the resolver's verdict for one planned move.
type Decision struct {
	// Dst is the effective destination (differs from the planned one only
	// for rename outcomes).
	Dst     string
	Outcome Outcome
}

// Resolver applies the configured file and directory policies.
type Resolver struct {
	files Policy
	dirs  Policy
}

// NewResolver builds a resolver; auto policies resolve to rename for files
// and overwrite (merge) for directories.
func NewResolver(files, dirs Policy) *Resolver {
	if files == PolicyAuto || files == "" {
		files = PolicyRename
	}
	if dirs == PolicyAuto || dirs == "" {
		dirs = PolicyOverwrite
	}
	return &Resolver{files: files, dirs: dirs}
}

// Resolve decides what to do with a planned move of src to dst. A missing
// destination always proceeds unchanged.
func (r *Resolver) Resolve(src, dst string) (Decision, error) {
	dstInfo, err := os.Stat(dst)
	if os.IsNotExist(err) {
		return Decision{Dst: dst, Outcome: OutcomeProceed}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return Decision{}, err
	}

	policy := r.files
	if srcInfo.IsDir() {
		policy = r.dirs
	}

	switch policy {
	case PolicySkip:
		return Decision{Dst: dst, Outcome: OutcomeSkip}, nil
	case PolicyOverwrite:
		if srcInfo.IsDir() && dstInfo.IsDir() {
			return Decision{Dst: dst, Outcome: OutcomeMerge}, nil
		}
		return Decision{Dst: dst, Outcome: OutcomeReplace}, nil
	case PolicyRename:
		free, err := FreeName(dst)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Dst: free, Outcome: OutcomeRename}, nil
	default:
		return Decision{}, fmt.Errorf("unknown conflict policy %q", policy)
	}
}

// FreeName appends an incrementing numeric suffix to dst, preserving the
// extension, until a name not present on disk is found. Deterministic for a
// given starting filesystem state.
func FreeName(dst string) (string, error) {
	dir := filepath.Dir(dst)
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(filepath.Base(dst), ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
}
