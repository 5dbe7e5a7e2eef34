package plan

import (
	"time"

	"reorg/internal/similarity"
)

// OpType identifies the kind of filesystem mutation an Operation performs.
type OpType string

const (
	// OpMove relocates a file or directory from Src to Dst.
	OpMove OpType = "move"
	// OpCopy duplicates a file from Src to Dst. Copy operations are never
	// journaled: there is no recorded mutation to reverse.
	OpCopy OpType = "copy"
	// OpDeleteDir removes the directory at Src once its planned contents
	// have been moved out. Execution refuses to delete subtrees that still
	// contain files.
	OpDeleteDir OpType = "delete_dir"
	// OpCreateDir ensures the directory at Src exists.
	OpCreateDir OpType = "create_dir"
)

// Operation is a single planned filesystem mutation. Dst is set only for
// move and copy operations. Timestamp is stamped by the executor when the
// operation is applied.
type Operation struct {
	Type      OpType    `json:"type"`
	Src       string    `json:"src"`
	Dst       string    `json:"dst,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Mode names a planning strategy.
type Mode string

const (
	ModeNested   Mode = "nested"
	ModeMedia    Mode = "media"
	ModeArchive  Mode = "archive"
	ModeDirect   Mode = "direct"
	ModePreserve Mode = "preserve"
	ModeFlat     Mode = "flat"
	ModeRename   Mode = "rename"
)

// Plan is an ordered, immutable sequence of Operations bound to a root path
// and a mode. The executor never reorders or mutates the sequence; it only
// tracks per-item outcomes on its own side.
type Plan struct {
	root string
	mode Mode
	ops  []Operation
}

func newPlan(root string, mode Mode, ops []Operation) *Plan {
	return &Plan{root: root, mode: mode, ops: ops}
}

// Root returns the path the plan was produced for.
func (p *Plan) Root() string { return p.root }

// Mode returns the strategy that produced the plan.
func (p *Plan) Mode() Mode { return p.mode }

// Len returns the number of planned operations.
func (p *Plan) Len() int { return len(p.ops) }

// IsEmpty reports whether the plan contains no operations.
func (p *Plan) IsEmpty() bool { return len(p.ops) == 0 }

// Operations returns a copy of the planned operation sequence in order.
func (p *Plan) Operations() []Operation {
	out := make([]Operation, len(p.ops))
	copy(out, p.ops)
	return out
}

// FileLevel reports whether the plan's operations target independent file
// destinations and may therefore run on a worker pool. Dissolve and
// direct-migration plans mutate shared parent directories and must run
// sequentially.
func (p *Plan) FileLevel() bool {
	switch p.mode {
	case ModePreserve, ModeFlat, ModeRename:
		return true
	default:
		return false
	}
}

// Result couples a produced Plan with the planner's decision trail.
type Result struct {
	Plan *Plan
	// Dissolved counts wrapper folders accepted for dissolution.
	Dissolved int
	// GateSkips counts structural candidates rejected by the similarity gate.
	GateSkips int
	// MovedFiles/MovedDirs count planned top-level moves by entry kind
	// (used by direct dissolve and migration).
	MovedFiles int
	MovedDirs  int
	// Matches records every gate decision in walk order.
	Matches []similarity.MatchResult
}
