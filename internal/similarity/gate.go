package similarity

// MatchResult records a single gate decision so callers can surface why a
// structural candidate was accepted or skipped.
type MatchResult struct {
	Parent     string  `json:"parent"`
	Candidate  string  `json:"candidate"`
	Similarity float64 `json:"similarity"`
	Accepted   bool    `json:"accepted"`
}

// Gate accepts or rejects structural matches based on name similarity.
// A threshold of zero disables gating entirely.
type Gate struct {
	threshold float64
}

// NewGate constructs a gate with the given acceptance threshold. Values are
// clamped to [0, 1].
func NewGate(threshold float64) *Gate {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	return &Gate{threshold: threshold}
}

// Disabled returns a gate that accepts every candidate.
func Disabled() *Gate {
	return &Gate{}
}

// Enabled reports whether the gate actually filters candidates.
func (g *Gate) Enabled() bool {
	return g != nil && g.threshold > 0
}

// Threshold returns the configured acceptance threshold.
func (g *Gate) Threshold() float64 {
	if g == nil {
		return 0
	}
	return g.threshold
}

// Match scores candidate against parent and decides acceptance. Both names
// are normalized before scoring; the score is the larger of the balanced
// block ratio and the containment ratio, so a parent name wholly embedded in
// its child still clears a high threshold. With gating disabled every
// candidate is accepted and the score is still reported.
func (g *Gate) Match(parent, candidate string) MatchResult {
	a := Normalize(parent)
	b := Normalize(candidate)
	sim := Ratio(a, b)
	if c := Containment(a, b); c > sim {
		sim = c
	}
	accepted := true
	if g.Enabled() {
		accepted = sim >= g.threshold
	}
	return MatchResult{
		Parent:     parent,
		Candidate:  candidate,
		Similarity: sim,
		Accepted:   accepted,
	}
}
