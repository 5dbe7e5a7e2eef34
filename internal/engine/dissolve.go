package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"reorg/internal/logging"
	"reorg/internal/plan"
)

// DissolveRequest asks for wrapper-directory collapse under Source. Multiple
// modes may be combined in one invocation; their plans run in order.
//
// SimilarityThreshold: zero disables the gate (every candidate is accepted),
// a negative value selects the configured default.
type DissolveRequest struct {
	Source              string   `json:"source"`
	Modes               []string `json:"modes"`
	FileConflict        string   `json:"file_conflict"`
	DirConflict         string   `json:"dir_conflict"`
	Exclude             string   `json:"exclude"`
	SimilarityThreshold float64  `json:"similarity_threshold"`
	EnableSimilarity    bool     `json:"enable_similarity"`
	Preview             bool     `json:"preview"`
	MaxConcurrency      int      `json:"max_concurrency"`
}

// DissolveResponse reports per-mode counts plus the journal batch id when
// one was written.
type DissolveResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Preview      bool   `json:"preview"`
	NestedCount  int    `json:"nested_count"`
	MediaCount   int    `json:"media_count"`
	ArchiveCount int    `json:"archive_count"`
	DirectFiles  int    `json:"direct_files"`
	DirectDirs   int    `json:"direct_dirs"`
	SkippedCount int    `json:"skipped_count"`
	ErrorCount   int    `json:"error_count"`
	OperationID  string `json:"operation_id,omitempty"`
}

func parseDissolveModes(raw []string) ([]plan.Mode, error) {
	if len(raw) == 0 {
		return []plan.Mode{plan.ModeNested}, nil
	}
	out := make([]plan.Mode, 0, len(raw))
	seen := map[plan.Mode]bool{}
	for _, m := range raw {
		mode := plan.Mode(m)
		switch mode {
		case plan.ModeNested, plan.ModeMedia, plan.ModeArchive, plan.ModeDirect:
		default:
			return nil, Wrap(ErrValidation, "dissolve", "mode", fmt.Sprintf("unknown mode %q", m), nil)
		}
		if !seen[mode] {
			seen[mode] = true
			out = append(out, mode)
		}
	}
	return out, nil
}

// Dissolve plans and runs the requested dissolve modes against Source.
func (e *Engine) Dissolve(ctx context.Context, req DissolveRequest, obs Observers) (*DissolveResponse, error) {
	ctx, logger, _ := e.runContext(ctx)
	start := time.Now()

	modes, err := parseDissolveModes(req.Modes)
	if err != nil {
		return nil, err
	}
	if err := e.checkRoot("source", req.Source); err != nil {
		return nil, err
	}
	for _, mode := range modes {
		// Direct dissolve moves entries into the parent, which must be
		// writable too.
		if mode == plan.ModeDirect {
			if err := e.checkRoot("parent", filepath.Dir(req.Source)); err != nil {
				return nil, err
			}
		}
	}
	resolver, err := e.resolver(req.FileConflict, req.DirConflict)
	if err != nil {
		return nil, err
	}

	planner := plan.NewPlanner(plan.Options{
		Gate:              e.gate(req.EnableSimilarity, req.SimilarityThreshold),
		Exclude:           plan.ParseExcludeKeywords(req.Exclude),
		ArchiveExtensions: e.cfg.Dissolve.ArchiveExtensions,
		MediaExtensions:   e.cfg.Dissolve.MediaExtensions,
		Logger:            logger,
	})

	resp := &DissolveResponse{Preview: req.Preview}
	type planned struct {
		mode plan.Mode
		res  *plan.Result
	}
	var plans []planned
	total := 0
	for _, mode := range modes {
		if err := ctx.Err(); err != nil {
			return nil, Wrap(ErrTransient, "dissolve", "plan", "canceled", err)
		}
		var res *plan.Result
		switch mode {
		case plan.ModeNested:
			res, err = planner.NestedDissolve(req.Source)
		case plan.ModeMedia:
			res, err = planner.MediaDissolve(req.Source)
		case plan.ModeArchive:
			res, err = planner.ArchiveDissolve(req.Source)
		case plan.ModeDirect:
			res, err = planner.DirectDissolve(req.Source)
		}
		if err != nil {
			return nil, Wrap(ErrTransient, "dissolve", string(mode), "planning failed", err)
		}
		resp.SkippedCount += res.GateSkips
		switch mode {
		case plan.ModeNested:
			resp.NestedCount += res.Dissolved
		case plan.ModeMedia:
			resp.MediaCount += res.Dissolved
		case plan.ModeArchive:
			resp.ArchiveCount += res.Dissolved
		case plan.ModeDirect:
			resp.DirectFiles += res.MovedFiles
			resp.DirectDirs += res.MovedDirs
		}
		plans = append(plans, planned{mode: mode, res: res})
		total += res.Plan.Len()
	}
	if total == 0 {
		resp.Message = "no operations planned"
		return resp, nil
	}

	exec := e.executorFor(req.Preview, req.MaxConcurrency, resolver, obs, logger)
	var applied []plan.Operation
	for _, p := range plans {
		if p.res.Plan.IsEmpty() {
			continue
		}
		run, err := exec.Run(p.res.Plan)
		if err != nil {
			return nil, Wrap(ErrTransient, "dissolve", string(p.mode), "execution failed", err)
		}
		resp.SkippedCount += run.Skipped
		resp.ErrorCount += run.Failed
		applied = append(applied, run.Applied...)
	}

	if !req.Preview {
		id, err := e.journalBatch(joinModes(modes), req.Source, applied, logger)
		if err != nil {
			return nil, err
		}
		resp.OperationID = id
	}

	resp.Success = resp.ErrorCount == 0
	resp.Message = dissolveMessage(resp)
	logger.Info("dissolve finished",
		logging.String(logging.FieldMode, joinModes(modes)),
		logging.String(logging.FieldPath, req.Source),
		logging.Bool("preview", req.Preview),
		logging.Int("skipped", resp.SkippedCount),
		logging.Int("errors", resp.ErrorCount),
		logging.Duration("elapsed", time.Since(start)))
	return resp, nil
}

func dissolveMessage(resp *DissolveResponse) string {
	dissolved := resp.NestedCount + resp.MediaCount + resp.ArchiveCount
	verb := "dissolved"
	if resp.Preview {
		verb = "would dissolve"
	}
	if resp.DirectFiles+resp.DirectDirs > 0 {
		return fmt.Sprintf("%s %d wrapper(s), released %d file(s) and %d director(ies), %d skipped, %d error(s)",
			verb, dissolved, resp.DirectFiles, resp.DirectDirs, resp.SkippedCount, resp.ErrorCount)
	}
	return fmt.Sprintf("%s %d wrapper(s), %d skipped, %d error(s)",
		verb, dissolved, resp.SkippedCount, resp.ErrorCount)
}
