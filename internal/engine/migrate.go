package engine

import (
	"context"
	"fmt"
	"time"

	"reorg/internal/logging"
	"reorg/internal/plan"
	"reorg/internal/preflight"
)

// MigrateRequest asks for the sources to be moved (or copied) into Target
// under one of the migration strategies.
type MigrateRequest struct {
	Sources        []string `json:"sources"`
	Target         string   `json:"target"`
	Mode           string   `json:"mode"`
	Copy           bool     `json:"copy"`
	FileConflict   string   `json:"file_conflict"`
	DirConflict    string   `json:"dir_conflict"`
	Exclude        string   `json:"exclude"`
	Preview        bool     `json:"preview"`
	MaxConcurrency int      `json:"max_concurrency"`
}

// MigrateResponse reports the migration outcome. Copy runs never carry an
// operation id: nothing reversible was recorded.
type MigrateResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Preview       bool   `json:"preview"`
	MigratedCount int    `json:"migrated_count"`
	SkippedCount  int    `json:"skipped_count"`
	ErrorCount    int    `json:"error_count"`
	OperationID   string `json:"operation_id,omitempty"`
}

func parseMigrateMode(raw string) (plan.Mode, error) {
	mode := plan.Mode(raw)
	switch mode {
	case "":
		return plan.ModePreserve, nil
	case plan.ModePreserve, plan.ModeFlat, plan.ModeDirect:
		return mode, nil
	default:
		return "", Wrap(ErrValidation, "migrate", "mode", fmt.Sprintf("unknown mode %q", raw), nil)
	}
}

// Migrate plans and runs a migration of Sources into Target.
func (e *Engine) Migrate(ctx context.Context, req MigrateRequest, obs Observers) (*MigrateResponse, error) {
	ctx, logger, _ := e.runContext(ctx)
	start := time.Now()

	mode, err := parseMigrateMode(req.Mode)
	if err != nil {
		return nil, err
	}
	if len(req.Sources) == 0 {
		return nil, Wrap(ErrValidation, "migrate", "sources", "no sources given", nil)
	}
	if req.Target == "" {
		return nil, Wrap(ErrValidation, "migrate", "target", "no target given", nil)
	}
	for _, src := range req.Sources {
		if res := preflight.CheckPathExists("source", src); !res.Passed {
			return nil, Wrap(ErrValidation, "preflight", "source", res.Detail, nil)
		}
	}
	resolver, err := e.resolver(req.FileConflict, req.DirConflict)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Wrap(ErrTransient, "migrate", "plan", "canceled", err)
	}

	planner := plan.NewPlanner(plan.Options{
		Exclude: plan.ParseExcludeKeywords(req.Exclude),
		Logger:  logger,
	})
	res, err := planner.Migrate(req.Sources, req.Target, mode, req.Copy)
	if err != nil {
		return nil, Wrap(ErrTransient, "migrate", "plan", "planning failed", err)
	}

	resp := &MigrateResponse{Preview: req.Preview}
	if res.MovedFiles+res.MovedDirs == 0 {
		resp.Message = "no operations planned"
		return resp, nil
	}

	exec := e.executorFor(req.Preview, req.MaxConcurrency, resolver, obs, logger)
	run, err := exec.Run(res.Plan)
	if err != nil {
		return nil, Wrap(ErrTransient, "migrate", string(mode), "execution failed", err)
	}
	// The leading CreateDir is not a migrated item; count transfers only.
	resp.MigratedCount = run.Transferred
	resp.SkippedCount = run.Skipped
	resp.ErrorCount = run.Failed

	if !req.Preview && !req.Copy {
		id, err := e.journalBatch(string(mode), req.Target, run.Applied, logger)
		if err != nil {
			return nil, err
		}
		resp.OperationID = id
	}

	resp.Success = resp.ErrorCount == 0
	verb := "migrated"
	if req.Preview {
		verb = "would migrate"
	} else if req.Copy {
		verb = "copied"
	}
	resp.Message = fmt.Sprintf("%s %d item(s), %d skipped, %d error(s)",
		verb, resp.MigratedCount, resp.SkippedCount, resp.ErrorCount)
	logger.Info("migrate finished",
		logging.String(logging.FieldMode, string(mode)),
		logging.String(logging.FieldPath, req.Target),
		logging.Bool("preview", req.Preview),
		logging.Bool("copy", req.Copy),
		logging.Int("migrated", resp.MigratedCount),
		logging.Int("errors", resp.ErrorCount),
		logging.Duration("elapsed", time.Since(start)))
	return resp, nil
}
