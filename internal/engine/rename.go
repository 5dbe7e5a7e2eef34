package engine

import (
	"context"
	"fmt"
	"time"

	"reorg/internal/logging"
	"reorg/internal/plan"
)

// RenameRequest asks for template renaming of Source's entries. When Items
// is set it is used as an explicit manifest and Source is only the journal
// path; otherwise Source is scanned.
type RenameRequest struct {
	Source         string            `json:"source"`
	Items          []plan.RenameItem `json:"items,omitempty"`
	Template       string            `json:"template"`
	FileConflict   string            `json:"file_conflict"`
	DirConflict    string            `json:"dir_conflict"`
	Exclude        string            `json:"exclude"`
	Preview        bool              `json:"preview"`
	MaxConcurrency int               `json:"max_concurrency"`
}

// RenameResponse reports the rename outcome.
type RenameResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Preview      bool   `json:"preview"`
	RenamedCount int    `json:"renamed_count"`
	SkippedCount int    `json:"skipped_count"`
	ErrorCount   int    `json:"error_count"`
	OperationID  string `json:"operation_id,omitempty"`
}

// Rename plans and runs a batch rename.
func (e *Engine) Rename(ctx context.Context, req RenameRequest, obs Observers) (*RenameResponse, error) {
	ctx, logger, _ := e.runContext(ctx)
	start := time.Now()

	if err := e.checkRoot("source", req.Source); err != nil {
		return nil, err
	}
	resolver, err := e.resolver(req.FileConflict, req.DirConflict)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Wrap(ErrTransient, "rename", "plan", "canceled", err)
	}

	planner := plan.NewPlanner(plan.Options{
		Exclude: plan.ParseExcludeKeywords(req.Exclude),
		Logger:  logger,
	})
	items := req.Items
	if len(items) == 0 {
		items, err = planner.ScanRenameItems(req.Source)
		if err != nil {
			return nil, Wrap(ErrTransient, "rename", "scan", "", err)
		}
	}
	res, err := planner.Rename(items, plan.RenameOptions{
		Template:             req.Template,
		MaxNameLength:        e.cfg.Rename.MaxNameLength,
		MaxDescriptionLength: e.cfg.Rename.MaxDescriptionLength,
	})
	if err != nil {
		return nil, Wrap(ErrValidation, "rename", "plan", "", err)
	}

	resp := &RenameResponse{Preview: req.Preview}
	if res.Plan.IsEmpty() {
		resp.Message = "no operations planned"
		return resp, nil
	}

	exec := e.executorFor(req.Preview, req.MaxConcurrency, resolver, obs, logger)
	run, err := exec.Run(res.Plan)
	if err != nil {
		return nil, Wrap(ErrTransient, "rename", "execute", "execution failed", err)
	}
	resp.RenamedCount = run.Succeeded
	resp.SkippedCount = run.Skipped
	resp.ErrorCount = run.Failed

	if !req.Preview {
		id, err := e.journalBatch(string(plan.ModeRename), req.Source, run.Applied, logger)
		if err != nil {
			return nil, err
		}
		resp.OperationID = id
	}

	resp.Success = resp.ErrorCount == 0
	verb := "renamed"
	if req.Preview {
		verb = "would rename"
	}
	resp.Message = fmt.Sprintf("%s %d item(s), %d skipped, %d error(s)",
		verb, resp.RenamedCount, resp.SkippedCount, resp.ErrorCount)
	logger.Info("rename finished",
		logging.String(logging.FieldPath, req.Source),
		logging.Bool("preview", req.Preview),
		logging.Int("renamed", resp.RenamedCount),
		logging.Int("errors", resp.ErrorCount),
		logging.Duration("elapsed", time.Since(start)))
	return resp, nil
}
