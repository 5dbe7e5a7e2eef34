package engine

import (
	"context"
	"errors"
	"fmt"

	"reorg/internal/journal"
	"reorg/internal/logging"
)

// UndoRequest names the batch to reverse. An empty id selects the most
// recent batch.
type UndoRequest struct {
	BatchID string `json:"batch_id,omitempty"`
}

// UndoResponse tallies the reverse replay.
type UndoResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	BatchID      string `json:"batch_id"`
	SuccessCount int    `json:"success_count"`
	FailedCount  int    `json:"failed_count"`
}

// Undo replays a journaled batch in reverse and consumes its record.
func (e *Engine) Undo(ctx context.Context, req UndoRequest) (*UndoResponse, error) {
	_, logger, _ := e.runContext(ctx)

	var batch *journal.Batch
	var err error
	if req.BatchID == "" {
		batch, err = e.store.MostRecent()
		if errors.Is(err, journal.ErrEmpty) {
			return nil, Wrap(ErrNotFound, "undo", "select", "no batches recorded", nil)
		}
	} else {
		batch, err = e.store.Get(req.BatchID)
		if errors.Is(err, journal.ErrNotFound) {
			return nil, Wrap(ErrNotFound, "undo", "select", fmt.Sprintf("batch %q", req.BatchID), nil)
		}
	}
	if err != nil {
		return nil, Wrap(ErrTransient, "undo", "load", "", err)
	}

	res, err := e.store.Undo(batch)
	if err != nil {
		return nil, Wrap(ErrTransient, "undo", "replay", "", err)
	}

	resp := &UndoResponse{
		Success:      res.FailedCount == 0,
		BatchID:      batch.ID,
		SuccessCount: res.SuccessCount,
		FailedCount:  res.FailedCount,
	}
	resp.Message = fmt.Sprintf("reversed %d operation(s), %d failed", res.SuccessCount, res.FailedCount)
	logger.Info("undo finished",
		logging.String(logging.FieldBatchID, batch.ID),
		logging.Int("succeeded", res.SuccessCount),
		logging.Int("failed", res.FailedCount))
	return resp, nil
}

// HistoryRequest bounds a journal listing.
type HistoryRequest struct {
	Limit int `json:"limit"`
}

// History lists recent batches, most recent first.
func (e *Engine) History(ctx context.Context, req HistoryRequest) ([]journal.Summary, error) {
	_, logger, _ := e.runContext(ctx)
	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.History.Limit
	}
	summaries, err := e.store.List(limit)
	if err != nil {
		return nil, Wrap(ErrTransient, "history", "list", "", err)
	}
	logger.Debug("history listed", logging.Int("batches", len(summaries)))
	return summaries, nil
}
