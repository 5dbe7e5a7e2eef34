package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"reorg/internal/config"
	"reorg/internal/conflict"
	"reorg/internal/executor"
	"reorg/internal/journal"
	"reorg/internal/logging"
	"reorg/internal/plan"
	"reorg/internal/preflight"
	"reorg/internal/similarity"
)

// Engine wires planner, conflict resolver, executor, and journal into the
// request/response cycles for dissolve, migrate, rename, undo, and history.
type Engine struct {
	cfg    *config.Config
	store  *journal.Store
	logger *slog.Logger
}

// New constructs an engine around an opened journal store.
func New(cfg *config.Config, store *journal.Store, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "engine"),
	}
}

// Observers carries the optional progress and log sinks for one run. Both
// are invoked synchronously from workers; wrap slow sinks with
// executor.NewBuffered.
type Observers struct {
	Progress executor.ProgressObserver
	Logs     executor.LogObserver
}

// runContext tags ctx and the engine logger with a fresh correlation id.
func (e *Engine) runContext(ctx context.Context) (context.Context, *slog.Logger, string) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	return ctx, logging.WithContext(ctx, e.logger), runID
}

// checkRoot fails fast on a missing or inaccessible root before any
// planning happens.
func (e *Engine) checkRoot(name, path string) error {
	res := preflight.CheckDirectoryAccess(name, path)
	if !res.Passed {
		return Wrap(ErrValidation, "preflight", name, res.Detail, nil)
	}
	return nil
}

// gate builds the similarity gate for a request. An explicit zero threshold
// disables gating; a negative threshold means "unset" and falls back to the
// configured default.
func (e *Engine) gate(enabled bool, threshold float64) *similarity.Gate {
	if !enabled {
		return similarity.Disabled()
	}
	if threshold < 0 {
		threshold = e.cfg.Dissolve.SimilarityThreshold
	}
	return similarity.NewGate(threshold)
}

func (e *Engine) resolver(fileConflict, dirConflict string) (*conflict.Resolver, error) {
	files, err := conflict.ParsePolicy(fileConflict)
	if err != nil {
		return nil, Wrap(ErrValidation, "conflict", "file policy", err.Error(), nil)
	}
	dirs, err := conflict.ParsePolicy(dirConflict)
	if err != nil {
		return nil, Wrap(ErrValidation, "conflict", "directory policy", err.Error(), nil)
	}
	return conflict.NewResolver(files, dirs), nil
}

// executorFor builds a run executor from request overrides and configured
// defaults.
func (e *Engine) executorFor(preview bool, workers int, resolver *conflict.Resolver, obs Observers, logger *slog.Logger) *executor.Executor {
	mode := executor.Apply
	if preview {
		mode = executor.Preview
	}
	if workers <= 0 {
		workers = e.cfg.Execute.MaxWorkers
	}
	return executor.New(executor.Options{
		Mode:             mode,
		Workers:          workers,
		Resolver:         resolver,
		Progress:         obs.Progress,
		Logs:             obs.Logs,
		ProgressStep:     float64(e.cfg.Execute.ProgressStep),
		ProgressInterval: time.Duration(e.cfg.Execute.ProgressIntervalMS) * time.Millisecond,
		Logger:           logger,
	})
}

// journalBatch persists applied operations when a run is undoable: apply
// mode, at least one applied operation, and nothing copy-only. Returns the
// batch id, empty when no batch was written.
func (e *Engine) journalBatch(mode, path string, applied []plan.Operation, logger *slog.Logger) (string, error) {
	if len(applied) == 0 {
		return "", nil
	}
	reversible := false
	for _, op := range applied {
		if op.Type != plan.OpCopy {
			reversible = true
			break
		}
	}
	if !reversible {
		return "", nil
	}
	batch := e.store.NewBatch(mode, path, applied)
	if err := e.store.Save(batch); err != nil {
		return "", Wrap(ErrTransient, "journal", "save", "", err)
	}
	logger.Info("batch journaled",
		logging.String(logging.FieldBatchID, batch.ID),
		logging.Int("operations", batch.Count))
	return batch.ID, nil
}

func joinModes(modes []plan.Mode) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, "+")
}
