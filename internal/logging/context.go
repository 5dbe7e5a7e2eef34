package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for per-run correlation identifiers.
	FieldRunID = "run_id"
	// FieldMode is the standardized structured logging key for planner/orchestrator modes.
	FieldMode = "mode"
	// FieldPath is the standardized structured logging key for filesystem paths.
	FieldPath = "path"
	// FieldBatchID is the standardized structured logging key for journal batch identifiers.
	FieldBatchID = "batch_id"
)

type contextKey int

const runIDKey contextKey = iota

// WithRunID stores a run correlation id on the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run correlation id, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RunIDFromContext(ctx); ok {
		return logger.With(String(FieldRunID, id))
	}
	return logger
}
