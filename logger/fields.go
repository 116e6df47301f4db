package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across folio.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Sources
	FieldSource = "source" // owner/repo label
	FieldPath   = "path"
	FieldURL    = "url"

	// Outcomes
	FieldMode   = "mode"
	FieldStatus = "status"
	FieldClass  = "class"
	FieldReason = "reason"
	FieldError  = "error"

	// Counts
	FieldCount      = "count"
	FieldTotalCount = "total_count"
	FieldValidated  = "validated"
	FieldSkipped    = "skipped"

	// Timing
	FieldDurationMS = "duration_ms"

	// Files
	FieldFile = "file"
)

type contextKey string

const runIDKey contextKey = "logger_run_id"

// WithRunID adds a run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run ID stored by WithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	runID, _ := ctx.Value(runIDKey).(string)
	return runID
}

// LoggerFromContext returns base decorated with the fields carried by ctx.
func LoggerFromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	if runID := RunIDFromContext(ctx); runID != "" {
		return base.With(FieldRunID, runID)
	}
	return base
}

// ComponentLogger returns a named logger for a specific component.
//
//	collector := portfolio.NewCollector(client, validator, logger.ComponentLogger("collect"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
