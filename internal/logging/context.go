package logging

import (
	"context"
	"log/slog"

	"wikiepisodes/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for pipeline run identifiers.
	FieldRunID = "run_id"
	// FieldSeries is the standardized structured logging key for the series page being resolved.
	FieldSeries = "series"
	// FieldSeason is the standardized structured logging key for 1-based season numbers.
	FieldSeason = "season"
	// FieldPage is the standardized structured logging key for wiki page identifiers.
	FieldPage = "page"
	// FieldSection is the standardized structured logging key for section indexes.
	FieldSection = "section"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if series, ok := services.SeriesFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSeries, series))
	}
	if season, ok := services.SeasonFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldSeason, season))
	}
	if page, ok := services.PageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPage, page))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return logger.With(args...)
}
