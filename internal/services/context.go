package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	seriesKey contextKey = "series"
	seasonKey contextKey = "season"
	pageKey   contextKey = "page"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSeries annotates context with the series title being resolved.
func WithSeries(ctx context.Context, series string) context.Context {
	if series == "" {
		return ctx
	}
	return context.WithValue(ctx, seriesKey, series)
}

// SeriesFromContext returns the series title if present.
func SeriesFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(seriesKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSeason annotates context with the 1-based season number being processed.
func WithSeason(ctx context.Context, season int) context.Context {
	if season <= 0 {
		return ctx
	}
	return context.WithValue(ctx, seasonKey, season)
}

// SeasonFromContext returns the season number if present.
func SeasonFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(seasonKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// WithPage annotates context with the wiki page identifier being fetched.
func WithPage(ctx context.Context, page string) context.Context {
	if page == "" {
		return ctx
	}
	return context.WithValue(ctx, pageKey, page)
}

// PageFromContext returns the wiki page identifier if present.
func PageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(pageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
