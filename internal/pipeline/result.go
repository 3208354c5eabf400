package pipeline

import (
	"fmt"
	"time"

	"wikiepisodes/internal/export"
	"wikiepisodes/internal/resolver"
	"wikiepisodes/internal/services"
)

// Stage names the part of a run an Issue came from.
type Stage string

const (
	StageMetadata Stage = "metadata"
	StageSections Stage = "sections"
	StageRecords  Stage = "records"
)

// Issue records a problem that made the result partial.
type Issue struct {
	Stage  Stage
	Page   resolver.PageRef
	Season int
	Kind   services.Kind
	Err    error
}

func (i Issue) String() string {
	if i.Season > 0 {
		return fmt.Sprintf("%s: season %d (%s): %v", i.Stage, i.Season, i.Page, i.Err)
	}
	return fmt.Sprintf("%s: %v", i.Stage, i.Err)
}

// SeasonResult holds the records extracted from one season page.
type SeasonResult struct {
	Season   int
	Page     resolver.PageRef
	Episodes []resolver.EpisodeRecord
	Err      error
}

// Result is the outcome of one run.
type Result struct {
	RunID       string
	Series      string
	Metadata    resolver.SeriesMetadata // counts that failed to parse are 0
	MetadataErr error
	Genres      []resolver.Genre
	Seasons     []SeasonResult
	Issues      []Issue
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Episodes returns every record in season order, then document order.
func (r *Result) Episodes() []resolver.EpisodeRecord {
	total := 0
	for _, s := range r.Seasons {
		total += len(s.Episodes)
	}
	out := make([]resolver.EpisodeRecord, 0, total)
	for _, s := range r.Seasons {
		out = append(out, s.Episodes...)
	}
	return out
}

// Complete reports whether the run finished without issues.
func (r *Result) Complete() bool {
	return len(r.Issues) == 0
}

// Duration reports how long the run took.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Dataset converts the result for export. Metadata is omitted when either
// infobox count could not be read; Result.Metadata still holds the other.
func (r *Result) Dataset() export.Dataset {
	data := export.Dataset{
		Series:   r.Series,
		Genres:   r.Genres,
		Episodes: r.Episodes(),
	}
	if r.MetadataErr == nil {
		meta := r.Metadata
		data.Metadata = &meta
	}
	return data
}

func (r *Result) addIssue(stage Stage, page resolver.PageRef, season int, err error) {
	r.Issues = append(r.Issues, Issue{
		Stage:  stage,
		Page:   page,
		Season: season,
		Kind:   services.Classify(err),
		Err:    err,
	})
}
