package resolver

import (
	"fmt"
	"strings"

	"wikiepisodes/internal/mediawiki"
	"wikiepisodes/internal/services"
)

// consolidatedMarker identifies a "List of ... episodes" page.
const consolidatedMarker = "List_of_"

// PageRef is a normalized page title (whitespace replaced with "_").
type PageRef string

// NewPageRef normalizes a link or title into a PageRef.
func NewPageRef(title string) PageRef {
	return PageRef(mediawiki.NormalizePage(title))
}

// Consolidated reports whether the page is a multi-season episode list.
func (p PageRef) Consolidated() bool {
	return strings.Contains(string(p), consolidatedMarker)
}

func (p PageRef) String() string {
	return string(p)
}

// SeriesMetadata holds the infobox season and episode counts.
type SeriesMetadata struct {
	SeasonCount  int `json:"season_count"`
	EpisodeCount int `json:"episode_count"`
}

// Genre is one display name from the infobox genre field.
type Genre string

// EpisodeRecord is one extracted episode. Season is the 1-based position of
// the page it came from; 0 means unknown.
type EpisodeRecord struct {
	Season int    `json:"season"`
	Title  string `json:"title"`
	Plot   string `json:"plot"`
}

// FieldError reports an infobox field that is absent or not usable.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field %q missing", e.Field)
	}
	return fmt.Sprintf("field %q has unusable value %q", e.Field, e.Value)
}

// Unwrap marks the error as malformed markup.
func (e *FieldError) Unwrap() error {
	return services.ErrMalformed
}

// PairingError reports an episode table whose Title and ShortSummary fields
// do not line up.
type PairingError struct {
	Titles int
	Plots  int
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("episode fields out of step: %d titles, %d summaries", e.Titles, e.Plots)
}

// Unwrap marks the error as malformed markup.
func (e *PairingError) Unwrap() error {
	return services.ErrMalformed
}
