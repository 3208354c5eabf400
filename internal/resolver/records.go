package resolver

import "wikiepisodes/internal/wikitext"

var (
	titleField   = wikitext.Field("Title")
	summaryField = wikitext.Field("ShortSummary")
)

// BuildRecords pairs every Title with the ShortSummary at the same position.
// When the counts differ the shorter list bounds the result and the records
// are returned together with a *PairingError.
func BuildRecords(markup string, season int) ([]EpisodeRecord, error) {
	titles := titleField.All(markup)
	plots := summaryField.All(markup)

	n := min(len(titles), len(plots))
	records := make([]EpisodeRecord, 0, n)
	for i := range n {
		records = append(records, EpisodeRecord{
			Season: season,
			Title:  wikitext.CleanTitle(titles[i]),
			Plot:   wikitext.CleanPlot(plots[i]),
		})
	}
	if len(titles) != len(plots) {
		return records, &PairingError{Titles: len(titles), Plots: len(plots)}
	}
	return records, nil
}
