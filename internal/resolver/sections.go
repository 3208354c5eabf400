package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wikiepisodes/internal/logging"
	"wikiepisodes/internal/mediawiki"
)

// EpisodeSectionExtractor fetches the episode-table markup of a season page.
type EpisodeSectionExtractor struct {
	fetcher mediawiki.Fetcher
	logger  *slog.Logger
}

// NewEpisodeSectionExtractor constructs an extractor around fetcher.
func NewEpisodeSectionExtractor(fetcher mediawiki.Fetcher, logger *slog.Logger) *EpisodeSectionExtractor {
	return &EpisodeSectionExtractor{
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "sections"),
	}
}

// Extract returns the markup of the last section of page whose title contains
// "episodes". A page without such a section yields empty markup.
func (e *EpisodeSectionExtractor) Extract(ctx context.Context, page PageRef) (string, error) {
	sections, err := e.fetcher.Sections(ctx, string(page))
	if err != nil {
		return "", fmt.Errorf("fetch sections of %q: %w", page, err)
	}
	index := lastEpisodesSection(sections)
	if index == mediawiki.NoSection {
		logging.WithContext(ctx, e.logger).Debug("no episodes section")
		return "", nil
	}

	markup, err := e.fetcher.Wikitext(ctx, string(page), index)
	if errors.Is(err, mediawiki.ErrSectionNotFound) {
		logging.WithContext(ctx, e.logger).Debug("episodes section vanished",
			logging.String(logging.FieldSection, string(index)),
		)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch wikitext of %q section %s: %w", page, index, err)
	}
	return markup, nil
}
