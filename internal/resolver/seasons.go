package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"wikiepisodes/internal/logging"
	"wikiepisodes/internal/mediawiki"
	"wikiepisodes/internal/services"
	"wikiepisodes/internal/wikitext"
)

// episodeListTitles are the main-page section titles that link to season pages.
var episodeListTitles = map[string]struct{}{
	"episodes":        {},
	"season synopsis": {},
	"season synopses": {},
	"series overview": {},
}

// seasonLinkMarker selects the season pages linked from a consolidated list.
const seasonLinkMarker = "(season "

// fold case-folds s for title matching. Casers are stateful, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// SeasonPageResolver finds the pages that carry each season's episode table.
type SeasonPageResolver struct {
	fetcher mediawiki.Fetcher
	logger  *slog.Logger
}

// NewSeasonPageResolver constructs a resolver around fetcher.
func NewSeasonPageResolver(fetcher mediawiki.Fetcher, logger *slog.Logger) *SeasonPageResolver {
	return &SeasonPageResolver{
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "seasons"),
	}
}

// Resolve returns the season pages of the series in link order. An empty
// result means the article links no season pages. A missing main page yields
// an error wrapping services.ErrNotFound.
func (r *SeasonPageResolver) Resolve(ctx context.Context, series string) ([]PageRef, error) {
	logger := logging.WithContext(ctx, r.logger)

	sections, err := r.fetcher.Sections(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("fetch sections of %q: %w", series, err)
	}
	index := firstEpisodeListSection(sections)

	links, err := linksOrEmpty(ctx, r.fetcher, series, index)
	if err != nil {
		return nil, fmt.Errorf("fetch links of %q: %w", series, err)
	}

	refs := make([]PageRef, 0, len(links))
	for _, link := range links {
		text := fold(link.Text)
		if strings.Contains(text, "season") || strings.Contains(text, "episodes") {
			refs = append(refs, NewPageRef(link.Text))
		}
	}

	if len(refs) == 1 && refs[0].Consolidated() {
		expanded, err := r.expandConsolidated(ctx, refs[0])
		if err != nil {
			return nil, err
		}
		refs = append(refs, expanded...)
	}

	if len(refs) > 1 && refs[0].Consolidated() {
		refs = refs[1:]
	}

	logger.Debug("season pages resolved",
		logging.String(logging.FieldSection, string(index)),
		logging.Int("season_pages", len(refs)),
	)
	return refs, nil
}

func (r *SeasonPageResolver) expandConsolidated(ctx context.Context, list PageRef) ([]PageRef, error) {
	links, err := linksOrEmpty(ctx, r.fetcher, string(list), mediawiki.WholePage)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			logging.WarnWithContext(logging.WithContext(ctx, r.logger), "episode list page missing",
				"episode_list_missing",
				logging.String(logging.FieldPage, string(list)),
				logging.String(logging.FieldImpact, "series resolves to the list page only"),
				logging.String(logging.FieldErrorHint, "check the link on the main article"),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("fetch links of %q: %w", list, err)
	}
	var refs []PageRef
	for _, link := range links {
		if strings.Contains(link.Text, seasonLinkMarker) {
			refs = append(refs, NewPageRef(link.Text))
		}
	}
	return refs, nil
}

// firstEpisodeListSection returns the index of the first section whose title
// names the episode overview, or mediawiki.NoSection.
func firstEpisodeListSection(sections []mediawiki.Section) mediawiki.SectionIndex {
	for _, s := range sections {
		if _, ok := episodeListTitles[fold(sectionTitle(s))]; ok {
			return s.Index
		}
	}
	return mediawiki.NoSection
}

// lastEpisodesSection returns the index of the last section whose title
// contains "episodes", or mediawiki.NoSection.
func lastEpisodesSection(sections []mediawiki.Section) mediawiki.SectionIndex {
	index := mediawiki.NoSection
	for _, s := range sections {
		if strings.Contains(fold(sectionTitle(s)), "episodes") {
			index = s.Index
		}
	}
	return index
}

func sectionTitle(s mediawiki.Section) string {
	return strings.TrimSpace(wikitext.StripTags(s.Title))
}

func linksOrEmpty(ctx context.Context, fetcher mediawiki.Fetcher, page string, section mediawiki.SectionIndex) ([]mediawiki.Link, error) {
	if section == mediawiki.NoSection {
		return nil, nil
	}
	links, err := fetcher.Links(ctx, page, section)
	if errors.Is(err, mediawiki.ErrSectionNotFound) {
		return nil, nil
	}
	return links, err
}
