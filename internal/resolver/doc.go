// Package resolver turns wiki pages about a television series into episode
// records.
//
// The work is split the way the articles are laid out:
//
//   - ResolveNumbers and ResolveGenres read the series infobox.
//   - SeasonPageResolver finds the pages that hold per-season episode tables,
//     expanding a consolidated "List of ... episodes" page when that is the
//     only candidate.
//   - EpisodeSectionExtractor pulls the episode-table markup out of one
//     season page.
//   - BuildRecords pairs the Title and ShortSummary fields of that markup.
//
// Matching is deliberately narrow: the patterns target the infobox and
// episode-list templates used on television articles and tolerate, rather
// than fully parse, variations of them.
package resolver
