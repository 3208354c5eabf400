package resolver

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"wikiepisodes/internal/wikitext"
)

var (
	seasonsField  = wikitext.Field(FieldSeasons)
	episodesField = wikitext.Field(FieldEpisodes)
	genreField    = wikitext.Field("genre")

	leadingCount = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+|^\d+`)
)

// Infobox count fields.
const (
	FieldSeasons  = "num_seasons"
	FieldEpisodes = "num_episodes"
)

// ResolveNumbers reads num_seasons and num_episodes from the series infobox.
// Citations and an <onlyinclude> wrapper are ignored, and trailing notes such
// as "62 (list of episodes)" are tolerated. Each field that is missing or does
// not start with a number yields a *FieldError; the other count is still
// returned. Use FieldFailed to tell which count is unusable.
func ResolveNumbers(markup string) (SeriesMetadata, error) {
	seasons, seasonsErr := resolveCount(markup, seasonsField)
	episodes, episodesErr := resolveCount(markup, episodesField)
	meta := SeriesMetadata{SeasonCount: seasons, EpisodeCount: episodes}
	return meta, errors.Join(seasonsErr, episodesErr)
}

// FieldFailed reports whether err carries a *FieldError for field.
func FieldFailed(err error, field string) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *FieldError:
		return e.Field == field
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if FieldFailed(inner, field) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return FieldFailed(e.Unwrap(), field)
	default:
		return false
	}
}

func resolveCount(markup string, field *wikitext.Extractor) (int, error) {
	raw, ok := field.Count(markup)
	if !ok {
		return 0, &FieldError{Field: field.Name()}
	}
	value := strings.TrimSpace(wikitext.StripTags(raw))
	digits := leadingCount.FindString(value)
	if digits == "" {
		return 0, &FieldError{Field: field.Name(), Value: raw}
	}
	n, err := strconv.Atoi(strings.ReplaceAll(digits, ",", ""))
	if err != nil {
		return 0, &FieldError{Field: field.Name(), Value: raw}
	}
	return n, nil
}

// ResolveGenres reads the infobox genre field. Unpiped links come first (by
// target), then piped links (by display text). A value without links is split
// on commas. A missing field yields an empty list.
func ResolveGenres(markup string) []Genre {
	raw, ok := genreField.First(markup)
	if !ok {
		return []Genre{}
	}
	value := wikitext.CleanGenreValue(raw)

	names := append(wikitext.PlainLinks(value), wikitext.PipedLinks(value)...)
	if len(names) == 0 {
		names = strings.Split(value, ",")
	}

	genres := make([]Genre, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			genres = append(genres, Genre(name))
		}
	}
	return genres
}
