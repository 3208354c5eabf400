package mediawiki

import "context"

// SectionIndex is the opaque token MediaWiki assigns to a table-of-contents
// entry. It is not guaranteed to be numeric (transcluded sections look like
// "T-1").
type SectionIndex string

const (
	// WholePage requests the entire page instead of one section.
	WholePage SectionIndex = ""
	// NoSection marks a table-of-contents lookup that found nothing. The API
	// rejects it with invalidsection, so callers answer it locally with an
	// empty result instead of sending it.
	NoSection SectionIndex = "-1"
)

// Section describes one table-of-contents entry.
type Section struct {
	Title  string
	Index  SectionIndex
	Number string
	Level  int
}

// Link describes one outbound wiki link.
type Link struct {
	Text      string
	Namespace int
	Exists    bool
}

// Fetcher retrieves page structure and markup from a wiki. Page names may
// use spaces or underscores.
type Fetcher interface {
	Sections(ctx context.Context, page string) ([]Section, error)
	Links(ctx context.Context, page string, section SectionIndex) ([]Link, error)
	Wikitext(ctx context.Context, page string, section SectionIndex) (string, error)
}

type parseResponse struct {
	Parse *parsePayload `json:"parse"`
	Error *APIError     `json:"error"`
}

type parsePayload struct {
	Title    string        `json:"title"`
	PageID   int64         `json:"pageid"`
	Sections []sectionJSON `json:"sections"`
	Links    []linkJSON    `json:"links"`
	Wikitext struct {
		Text string `json:"*"`
	} `json:"wikitext"`
}

type sectionJSON struct {
	TocLevel int    `json:"toclevel"`
	Line     string `json:"line"`
	Number   string `json:"number"`
	Index    string `json:"index"`
}

type linkJSON struct {
	Namespace int     `json:"ns"`
	Exists    *string `json:"exists"`
	Text      string  `json:"*"`
}
