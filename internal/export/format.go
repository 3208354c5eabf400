package export

import (
	"fmt"
	"strconv"
	"strings"

	"wikiepisodes/internal/resolver"
)

// Format selects an output encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTable    Format = "table"
	FormatXLSX     Format = "xlsx"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatCSV, FormatJSON, FormatMarkdown, FormatTable, FormatXLSX}

// ParseFormat resolves a user-supplied format name. "md" is accepted as an
// alias for markdown.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatCSV, FormatJSON, FormatMarkdown, FormatTable, FormatXLSX:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", value)
	}
}

// Extension returns the file extension used when writing f to disk.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatTable:
		return "txt"
	default:
		return string(f)
	}
}

// Dataset is the exported view of one series.
type Dataset struct {
	Series   string                   `json:"series"`
	Metadata *resolver.SeriesMetadata `json:"metadata,omitempty"`
	Genres   []resolver.Genre         `json:"genres"`
	Episodes []resolver.EpisodeRecord `json:"episodes"`
}

// Columns are the tabular export headers.
var Columns = []string{"season", "title", "plot"}

func seasonCell(season int) string {
	if season <= 0 {
		return ""
	}
	return strconv.Itoa(season)
}
