package wikitext

import (
	"regexp"
	"strings"
	"sync"
)

// boundary ends a single template value: a new "|" line, a "|" followed by
// whitespace, the closing "}}" of the template, or the end of the input.
const boundary = `(?:\n[ \t]*\||\|[ \t]|\n[ \t]*\}\}|\z)`

var (
	fieldsMu sync.Mutex
	fields   = map[string]*Extractor{}
)

// Extractor pulls the value of one "| name = value" template field out of
// wikitext.
type Extractor struct {
	name   string
	single *regexp.Regexp
	lines  *regexp.Regexp
}

// Field returns the extractor for the named template field. Extractors are
// compiled once and shared.
func Field(name string) *Extractor {
	fieldsMu.Lock()
	defer fieldsMu.Unlock()
	if ex, ok := fields[name]; ok {
		return ex
	}
	quoted := regexp.QuoteMeta(name)
	ex := &Extractor{
		name:   name,
		single: regexp.MustCompile(`(?s)\|[ \t]*` + quoted + `[ \t]*=(.*?)` + boundary),
		lines:  regexp.MustCompile(`(?m)\|[ \t]?` + quoted + `[ \t]*=[ \t]*(.*?)[ \t\r]*$`),
	}
	fields[name] = ex
	return ex
}

// Name reports the template field name.
func (e *Extractor) Name() string {
	return e.name
}

// First returns the trimmed value of the first occurrence of the field. The
// value may span several lines when the template continues without a new
// "|" line.
func (e *Extractor) First(markup string) (string, bool) {
	m := e.single.FindStringSubmatch(markup)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Count is First for numeric fields that may be wrapped in
// <onlyinclude>...</onlyinclude>; only the wrapped value is kept.
func (e *Extractor) Count(markup string) (string, bool) {
	value, ok := e.First(markup)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(unwrapInclusion(value)), true
}

// All returns the value of every single-line occurrence of the field in
// document order. Duplicates are kept.
func (e *Extractor) All(markup string) []string {
	matches := e.lines.FindAllStringSubmatch(markup, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func unwrapInclusion(value string) string {
	const open, closing = "<onlyinclude>", "</onlyinclude>"
	start := strings.Index(value, open)
	if start < 0 {
		return value
	}
	inner := value[start+len(open):]
	if end := strings.Index(inner, closing); end >= 0 {
		inner = inner[:end]
	}
	return inner
}
