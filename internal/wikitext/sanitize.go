package wikitext

import (
	"regexp"
	"strings"
)

var (
	referencePattern = regexp.MustCompile(`(?is)<ref(?:\s[^>]*)?/>|<ref(?:\s[^>]*)?>.*?</ref\s*>`)
	commentPattern   = regexp.MustCompile(`(?s)<!--.*?-->`)
	tagPattern       = regexp.MustCompile(`<[^<>]*>`)
	quotePattern     = regexp.MustCompile(`'{2,}`)

	plainLinkPattern = regexp.MustCompile(`\[\[([^\[\]|]*)\]\]`)
	pipedLinkPattern = regexp.MustCompile(`\[\[[^\[\]|]*\|([^\[\]]*)\]\]`)
)

// maxLinkPasses bounds ResolveHyperlinks on pathological nesting.
const maxLinkPasses = 8

// StripReferences removes inline citations (<ref>...</ref> and <ref .../>)
// while keeping the text around them.
func StripReferences(text string) string {
	return referencePattern.ReplaceAllString(text, "")
}

// ResolveHyperlinks replaces [[target|display]] with display and [[target]]
// with target. Replacement repeats until nothing changes, so resolving an
// already resolved string is a no-op.
func ResolveHyperlinks(text string) string {
	for range maxLinkPasses {
		next := pipedLinkPattern.ReplaceAllString(text, "$1")
		next = plainLinkPattern.ReplaceAllString(next, "$1")
		if next == text {
			break
		}
		text = next
	}
	return text
}

// StripTags removes HTML comments, citations, and any remaining <...> tags.
// Text outside the tags is kept.
func StripTags(text string) string {
	text = commentPattern.ReplaceAllString(text, "")
	text = StripReferences(text)
	return tagPattern.ReplaceAllString(text, "")
}

// NormalizeQuotes turns wiki italic/bold markers ('' and ''') into a literal
// double quote and trims the result. Lone apostrophes are left alone.
func NormalizeQuotes(text string) string {
	return strings.TrimSpace(quotePattern.ReplaceAllString(text, `"`))
}

// CleanTitle prepares an episode title for output.
func CleanTitle(raw string) string {
	return strings.TrimSpace(ResolveHyperlinks(raw))
}

// CleanPlot prepares an episode summary for output: links, then tags, then
// quote markers.
func CleanPlot(raw string) string {
	text := ResolveHyperlinks(raw)
	text = StripTags(text)
	return strings.TrimSpace(NormalizeQuotes(text))
}

// CleanGenreValue flattens a raw genre field onto one line and drops citations.
func CleanGenreValue(raw string) string {
	text := strings.ReplaceAll(raw, "\r", "")
	text = strings.ReplaceAll(text, "\n", "")
	return strings.TrimSpace(StripReferences(text))
}

// PlainLinks returns the text of every [[target]] link without a pipe, in
// document order.
func PlainLinks(text string) []string {
	return submatches(plainLinkPattern, text)
}

// PipedLinks returns the display text of every [[target|display]] link, in
// document order.
func PipedLinks(text string) []string {
	return submatches(pipedLinkPattern, text)
}

func submatches(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}
