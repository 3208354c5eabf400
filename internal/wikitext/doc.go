// Package wikitext holds the pattern-based helpers that read MediaWiki markup
// without a grammar: template field extraction and text cleanup for titles,
// plot summaries, and genre lists.
//
// Everything here is pure and deterministic. The patterns target television
// infobox and episode-list templates and tolerate, rather than parse, the
// variations editors introduce.
package wikitext
