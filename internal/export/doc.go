// Package export writes extracted episode datasets as CSV, JSON, Markdown or a
// terminal table, either to a stream or to a per-series file.
//
// Files are named after the lowercased, sanitized series title and replaced
// atomically under an advisory lock, so concurrent runs for the same series
// never leave a half-written file behind.
package export
