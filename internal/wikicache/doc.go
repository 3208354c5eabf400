// Package wikicache persists MediaWiki parse responses in SQLite so repeated
// runs against the same series do not refetch every page.
//
// Entries are keyed by page, requested prop and section index. Entries older
// than the configured TTL are treated as misses and overwritten on the next
// fetch. Failed fetches are never cached.
package wikicache
