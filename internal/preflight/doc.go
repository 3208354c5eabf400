// Package preflight provides readiness checks for the directories and the
// MediaWiki endpoint that wikiepisodes depends on.
//
// The CLI "wikiepisodes status" command runs RunAll and renders one line per
// check. Checks for disabled features (the response cache) are skipped.
package preflight
