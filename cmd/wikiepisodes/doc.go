// Package main hosts the wikiepisodes CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration, logging, the MediaWiki
// client and the response cache together, then hands a series title to the
// extraction pipeline and writes the result through the export package.
//
// Keep this package lean: extraction behavior lives in internal/pipeline and
// internal/resolver; commands here only parse flags and render output.
package main
