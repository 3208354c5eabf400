// Package config loads, normalizes, and validates wikiepisodes configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WIKIEPISODES_API_URL. The Config type centralizes the MediaWiki endpoint,
// retry and rate-limit policy, cache location, and export defaults so the CLI
// can wire the pipeline in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
