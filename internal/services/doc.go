// Package services defines shared utilities consumed by the resolution
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, series titles, season numbers, and
//     page identifiers for logging.
//   - Structured error markers plus the Wrap helper and Classify so failures
//     surface as consistent kinds (page not found, malformed field, transport
//     failure) in run reports.
//
// Use these helpers when wiring new fetch or resolver logic so operational
// behaviour (error handling, observability, retries) stays uniform.
package services
