// Package mediawiki provides the minimal MediaWiki action API client used to
// read television articles.
//
// It wraps action=parse for three properties (sections, links, wikitext),
// optionally scoped to one section, and exposes them through the Fetcher
// interface the resolvers depend on. Requests carry a configurable
// User-Agent, are spaced by a token-bucket limiter, time out per request, and
// retry transient failures (HTTP 429/5xx, timeouts, API rate-limit codes)
// with exponential backoff. API error payloads surface as *APIError values
// that unwrap to services.ErrNotFound or ErrSectionNotFound.
package mediawiki
