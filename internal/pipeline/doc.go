// Package pipeline runs a full extraction for one series: infobox metadata,
// season page discovery, and per-season episode records.
//
// A run is sequential. Problems confined to one season page are recorded as
// Issues on the Result and the run continues; only a missing or unreachable
// main article aborts it.
package pipeline
