// Package models defines the normalized domain entities shared by the API
// client, the entity cache, the formatter, and the TUI.
//
// The API layer decodes provider JSON into these types via per-resource page
// mergers; nothing outside internal/soundcloud sees the wire format. All
// three entity types implement [Entity] so the paginated aggregator can
// accumulate them uniformly.
package models
