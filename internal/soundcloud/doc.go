// Package soundcloud implements the SoundCloud API client: paginated
// collection fetching, single-entity metadata lookups, and the entity cache.
//
// # Pagination
//
// [Client.FetchAll] walks a remote collection with an explicit loop over a
// per-request accumulator. Two termination disciplines exist, selected by
// [ResourceType]:
//
//   - Cursor-style: the server returns a next_href with each page
//     (linked_partitioning); the walk follows it until it is empty and the
//     requested quantity is advisory.
//   - Limit-style: resources without a reliable cursor (related tracks) are
//     fetched with limit/offset until the accumulated count reaches the
//     requested quantity or a page comes back empty.
//
// The caller receives only the [index, index+quantity) window; Total reports
// the accumulated set's size at termination.
//
// # Authorization
//
// All network operations run under [auth.Guard], which refreshes an expired
// access token exactly once before the call. Authorization headers come from
// the session: a static API key ("OAuth <key>") or a bearer token.
//
// # Entity cache
//
// Track-like fetch results are written through to [EntityCache] as
// independent 30-day TTL'd field keys with a sentinel written last. Readers
// treat a missing sentinel as a full miss, so a partially written generation
// is never served.
//
// # Error Handling
//
// The package maps failures onto the shared sentinels:
//   - [shared.ErrNotConfigured] : no credential at all
//   - [shared.ErrRefreshFailed] : refresh rejected, refresh token removed
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrMalformedResponse] : undecodable payload
//
// A failed page aborts the whole fetch; the aggregator never partially
// succeeds.
package soundcloud
