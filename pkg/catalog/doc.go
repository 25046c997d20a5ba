// Package catalog maintains the merged model catalog: the built-in model
// list plus whatever the configured gateway advertises at runtime.
//
// Discovery results are deduplicated against the built-in list (first
// occurrence wins), enriched with display-name and context-window heuristics
// when the wire carries no metadata, sorted for stable presentation, and
// cached with a TTL so a chat turn never pays a discovery round-trip.
//
// The catalog never goes empty. A failed discovery serves the previous
// result; before any discovery has succeeded, it serves the built-in list
// alone. A refresh past the TTL is performed by exactly one caller while
// concurrent callers keep getting the previous catalog, so a slow gateway
// cannot stall model selection.
//
// An optional SQLite snapshot store (the snapshot subpackage) persists the
// last good catalog across restarts, and a cron Scheduler can refresh in the
// background so the TTL rarely expires on a request path. An Observer hook
// surfaces fetches, cache hits, and stale serves for metrics.
package catalog
