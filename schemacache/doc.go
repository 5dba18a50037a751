// Package schemacache caches parsed schemas keyed by caller-chosen
// identity.
//
// Schema parsing is cheap but not free, and a stream consumer decodes
// many payloads against few schemas. The cache is an explicit object the
// caller constructs and owns, never package-level state, so two
// consumers with different schema sources cannot poison each other and
// tests get isolation for free.
//
// Statistics are always collected; Prometheus export is opt-in through
// WithMetrics. An optional eviction callback observes invalidations,
// which is how dependent state (a formatter bound to a schema, say)
// learns to rebuild.
//
// GetProto and GetAvro are parse-through helpers: cache hit or
// parse-and-store in one call.
package schemacache
