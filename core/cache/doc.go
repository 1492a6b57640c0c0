// Package cache provides the TTL key-value layer for listing and search
// results.
//
// Directory contents change often, so entries carry short per-call TTLs and
// are evicted lazily on access. Mutations (folder create/delete/rename)
// invalidate by substring: one call removes every cached listing whose
// fingerprint mentions the affected owner or path, without tracking exact
// key sets.
//
// The cache is an injected dependency rather than a package-level singleton,
// which keeps tenants and tests isolated, and it is capacity-bounded:
// when full it drops expired entries first, then the soonest-to-expire.
//
// Correctness-critical paths (reconciliation) never read through this cache.
package cache
