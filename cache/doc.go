// Package cache implements the two-tier route-query cache.
//
// Entries live in a bounded in-process tier in front of a durable object
// store, partitioned by category with an independent TTL each. Validity is
// always recomputed from the entry timestamp at read time; expired entries
// are indistinguishable from absent ones. Durable-tier failures degrade to
// cache misses: caching is best-effort and never fails the compute path.
package cache
