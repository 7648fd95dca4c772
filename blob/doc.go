// Package blob provides the durable object-store tier used by the cache.
//
// It exposes a minimal key/value blob contract (Get/Put/List/Delete) over a
// single bucket. Two implementations are provided: an S3-compatible MinIO
// client for deployments and a filesystem store for tests and local runs.
// Clients are constructed and injected explicitly; there is no package-level
// singleton.
package blob
