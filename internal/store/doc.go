// Package store provides SQLite-backed persistence for the audit data layer.
//
// One database file holds four independent collections:
//   - config: the single versioned floor/feature configuration record
//   - audits: completed BuildingAudit snapshots, keyed by id
//   - photos: photo blobs, keyed by id, referenced from matrix cells
//   - meta: the cached CSV snapshot (a performance cache, never authoritative)
//
// # Read-time normalization
//
// ListAudits passes every stored record through the versioned decode in
// internal/audit. A record whose cells use the legacy bare-boolean shape, or
// that was damaged by a crashed older version or external tampering, is
// repaired and written back before being returned, so an invalid shape never
// propagates to CSV or archive export. Repairs are logged, never surfaced.
//
// # Failure model
//
// Persistence errors are wrapped as *StorageFailure and propagated; nothing
// is retried and no fallback state is kept, so the caller can surface the
// failure and retry the same action. Every operation is all-or-nothing at
// single-record granularity.
//
// # Concurrency
//
// There is exactly one logical writer (the foreground flow). The connection
// pool is capped at one connection and WAL mode serializes operations, so no
// additional locking is required.
package store
