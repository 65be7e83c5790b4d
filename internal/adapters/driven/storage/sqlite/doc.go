// Package sqlite provides the relational side of the dual-store persistence.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A single database
// connection backs the whole MetadataStore interface.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Idempotency
//
// Every write is an INSERT ... ON CONFLICT DO UPDATE keyed by a stable ID,
// so re-applying a run's writes converges instead of duplicating rows. The
// vector_refs table carries the mapping from derived chunk IDs to the vector
// store's internal record IDs for the same reason.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
