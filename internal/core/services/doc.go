// Package services contains the core business logic, free of adapter
// concerns. The ingest orchestrator drives the per-video pipeline over a
// bounded worker pool; the persistence gateway applies each video's
// writes to both stores idempotently.
package services
