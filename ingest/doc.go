// Package ingest implements the document ingestion and parse-completion
// pipeline: duplicate resolution, sequential upload, per-document parse
// triggering, and the bounded polling state machine that observes parse
// completion.
//
// Documents move through upload, trigger and poll strictly one at a time.
// This serialization is a deliberate backpressure policy protecting a
// shared, rate-sensitive embedding backend and must not be parallelized.
//
// Per-file and per-document failures are logged and counted, never
// escalated; only fatal conditions (missing folder, invalid dataset,
// canceled context) surface as errors.
package ingest
