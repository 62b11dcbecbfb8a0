// Package services defines shared utilities consumed by the queue engine and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp owner IDs, queue item IDs, pipeline step
//     names, and correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (validation, not-found, insufficient credit, pipeline,
//     persistence) uniform across the HTTP layer and the background executor.
//
// Use these helpers when wiring new engine logic so operational behaviour
// (error handling, observability) stays consistent end to end.
package services
