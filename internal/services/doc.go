// Package services defines shared utilities consumed by the pipeline stages and
// the codec integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, clip indices, and stage names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (missing sources, empty clips, unwritable sinks) for the CLI and logs.
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// handling, observability) stays uniform across the pipeline.
package services
