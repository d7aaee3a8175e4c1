// Package services defines shared utilities consumed by the analysis pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp catalog item IDs, item paths, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that let callers tell
//     fatal configuration failures apart from per-item analysis and submission
//     failures.
//
// Use these helpers when wiring new components so failure classification and
// log attribution stay uniform across the pipeline.
package services
