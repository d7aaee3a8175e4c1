// Package extractor wraps the AcousticBrainz streaming_extractor_music binary.
//
// Resolve locates the binary once per process (explicit path or PATH lookup
// confirmed by a probe run) and fingerprints its bytes; the resulting Handle
// is an immutable value handed to NewRunner. Runner.Run invokes the extractor
// for a single file through a scoped temporary output file, decodes the JSON
// report, and stamps it with the binary fingerprint so the remote service can
// correlate reports with extractor builds.
//
// Failures are tagged with the markers from internal/services: configuration
// problems (missing or vanished binary) carry ErrConfiguration, per-file
// problems (non-zero exit, unparseable output) carry ErrAnalysis.
package extractor
