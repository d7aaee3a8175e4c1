// Package acousticbrainz submits low-level analysis reports to the
// AcousticBrainz API.
//
// Each submission is a single POST; the response is classified into an
// Outcome rather than an error so the caller can log and move on. There is
// no retry.
package acousticbrainz
