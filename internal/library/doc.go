// Package library stores the audio catalog absubmit works through.
//
// Items live in a SQLite database (modernc.org/sqlite, no cgo) keyed by file
// path. Each item carries the MusicBrainz recording id used to key
// submissions, the file format tag, and the mood_acoustic field that marks a
// track as already analyzed. Select implements the small query language the
// CLI exposes, and AcquireRunLock keeps two submit runs off the same
// database.
package library
