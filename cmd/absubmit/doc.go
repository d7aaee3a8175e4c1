// Command absubmit analyzes audio files with the AcousticBrainz extractor
// and submits the low-level reports to AcousticBrainz.
//
// It also manages the small SQLite catalog the submit command works from
// (library add/import/list/set) and the TOML configuration file.
package main
