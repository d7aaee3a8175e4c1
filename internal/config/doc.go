// Package config loads, normalizes, and validates absubmit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the ABSUBMIT_EXTRACTOR environment
// fallback. The Config type centralizes every knob the CLI and pipeline need:
// where the extractor lives, where reports are submitted, where the catalog
// database and logs are kept.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
