// Package preflight provides readiness checks for the extractor, the
// directories absubmit writes to, and the AcousticBrainz endpoint.
//
// The "absubmit check" command runs RunAll and renders the results. Each
// check is independent and reports a human-readable detail whether it passes
// or fails; nothing here returns an error.
package preflight
