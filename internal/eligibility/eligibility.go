package eligibility

import (
	"slices"
	"strings"
)

// Candidate is the read-only view of a catalog item the filter needs.
type Candidate interface {
	// Identifier is the MusicBrainz recording id submissions are keyed on.
	Identifier() string
	// FileFormat is the format tag recorded for the file, e.g. "MP3".
	FileFormat() string
	// ExistingAnalysis is non-empty when the item already carries analysis
	// results.
	ExistingAnalysis() string
}

// Reason explains an eligibility decision.
type Reason string

const (
	ReasonEligible          Reason = "eligible"
	ReasonAlreadyAnalyzed   Reason = "already analyzed"
	ReasonMissingIdentifier Reason = "missing musicbrainz id"
	ReasonUnsupportedFormat Reason = "unsupported format"
)

// Decision is the outcome of Check.
type Decision struct {
	Analyze bool
	Reason  Reason
}

var supportedFormats = map[string]struct{}{
	"mp3": {}, "ogg": {}, "oga": {}, "flac": {}, "mp4": {}, "m4a": {}, "m4r": {},
	"m4b": {}, "m4p": {}, "aac": {}, "wma": {}, "asf": {}, "mpc": {}, "wv": {},
	"spx": {}, "tta": {}, "3g2": {}, "aif": {}, "aiff": {}, "ape": {},
}

// Check applies the eligibility rules in order: existing analysis (unless
// force), missing identifier, unsupported format.
func Check(item Candidate, force bool) Decision {
	if !force && strings.TrimSpace(item.ExistingAnalysis()) != "" {
		return Decision{Reason: ReasonAlreadyAnalyzed}
	}
	if strings.TrimSpace(item.Identifier()) == "" {
		return Decision{Reason: ReasonMissingIdentifier}
	}
	if !IsSupportedFormat(item.FileFormat()) {
		return Decision{Reason: ReasonUnsupportedFormat}
	}
	return Decision{Analyze: true, Reason: ReasonEligible}
}

// ShouldAnalyze is the boolean form of Check.
func ShouldAnalyze(item Candidate, force bool) bool {
	return Check(item, force).Analyze
}

// IsSupportedFormat reports whether the extractor can read files tagged with
// format. Matching is case-insensitive.
func IsSupportedFormat(format string) bool {
	_, ok := supportedFormats[strings.ToLower(strings.TrimSpace(format))]
	return ok
}

// SupportedFormats returns the supported format tags in sorted order.
func SupportedFormats() []string {
	formats := make([]string, 0, len(supportedFormats))
	for format := range supportedFormats {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}
