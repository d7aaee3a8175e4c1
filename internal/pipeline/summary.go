package pipeline

import "absubmit/internal/eligibility"

// Summary counts what happened to each item in a run. Submitted, Skipped and
// Failed always add up to Total.
type Summary struct {
	Total     int
	Submitted int
	Skipped   int
	Failed    int
	Skips     map[eligibility.Reason]int
}

// HasFailures reports whether any item failed analysis or submission.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}
