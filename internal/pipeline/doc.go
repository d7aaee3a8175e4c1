// Package pipeline drives catalog items through eligibility, analysis and
// submission.
//
// Every item is an independent unit of work: a failure is logged with the
// item's context, counted, and the run moves on. The only error that stops
// a run is the extractor disappearing (configuration drift). Cancellation is
// honoured between items; an item that has started runs to completion.
package pipeline
