// Package eligibility decides whether a catalog item should be analyzed and
// submitted.
//
// The rules are evaluated in a fixed order and the first negative match
// supplies the skip reason, so callers can log exactly why an item was left
// alone. Nothing here performs I/O.
package eligibility
