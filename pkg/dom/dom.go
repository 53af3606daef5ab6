// Package dom provides the element handles the visibility core evaluates
// show-on conditions against.
//
// The core only depends on the [Element] interface: an opaque handle that can
// answer whether it structurally matches a selector pattern. This package
// also ships a concrete adapter over parsed HTML documents
// (golang.org/x/net/html) with selector matching via cascadia, plus helpers
// for locating nodes and building the effective-selection sequence an editor
// feeds to the evaluator.
package dom

// Element is an opaque handle to a document element.
//
// A nil Element is the sentinel for "no element": the evaluator appends it to
// every selection sequence so conditions that test for an empty selection can
// fire. Implementations never see nil; selector conditions resolve the
// sentinel to false before delegating to Matches.
type Element interface {
	// Matches reports whether the element structurally matches the selector
	// pattern. A pattern the implementation cannot interpret matches nothing.
	Matches(selector string) bool

	// Description returns a short human-readable description of the element
	// for logs and error messages.
	Description() string
}
