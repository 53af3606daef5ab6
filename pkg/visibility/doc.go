// Package visibility decides which UI containers an editing surface shows
// for the current selection.
//
// Containers (toolbar groups, sidebar panels) register a show-on condition
// once, at construction time. The registry canonicalizes each condition into
// a key, coerces it into a predicate over selected elements, and groups
// containers whose conditions are semantically identical behind one shared
// predicate instance. On every selection change, [Registry.Evaluate] tests
// each distinct predicate once against the selection — not once per
// container — and bulk-applies the show/hide decision to every member of the
// group.
//
// # Conditions
//
// A [Condition] is a tagged union built with one of four constructors:
//
//	visibility.Always()          // no condition: always show
//	visibility.Bool(false)       // boolean constant
//	visibility.Selector("img")   // selector matched against each element
//	visibility.When(fn)          // caller-supplied predicate
//
// [FromValue] maps dynamic input (nil, bool, string, func) onto the
// constructors for configuration layers. Anything else coerces to a
// constant-false predicate: a malformed condition hides its container, it
// never crashes the evaluation pass.
//
// # The sentinel
//
// Every evaluation sequence ends with a single nil element, the sentinel for
// "nothing selected". Conditionless containers and predicates that test for
// an empty selection fire on it; selector conditions resolve it to false.
package visibility
