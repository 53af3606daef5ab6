package visibility

import (
	"fmt"
	"reflect"

	"github.com/go-scribe/scribe/pkg/dom"
)

// Predicate reports whether a container should be shown for the given
// element. The element is nil for the "nothing selected" sentinel.
type Predicate func(el dom.Element) bool

// ConditionKind identifies the kind of a show-on condition.
type ConditionKind int

const (
	// KindInvalid is the zero Condition; it coerces to constant false.
	KindInvalid ConditionKind = iota
	// KindAlways shows the container unconditionally.
	KindAlways
	// KindBool is a boolean constant.
	KindBool
	// KindSelector matches a selector pattern against each element.
	KindSelector
	// KindFunc is a caller-supplied predicate.
	KindFunc
)

func (k ConditionKind) String() string {
	switch k {
	case KindAlways:
		return "always"
	case KindBool:
		return "bool"
	case KindSelector:
		return "selector"
	case KindFunc:
		return "func"
	default:
		return "invalid"
	}
}

// Condition is a container's show-on rule. The zero value is the invalid
// condition, which always hides. Conditions are immutable; build them with
// Always, Bool, Selector, When, or FromValue.
type Condition struct {
	kind     ConditionKind
	value    bool
	selector string
	fn       Predicate
}

// Always returns the condition for containers without a show-on rule:
// always show.
func Always() Condition {
	return Condition{kind: KindAlways}
}

// Bool returns a constant condition.
func Bool(v bool) Condition {
	return Condition{kind: KindBool, value: v}
}

// Selector returns a condition that shows the container when any selected
// element matches the selector pattern. The sentinel never matches.
func Selector(selector string) Condition {
	return Condition{kind: KindSelector, selector: selector}
}

// When returns a condition driven by a caller-supplied predicate. The
// predicate receives nil for the sentinel. A nil fn yields the invalid
// condition.
func When(fn Predicate) Condition {
	if fn == nil {
		return Condition{}
	}
	return Condition{kind: KindFunc, fn: fn}
}

// FromValue maps a dynamically-typed show-on value onto a Condition:
// nil means always, bool and string map to Bool and Selector, and predicate
// functions map to When. Any other kind yields the invalid condition, which
// hides the container.
func FromValue(v any) Condition {
	switch value := v.(type) {
	case nil:
		return Always()
	case bool:
		return Bool(value)
	case string:
		return Selector(value)
	case Predicate:
		return When(value)
	case func(dom.Element) bool:
		return When(value)
	default:
		return Condition{}
	}
}

// Kind returns the condition's kind.
func (c Condition) Kind() ConditionKind {
	return c.kind
}

// Key returns the canonical key for the condition: a string encoding both
// kind and value, so values of different kinds that print identically
// (Bool(true) vs Selector("true")) never collide. Key is pure and
// deterministic; function conditions key on function identity, so two
// containers built from the same func value share a group while distinct
// closures do not.
func (c Condition) Key() string {
	switch c.kind {
	case KindAlways:
		return "always"
	case KindBool:
		return fmt.Sprintf("bool:%t", c.value)
	case KindSelector:
		return "selector:" + c.selector
	case KindFunc:
		return fmt.Sprintf("func:%#x", reflect.ValueOf(c.fn).Pointer())
	default:
		return "invalid"
	}
}

// predicate coerces the condition into its evaluation function. The registry
// calls this once per group; every member container is handed the same
// returned instance.
func (c Condition) predicate() Predicate {
	switch c.kind {
	case KindFunc:
		return c.fn
	case KindBool:
		value := c.value
		return func(dom.Element) bool { return value }
	case KindSelector:
		selector := c.selector
		return func(el dom.Element) bool {
			if el == nil {
				return false
			}
			return el.Matches(selector)
		}
	case KindAlways:
		return func(dom.Element) bool { return true }
	default:
		return func(dom.Element) bool { return false }
	}
}
