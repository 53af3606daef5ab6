package visibility_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/go-scribe/scribe/pkg/dom"
	"github.com/go-scribe/scribe/pkg/errors"
	"github.com/go-scribe/scribe/pkg/visibility"
)

// fakeContainer records the decisions the registry applies to it.
type fakeContainer struct {
	id      string
	cond    visibility.Condition
	visible bool
	shows   int
	hides   int
}

func newFake(id string, cond visibility.Condition) *fakeContainer {
	// Containers start visible, matching the default always-show condition.
	return &fakeContainer{id: id, cond: cond, visible: true}
}

func (c *fakeContainer) ContainerID() string             { return c.id }
func (c *fakeContainer) Condition() visibility.Condition { return c.cond }

func (c *fakeContainer) Show() {
	c.visible = true
	c.shows++
}

func (c *fakeContainer) Hide() {
	c.visible = false
	c.hides++
}

func (c *fakeContainer) calls() int { return c.shows + c.hides }

// fakeElement matches a selector when any comma-separated alternative equals
// its tag.
type fakeElement struct {
	tag string
}

func (e *fakeElement) Matches(selector string) bool {
	for _, alt := range strings.Split(selector, ",") {
		if strings.TrimSpace(alt) == e.tag {
			return true
		}
	}
	return false
}

func (e *fakeElement) Description() string { return e.tag }

func TestBoolTrueContainersShareGroupAndShow(t *testing.T) {
	registry := visibility.NewRegistry()
	a := newFake("a", visibility.Bool(true))
	b := newFake("b", visibility.Bool(true))
	registry.Register(a)
	registry.Register(b)

	if got := registry.GroupCount(); got != 1 {
		t.Fatalf("GroupCount() = %d, want 1", got)
	}

	registry.Evaluate(nil)

	if !a.visible || !b.visible {
		t.Errorf("visible = (%t, %t), want both true", a.visible, b.visible)
	}
}

func TestPredicateIsSharedByReference(t *testing.T) {
	registry := visibility.NewRegistry()
	first := registry.Register(newFake("a", visibility.Selector("img")))
	second := registry.Register(newFake("b", visibility.Selector("img")))

	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Error("containers with the same canonical key should share one predicate instance")
	}

	other := registry.Register(newFake("c", visibility.Selector("table")))
	if reflect.ValueOf(first).Pointer() == reflect.ValueOf(other).Pointer() {
		t.Error("containers with different keys should not share a predicate")
	}
}

func TestSelectorConditionAgainstNonMatchingElement(t *testing.T) {
	registry := visibility.NewRegistry()
	c := newFake("c", visibility.Selector("img"))
	registry.Register(c)

	registry.Evaluate([]dom.Element{&fakeElement{tag: "div"}})

	if c.visible {
		t.Error("Selector(\"img\") container should hide when only a div is selected")
	}
}

func TestSelectorConditionAgainstMatchingElement(t *testing.T) {
	registry := visibility.NewRegistry()
	c := newFake("c", visibility.Selector("img"))
	registry.Register(c)

	registry.Evaluate([]dom.Element{&fakeElement{tag: "div"}, &fakeElement{tag: "img"}})

	if !c.visible {
		t.Error("Selector(\"img\") container should show when an img is selected")
	}
}

func TestBoolFalseAlwaysHides(t *testing.T) {
	registry := visibility.NewRegistry()
	d := newFake("d", visibility.Bool(false))
	registry.Register(d)

	registry.Evaluate([]dom.Element{&fakeElement{tag: "p"}})
	if d.visible {
		t.Error("Bool(false) container should hide regardless of selection")
	}

	registry.Evaluate(nil)
	if d.visible {
		t.Error("Bool(false) container should hide on empty selection too")
	}
}

func TestSentinelReachesFunctionConditions(t *testing.T) {
	onNothingSelected := func(el dom.Element) bool { return el == nil }

	registry := visibility.NewRegistry()
	e := newFake("e", visibility.When(onNothingSelected))
	f := newFake("f", visibility.When(onNothingSelected))
	registry.Register(e)
	registry.Register(f)

	if got := registry.GroupCount(); got != 1 {
		t.Fatalf("GroupCount() = %d, want 1 (same func value)", got)
	}

	registry.Evaluate(nil)

	if !e.visible || !f.visible {
		t.Errorf("visible = (%t, %t), want both true via the sentinel", e.visible, f.visible)
	}
}

func TestUnregisterStopsCallbacks(t *testing.T) {
	registry := visibility.NewRegistry()
	a := newFake("a", visibility.Bool(true))
	b := newFake("b", visibility.Bool(true))
	registry.Register(a)
	registry.Register(b)
	registry.Evaluate(nil)

	registry.Unregister(b)
	callsBefore := b.calls()

	registry.Evaluate(nil)

	if !a.visible {
		t.Error("remaining container should still show")
	}
	if b.calls() != callsBefore {
		t.Errorf("unregistered container received %d further calls", b.calls()-callsBefore)
	}
}

func TestUnregisterDropsEmptyGroup(t *testing.T) {
	registry := visibility.NewRegistry()
	only := newFake("only", visibility.Selector("img"))
	registry.Register(only)

	if got := registry.GroupCount(); got != 1 {
		t.Fatalf("GroupCount() = %d, want 1", got)
	}

	registry.Unregister(only)

	if got := registry.GroupCount(); got != 0 {
		t.Errorf("GroupCount() after unregister = %d, want 0", got)
	}
	if got := registry.ContainerCount(); got != 0 {
		t.Errorf("ContainerCount() after unregister = %d, want 0", got)
	}
}

func TestUnregisterUnknownContainerIsNoOp(t *testing.T) {
	registry := visibility.NewRegistry()
	registry.Register(newFake("a", visibility.Bool(true)))

	registry.Unregister(newFake("ghost", visibility.Selector("img")))

	if got := registry.ContainerCount(); got != 1 {
		t.Errorf("ContainerCount() = %d, want 1", got)
	}
}

func TestEvaluationCountIsPerGroupNotPerContainer(t *testing.T) {
	var firstCalls, secondCalls int
	neverFirst := func(el dom.Element) bool { firstCalls++; return false }
	neverSecond := func(el dom.Element) bool { secondCalls++; return false }

	registry := visibility.NewRegistry()
	// Six containers, two groups.
	for i := 0; i < 3; i++ {
		registry.Register(newFake(fmt.Sprintf("first-%d", i), visibility.When(neverFirst)))
		registry.Register(newFake(fmt.Sprintf("second-%d", i), visibility.When(neverSecond)))
	}

	elements := []dom.Element{&fakeElement{tag: "p"}, &fakeElement{tag: "em"}}
	registry.Evaluate(elements)

	// Always-false predicates see the whole sequence: elements plus sentinel.
	want := len(elements) + 1
	if firstCalls != want {
		t.Errorf("first group predicate ran %d times, want %d", firstCalls, want)
	}
	if secondCalls != want {
		t.Errorf("second group predicate ran %d times, want %d", secondCalls, want)
	}
}

func TestEvaluationShortCircuitsOnFirstMatch(t *testing.T) {
	var calls int
	matchAll := func(el dom.Element) bool { calls++; return true }

	registry := visibility.NewRegistry()
	registry.Register(newFake("a", visibility.When(matchAll)))

	registry.Evaluate([]dom.Element{&fakeElement{tag: "p"}, &fakeElement{tag: "em"}})

	if calls != 1 {
		t.Errorf("predicate ran %d times, want 1 (stop at first match)", calls)
	}
}

func TestVisibleMatchesPredicateResult(t *testing.T) {
	registry := visibility.NewRegistry()
	containers := []*fakeContainer{
		newFake("always", visibility.Always()),
		newFake("never", visibility.Bool(false)),
		newFake("img", visibility.Selector("img")),
		newFake("em", visibility.Selector("em")),
		newFake("empty", visibility.When(func(el dom.Element) bool { return el == nil })),
	}
	for _, c := range containers {
		registry.Register(c)
	}

	registry.Evaluate([]dom.Element{&fakeElement{tag: "em"}, &fakeElement{tag: "p"}})

	want := map[string]bool{
		"always": true,
		"never":  false,
		"img":    false,
		"em":     true,
		"empty":  true, // the sentinel is part of every sequence
	}
	for _, c := range containers {
		if c.visible != want[c.id] {
			t.Errorf("container %q visible = %t, want %t", c.id, c.visible, want[c.id])
		}
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	registry := visibility.NewRegistry()
	containers := []*fakeContainer{
		newFake("img", visibility.Selector("img")),
		newFake("em", visibility.Selector("em")),
		newFake("always", visibility.Always()),
	}
	for _, c := range containers {
		registry.Register(c)
	}
	elements := []dom.Element{&fakeElement{tag: "em"}}

	registry.Evaluate(elements)
	first := make(map[string]bool)
	for _, c := range containers {
		first[c.id] = c.visible
	}

	registry.Evaluate(elements)
	for _, c := range containers {
		if c.visible != first[c.id] {
			t.Errorf("container %q flipped from %t to %t on identical selection", c.id, first[c.id], c.visible)
		}
	}
}

func TestPanickingPredicateFailsClosed(t *testing.T) {
	var reported []*errors.EvalError
	errors.SetHandler(&evalCapturingHandler{onEvalError: func(err *errors.EvalError) {
		reported = append(reported, err)
	}})
	defer errors.SetHandler(nil)

	registry := visibility.NewRegistry()
	broken := newFake("broken", visibility.When(func(el dom.Element) bool {
		panic("predicate exploded")
	}))
	healthy := newFake("healthy", visibility.Always())
	registry.Register(broken)
	registry.Register(healthy)

	registry.Evaluate([]dom.Element{&fakeElement{tag: "p"}})

	if broken.visible {
		t.Error("panicking predicate should fail closed and hide its container")
	}
	if !healthy.visible {
		t.Error("a panic in one group should not abort the pass for other groups")
	}
	// One report per element in the sequence: the element and the sentinel.
	if len(reported) != 2 {
		t.Fatalf("got %d eval error reports, want 2", len(reported))
	}
	if reported[0].Recovered != "predicate exploded" {
		t.Errorf("Recovered = %v, want the panic value", reported[0].Recovered)
	}
	if reported[1].Element != "<none>" {
		t.Errorf("sentinel report Element = %q, want %q", reported[1].Element, "<none>")
	}
}

func TestInvalidConditionHides(t *testing.T) {
	registry := visibility.NewRegistry()
	odd := newFake("odd", visibility.FromValue(42))
	registry.Register(odd)

	registry.Evaluate([]dom.Element{&fakeElement{tag: "p"}})

	if odd.visible {
		t.Error("unrecognized condition kind should default to hidden")
	}
}

func TestDecisionOrderIsStableAcrossPasses(t *testing.T) {
	var order []string

	registry := visibility.NewRegistry()
	containers := []*orderedContainer{
		{fakeContainer: *newFake("one", visibility.Selector("em")), log: &order},
		{fakeContainer: *newFake("two", visibility.Always()), log: &order},
		{fakeContainer: *newFake("three", visibility.Selector("em")), log: &order},
	}
	for _, c := range containers {
		registry.Register(c)
	}

	registry.Evaluate(nil)
	firstPass := append([]string(nil), order...)
	order = order[:0]
	registry.Evaluate(nil)

	if !reflect.DeepEqual(firstPass, order) {
		t.Errorf("decision order changed between passes: %v then %v", firstPass, order)
	}
}

type orderedContainer struct {
	fakeContainer
	log *[]string
}

func (c *orderedContainer) Show() {
	c.fakeContainer.Show()
	*c.log = append(*c.log, c.id+":show")
}

func (c *orderedContainer) Hide() {
	c.fakeContainer.Hide()
	*c.log = append(*c.log, c.id+":hide")
}

type evalCapturingHandler struct {
	onEvalError func(*errors.EvalError)
}

func (h *evalCapturingHandler) HandleError(*errors.ScribeError) {}
func (h *evalCapturingHandler) HandlePanic(*errors.PanicError)  {}

func (h *evalCapturingHandler) HandleEvalError(err *errors.EvalError) {
	if h.onEvalError != nil {
		h.onEvalError(err)
	}
}
