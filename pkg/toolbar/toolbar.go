// Package toolbar models an editor toolbar whose groups show and hide with
// the selection.
//
// A toolbar owns an ordered list of groups. Each group is a visibility
// container: it carries a show-on condition, registers once with the
// surface's registry, and receives Show/Hide decisions on every selection
// change. Rendering is not this package's concern; collaborators observe
// decisions through the OnVisibility callback.
package toolbar

import (
	"slices"

	"github.com/google/uuid"

	"github.com/go-scribe/scribe/pkg/dom"
	"github.com/go-scribe/scribe/pkg/visibility"
)

// Group is a named set of toolbar controls toggled as one unit.
type Group struct {
	id        string
	label     string
	cond      visibility.Condition
	predicate visibility.Predicate
	visible   bool
	activated bool

	// OnVisibility is invoked when the group's visible state changes.
	// Optional; called synchronously from the evaluation pass.
	OnVisibility func(visible bool)
}

// NewGroup creates a toolbar group with the given show-on condition. The
// condition is immutable afterwards. Groups start visible.
func NewGroup(label string, cond visibility.Condition) *Group {
	return &Group{
		id:      uuid.NewString(),
		label:   label,
		cond:    cond,
		visible: true,
	}
}

// ContainerID returns the group's opaque identity.
func (g *Group) ContainerID() string { return g.id }

// Label returns the group's display label.
func (g *Group) Label() string { return g.label }

// Condition returns the group's show-on condition.
func (g *Group) Condition() visibility.Condition { return g.cond }

// Visible reports the group's current display state.
func (g *Group) Visible() bool { return g.visible }

// Activated reports whether the group is the toolbar's foreground group.
func (g *Group) Activated() bool { return g.activated }

// Predicate returns the shared predicate assigned at registration, for
// direct querying. Nil before the group is attached to a toolbar.
func (g *Group) Predicate() visibility.Predicate { return g.predicate }

// Show marks the group visible.
func (g *Group) Show() { g.setVisible(true) }

// Hide marks the group hidden.
func (g *Group) Hide() { g.setVisible(false) }

func (g *Group) setVisible(visible bool) {
	if g.visible == visible {
		return
	}
	g.visible = visible
	if g.OnVisibility != nil {
		g.OnVisibility(visible)
	}
}

// Toolbar is an ordered collection of groups sharing one visibility
// registry. At most one group is activated at a time.
type Toolbar struct {
	registry *visibility.Registry
	groups   []*Group
	active   *Group
}

// New creates a toolbar on the given registry. Pass nil to give the toolbar
// a registry of its own.
func New(registry *visibility.Registry) *Toolbar {
	if registry == nil {
		registry = visibility.NewRegistry()
	}
	return &Toolbar{registry: registry}
}

// Registry returns the visibility registry the toolbar registers into.
func (t *Toolbar) Registry() *visibility.Registry { return t.registry }

// AddGroup appends the group and registers it for visibility decisions.
// Each group is added at most once.
func (t *Toolbar) AddGroup(g *Group) {
	if g == nil || slices.Contains(t.groups, g) {
		return
	}
	t.groups = append(t.groups, g)
	g.predicate = t.registry.Register(g)
}

// RemoveGroup detaches the group from the toolbar and its registry.
func (t *Toolbar) RemoveGroup(g *Group) {
	index := slices.Index(t.groups, g)
	if index < 0 {
		return
	}
	t.groups = slices.Delete(t.groups, index, index+1)
	t.registry.Unregister(g)
	if t.active == g {
		g.activated = false
		t.active = nil
	}
}

// Groups returns the groups in insertion order.
func (t *Toolbar) Groups() []*Group {
	return slices.Clone(t.groups)
}

// Active returns the activated group, or nil.
func (t *Toolbar) Active() *Group { return t.active }

// Activate foregrounds the group, deactivating any other. Reports whether
// the group belongs to this toolbar.
func (t *Toolbar) Activate(g *Group) bool {
	if !slices.Contains(t.groups, g) {
		return false
	}
	if t.active == g {
		return true
	}
	if t.active != nil {
		t.active.activated = false
	}
	t.active = g
	g.activated = true
	return true
}

// SelectionChanged re-evaluates visibility for the new effective selection
// and keeps the activated group sensible: if the current one was hidden by
// the pass, activation moves to the first visible group.
func (t *Toolbar) SelectionChanged(elements []dom.Element) {
	t.registry.Evaluate(elements)
	if t.active != nil && t.active.visible {
		return
	}
	if t.active != nil {
		t.active.activated = false
		t.active = nil
	}
	for _, g := range t.groups {
		if g.visible {
			t.Activate(g)
			return
		}
	}
}
