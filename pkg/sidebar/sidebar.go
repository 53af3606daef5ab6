// Package sidebar models a collapsible editor sidebar with
// selection-driven panels.
//
// The sidebar itself opens and closes; its panels expand and collapse
// individually, and their visibility is decided by the surface's registry on
// every selection change. Rendering and animation are collaborator concerns:
// this package tracks state and raises callbacks.
package sidebar

import (
	"slices"

	"github.com/google/uuid"

	"github.com/go-scribe/scribe/pkg/dom"
	"github.com/go-scribe/scribe/pkg/visibility"
)

// Panel is one sidebar section.
type Panel struct {
	id        string
	title     string
	cond      visibility.Condition
	predicate visibility.Predicate
	visible   bool
	expanded  bool
	activated bool

	// OnVisibility is invoked when the panel's visible state changes.
	// Optional; called synchronously from the evaluation pass.
	OnVisibility func(visible bool)
	// OnToggle is invoked when the panel expands or collapses.
	OnToggle func(expanded bool)
}

// NewPanel creates a panel with the given show-on condition. The condition
// is immutable afterwards. Panels start visible and expanded.
func NewPanel(title string, cond visibility.Condition) *Panel {
	return &Panel{
		id:       uuid.NewString(),
		title:    title,
		cond:     cond,
		visible:  true,
		expanded: true,
	}
}

// ContainerID returns the panel's opaque identity.
func (p *Panel) ContainerID() string { return p.id }

// Title returns the panel's display title.
func (p *Panel) Title() string { return p.title }

// Condition returns the panel's show-on condition.
func (p *Panel) Condition() visibility.Condition { return p.cond }

// Visible reports the panel's current display state.
func (p *Panel) Visible() bool { return p.visible }

// Expanded reports whether the panel's body is open.
func (p *Panel) Expanded() bool { return p.expanded }

// Activated reports whether the panel is the sidebar's foreground panel.
func (p *Panel) Activated() bool { return p.activated }

// Predicate returns the shared predicate assigned at registration, for
// direct querying. Nil before the panel is attached to a sidebar.
func (p *Panel) Predicate() visibility.Predicate { return p.predicate }

// Show marks the panel visible.
func (p *Panel) Show() { p.setVisible(true) }

// Hide marks the panel hidden.
func (p *Panel) Hide() { p.setVisible(false) }

func (p *Panel) setVisible(visible bool) {
	if p.visible == visible {
		return
	}
	p.visible = visible
	if p.OnVisibility != nil {
		p.OnVisibility(visible)
	}
}

// Expand opens the panel body.
func (p *Panel) Expand() { p.setExpanded(true) }

// Collapse closes the panel body.
func (p *Panel) Collapse() { p.setExpanded(false) }

// Toggle flips the panel body between open and closed.
func (p *Panel) Toggle() { p.setExpanded(!p.expanded) }

func (p *Panel) setExpanded(expanded bool) {
	if p.expanded == expanded {
		return
	}
	p.expanded = expanded
	if p.OnToggle != nil {
		p.OnToggle(expanded)
	}
}

// Sidebar is an ordered collection of panels sharing one visibility
// registry. The sidebar starts open.
type Sidebar struct {
	registry *visibility.Registry
	panels   []*Panel
	active   *Panel
	open     bool
}

// New creates a sidebar on the given registry. Pass nil to give the sidebar
// a registry of its own.
func New(registry *visibility.Registry) *Sidebar {
	if registry == nil {
		registry = visibility.NewRegistry()
	}
	return &Sidebar{registry: registry, open: true}
}

// Registry returns the visibility registry the sidebar registers into.
func (s *Sidebar) Registry() *visibility.Registry { return s.registry }

// Open reports whether the sidebar is open.
func (s *Sidebar) Open() bool { return s.open }

// SetOpen opens or closes the whole sidebar. Panel visibility is unaffected;
// a closed sidebar keeps receiving decisions so it is current when reopened.
func (s *Sidebar) SetOpen(open bool) { s.open = open }

// AddPanel appends the panel and registers it for visibility decisions.
// Each panel is added at most once.
func (s *Sidebar) AddPanel(p *Panel) {
	if p == nil || slices.Contains(s.panels, p) {
		return
	}
	s.panels = append(s.panels, p)
	p.predicate = s.registry.Register(p)
}

// RemovePanel detaches the panel from the sidebar and its registry.
func (s *Sidebar) RemovePanel(p *Panel) {
	index := slices.Index(s.panels, p)
	if index < 0 {
		return
	}
	s.panels = slices.Delete(s.panels, index, index+1)
	s.registry.Unregister(p)
	if s.active == p {
		p.activated = false
		s.active = nil
	}
}

// Panels returns the panels in insertion order.
func (s *Sidebar) Panels() []*Panel {
	return slices.Clone(s.panels)
}

// Active returns the activated panel, or nil.
func (s *Sidebar) Active() *Panel { return s.active }

// Activate foregrounds the panel, deactivating any other. Reports whether
// the panel belongs to this sidebar.
func (s *Sidebar) Activate(p *Panel) bool {
	if !slices.Contains(s.panels, p) {
		return false
	}
	if s.active == p {
		return true
	}
	if s.active != nil {
		s.active.activated = false
	}
	s.active = p
	p.activated = true
	return true
}

// SelectionChanged re-evaluates panel visibility for the new effective
// selection.
func (s *Sidebar) SelectionChanged(elements []dom.Element) {
	s.registry.Evaluate(elements)
}
