package visibility

import (
	"slices"
	"sync"

	"github.com/go-scribe/scribe/pkg/dom"
	"github.com/go-scribe/scribe/pkg/errors"
)

// Container is a visibility-controlled UI unit. Concrete containers
// (toolbar groups, sidebar panels) keep their own visible flag and update it
// inside Show and Hide; the registry only decides.
type Container interface {
	// ContainerID returns an opaque identity, unique per instance.
	ContainerID() string
	// Condition returns the container's show-on condition. It must not
	// change after the container is registered.
	Condition() Condition
	// Show is called when an evaluation pass decides the container is
	// visible.
	Show()
	// Hide is called when an evaluation pass decides the container is
	// hidden.
	Hide()
}

// group is an equivalence class of containers sharing one canonical key and
// one predicate instance.
type group struct {
	key       string
	predicate Predicate
	members   []Container
}

// Registry maintains the canonical-key → group index for one editing
// surface. Create one per surface with NewRegistry; the zero value is not
// usable.
//
// All methods are safe for concurrent use: a single mutex serializes
// registration and removal against evaluation passes.
type Registry struct {
	mu     sync.Mutex
	groups map[string]*group
	// order holds canonical keys in first-seen order. Final visibility never
	// depends on it; it only makes the Show/Hide call order deterministic.
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*group)}
}

// Register adds the container to the group for its condition's canonical
// key, creating the group on first sight of the key. It returns the group's
// shared predicate: every container registered under the same key receives
// the identical instance, which is what lets Evaluate test each distinct
// condition once instead of once per container.
//
// Register never fails; every condition kind coerces to some predicate, with
// unrecognized kinds hiding the container.
func (r *Registry) Register(c Container) Predicate {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.Condition().Key()
	g, ok := r.groups[key]
	if !ok {
		g = &group{key: key, predicate: c.Condition().predicate()}
		r.groups[key] = g
		r.order = append(r.order, key)
	}
	g.members = append(g.members, c)
	return g.predicate
}

// Unregister removes the container from its group. An emptied group is
// dropped from the index; the registry lives as long as its surface and must
// not grow without bound as containers are destroyed.
func (r *Registry) Unregister(c Container) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.Condition().Key()
	g, ok := r.groups[key]
	if !ok {
		return
	}
	id := c.ContainerID()
	g.members = slices.DeleteFunc(g.members, func(m Container) bool {
		return m.ContainerID() == id
	})
	if len(g.members) == 0 {
		delete(r.groups, key)
		r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == key })
	}
}

// Evaluate decides and applies show/hide for every registered container
// against the current selection. The sequence under test is elements plus
// the sentinel appended once; an empty or nil selection tests the sentinel
// alone.
//
// Each group's predicate runs at most once per element, stopping at the
// first match; the decision is then applied to every member. Show and Hide
// are invoked synchronously within the pass. A predicate that panics is
// reported through the error handler and counts as false for that element
// (fail-closed); no panic crosses Evaluate.
func (r *Registry) Evaluate(elements []dom.Element) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sequence := make([]dom.Element, 0, len(elements)+1)
	sequence = append(sequence, elements...)
	sequence = append(sequence, nil)

	for _, key := range r.order {
		g := r.groups[key]
		if g.predicate == nil {
			// Defensive no-op: never decided either way.
			continue
		}
		shown := slices.ContainsFunc(sequence, func(el dom.Element) bool {
			return evaluate(g.key, g.predicate, el)
		})
		for _, c := range g.members {
			if shown {
				c.Show()
			} else {
				c.Hide()
			}
		}
	}
}

// GroupCount returns the number of distinct predicate groups.
func (r *Registry) GroupCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}

// ContainerCount returns the number of registered containers.
func (r *Registry) ContainerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, g := range r.groups {
		count += len(g.members)
	}
	return count
}

// evaluate runs one predicate against one element, converting a panic into a
// reported EvalError and a false result.
func evaluate(key string, p Predicate, el dom.Element) (matched bool) {
	defer func() {
		if rec := recover(); rec != nil {
			errors.ReportEvalError(&errors.EvalError{
				Key:        key,
				Element:    describe(el),
				Recovered:  rec,
				StackTrace: errors.CaptureStack(),
			})
			matched = false
		}
	}()
	return p(el)
}

// describe names an element for error reporting; the sentinel is "<none>".
func describe(el dom.Element) string {
	if el == nil {
		return "<none>"
	}
	return el.Description()
}
