// Package surface builds editing surfaces (a toolbar plus a sidebar sharing
// one visibility registry) from declarative YAML definitions.
package surface

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/go-scribe/scribe/pkg/dom"
	"github.com/go-scribe/scribe/pkg/sidebar"
	"github.com/go-scribe/scribe/pkg/toolbar"
	"github.com/go-scribe/scribe/pkg/visibility"
)

// Config is the root of a surface definition.
type Config struct {
	Toolbar ToolbarConfig `yaml:"toolbar"`
	Sidebar SidebarConfig `yaml:"sidebar"`
}

// ToolbarConfig declares the toolbar groups.
type ToolbarConfig struct {
	Groups []GroupConfig `yaml:"groups"`
}

// GroupConfig declares one toolbar group.
type GroupConfig struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label,omitempty"`
	ShowOn ShowOn `yaml:"show_on,omitempty"`
}

// SidebarConfig declares the sidebar panels.
type SidebarConfig struct {
	Panels []PanelConfig `yaml:"panels"`
}

// PanelConfig declares one sidebar panel.
type PanelConfig struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title,omitempty"`
	ShowOn ShowOn `yaml:"show_on,omitempty"`
	// Expanded controls the panel's initial body state; absent means open.
	Expanded *bool `yaml:"expanded,omitempty"`
}

// ShowOn is the dynamic show-on value in a surface definition: a YAML bool,
// a selector string, or absent (always show).
type ShowOn struct {
	set  bool
	cond visibility.Condition
}

// UnmarshalYAML decodes a bool or a selector string.
func (s *ShowOn) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("show_on must be a bool or a selector string, got %s", nodeKind(node.Kind))
	}
	switch node.Tag {
	case "!!null":
		s.set = false
		return nil
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return err
		}
		s.set = true
		s.cond = visibility.Bool(value)
		return nil
	default:
		s.set = true
		s.cond = visibility.Selector(node.Value)
		return nil
	}
}

// Condition returns the declared condition; absent show_on means always.
func (s ShowOn) Condition() visibility.Condition {
	if !s.set {
		return visibility.Always()
	}
	return s.cond
}

func nodeKind(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "document"
	}
}

// Load reads and parses a surface definition file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read surface definition: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a surface definition.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse surface definition: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every container has an id, unique among the toolbar
// groups respectively the sidebar panels. A group and a panel may share an
// id; they are looked up separately.
func (cfg *Config) Validate() error {
	seenGroups := make(map[string]bool)
	for _, g := range cfg.Toolbar.Groups {
		if g.ID == "" {
			return fmt.Errorf("every toolbar group needs an id")
		}
		if seenGroups[g.ID] {
			return fmt.Errorf("duplicate toolbar group id %q", g.ID)
		}
		seenGroups[g.ID] = true
	}
	seenPanels := make(map[string]bool)
	for _, p := range cfg.Sidebar.Panels {
		if p.ID == "" {
			return fmt.Errorf("every sidebar panel needs an id")
		}
		if seenPanels[p.ID] {
			return fmt.Errorf("duplicate sidebar panel id %q", p.ID)
		}
		seenPanels[p.ID] = true
	}
	return nil
}

// Surface is a live toolbar and sidebar sharing one visibility registry,
// one per editing surface.
type Surface struct {
	Toolbar *toolbar.Toolbar
	Sidebar *sidebar.Sidebar

	registry *visibility.Registry
	groups   map[string]*toolbar.Group
	panels   map[string]*sidebar.Panel
	groupIDs []string
	panelIDs []string
}

// Build turns a validated definition into a live surface.
func Build(cfg *Config) (*Surface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	registry := visibility.NewRegistry()
	s := &Surface{
		Toolbar:  toolbar.New(registry),
		Sidebar:  sidebar.New(registry),
		registry: registry,
		groups:   make(map[string]*toolbar.Group, len(cfg.Toolbar.Groups)),
		panels:   make(map[string]*sidebar.Panel, len(cfg.Sidebar.Panels)),
	}
	for _, gc := range cfg.Toolbar.Groups {
		label := gc.Label
		if label == "" {
			label = gc.ID
		}
		g := toolbar.NewGroup(label, gc.ShowOn.Condition())
		s.Toolbar.AddGroup(g)
		s.groups[gc.ID] = g
		s.groupIDs = append(s.groupIDs, gc.ID)
	}
	for _, pc := range cfg.Sidebar.Panels {
		title := pc.Title
		if title == "" {
			title = pc.ID
		}
		p := sidebar.NewPanel(title, pc.ShowOn.Condition())
		if pc.Expanded != nil && !*pc.Expanded {
			p.Collapse()
		}
		s.Sidebar.AddPanel(p)
		s.panels[pc.ID] = p
		s.panelIDs = append(s.panelIDs, pc.ID)
	}
	return s, nil
}

// Registry returns the surface's shared visibility registry.
func (s *Surface) Registry() *visibility.Registry { return s.registry }

// Group returns the toolbar group declared with the given id, or nil.
func (s *Surface) Group(id string) *toolbar.Group { return s.groups[id] }

// Panel returns the sidebar panel declared with the given id, or nil.
func (s *Surface) Panel(id string) *sidebar.Panel { return s.panels[id] }

// GroupIDs returns the declared toolbar group ids in definition order.
func (s *Surface) GroupIDs() []string { return slices.Clone(s.groupIDs) }

// PanelIDs returns the declared sidebar panel ids in definition order.
func (s *Surface) PanelIDs() []string { return slices.Clone(s.panelIDs) }

// SelectionChanged evaluates the shared registry once for the new effective
// selection; both the toolbar's groups and the sidebar's panels receive
// their decisions in the same pass.
func (s *Surface) SelectionChanged(elements []dom.Element) {
	s.Toolbar.SelectionChanged(elements)
}
