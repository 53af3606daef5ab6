package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/go-scribe/scribe/pkg/errors"
)

// NodeElement adapts an *html.Node to the Element interface.
type NodeElement struct {
	node *html.Node
}

// FromNode wraps an HTML node. Returns nil for a nil node.
func FromNode(node *html.Node) *NodeElement {
	if node == nil {
		return nil
	}
	return &NodeElement{node: node}
}

// Node returns the underlying HTML node.
func (e *NodeElement) Node() *html.Node {
	return e.node
}

// Matches reports whether the wrapped node matches the CSS selector.
// Non-element nodes match nothing. A selector that fails to compile is
// reported once through the error handler and matches nothing.
func (e *NodeElement) Matches(selector string) bool {
	if e == nil || e.node == nil || e.node.Type != html.ElementNode {
		return false
	}
	sel, ok := compiledSelector(selector)
	if !ok {
		return false
	}
	return sel.Match(e.node)
}

// Description returns the tag name, with #id appended when present.
func (e *NodeElement) Description() string {
	if e == nil || e.node == nil {
		return "<nil>"
	}
	if e.node.Type != html.ElementNode {
		return fmt.Sprintf("#node(%d)", e.node.Type)
	}
	var sb strings.Builder
	sb.WriteString(e.node.Data)
	for _, attr := range e.node.Attr {
		if attr.Key == "id" && attr.Val != "" {
			sb.WriteString("#")
			sb.WriteString(attr.Val)
			break
		}
	}
	return sb.String()
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// Find returns the first element under root matching the CSS selector,
// in depth-first pre-order. Returns nil if nothing matches.
func Find(root *html.Node, selector string) (*NodeElement, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	var found *html.Node
	walkNodes(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && sel.Match(n) {
			found = n
			return false
		}
		return true
	})
	return FromNode(found), nil
}

// AncestorChain returns the element followed by its ancestor elements up to
// the document root. This is the effective-selection sequence a rich-text
// editor feeds to the evaluator: the selection start element plus every
// enclosing markup element.
func AncestorChain(el *NodeElement) []Element {
	if el == nil || el.node == nil {
		return nil
	}
	var chain []Element
	for n := el.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		chain = append(chain, FromNode(n))
	}
	return chain
}

// walkNodes performs a depth-first pre-order traversal of the node tree.
// The visitor returns false to stop traversal.
func walkNodes(root *html.Node, visitor func(*html.Node) bool) bool {
	if root == nil {
		return true
	}
	if !visitor(root) {
		return false
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if !walkNodes(child, visitor) {
			return false
		}
	}
	return true
}

// Compiled selectors are cached process-wide; show-on selectors are a small
// fixed set per surface and get re-tested on every selection change.
var (
	selectorMu    sync.Mutex
	selectorCache = make(map[string]cascadia.Selector)
	selectorBad   = make(map[string]bool)
)

// compiledSelector returns the cached compiled form of selector.
// A selector that fails to compile is reported once and remembered as bad.
func compiledSelector(selector string) (cascadia.Selector, bool) {
	selectorMu.Lock()
	defer selectorMu.Unlock()
	if sel, ok := selectorCache[selector]; ok {
		return sel, true
	}
	if selectorBad[selector] {
		return nil, false
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		selectorBad[selector] = true
		errors.Report(&errors.ScribeError{
			Op:       "dom.Matches",
			Kind:     errors.KindSelector,
			Selector: selector,
			Err:      err,
		})
		return nil, false
	}
	selectorCache[selector] = sel
	return sel, true
}
