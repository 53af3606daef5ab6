package dom_test

import (
	"strings"
	"testing"

	"github.com/go-scribe/scribe/pkg/dom"
	"github.com/go-scribe/scribe/pkg/errors"
)

const testDoc = `<html><body>
<div id="editor">
  <p class="lead">Intro <em>emphasis</em> text.</p>
  <figure><img id="hero" src="hero.png"></figure>
</div>
</body></html>`

func TestFindAndMatches(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	em, err := dom.Find(doc, "em")
	if err != nil {
		t.Fatalf("Find(em) error: %v", err)
	}
	if em == nil {
		t.Fatal("Find(em) returned nil")
	}
	if !em.Matches("em") {
		t.Error("em should match selector \"em\"")
	}
	if !em.Matches("p > em") {
		t.Error("em should match selector \"p > em\"")
	}
	if !em.Matches("em, img") {
		t.Error("em should match selector group \"em, img\"")
	}
	if em.Matches("img") {
		t.Error("em should not match selector \"img\"")
	}
}

func TestFindByID(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	img, err := dom.Find(doc, "#hero")
	if err != nil {
		t.Fatalf("Find(#hero) error: %v", err)
	}
	if img == nil {
		t.Fatal("Find(#hero) returned nil")
	}
	if got, want := img.Description(), "img#hero"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
}

func TestFindNoMatch(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	got, err := dom.Find(doc, "table")
	if err != nil {
		t.Fatalf("Find(table) error: %v", err)
	}
	if got != nil {
		t.Errorf("Find(table) = %v, want nil", got)
	}
}

func TestFindInvalidSelector(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if _, err := dom.Find(doc, "p["); err == nil {
		t.Error("Find with invalid selector should return an error")
	}
}

func TestMatchesInvalidSelectorFailsClosed(t *testing.T) {
	var reported int
	errors.SetHandler(&countingHandler{onError: func(*errors.ScribeError) { reported++ }})
	defer errors.SetHandler(nil)

	doc, err := dom.Parse(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	em, err := dom.Find(doc, "em")
	if err != nil || em == nil {
		t.Fatalf("Find(em) = %v, %v", em, err)
	}

	// Deliberately malformed and unique to this test so the bad-selector
	// cache starts cold.
	const bad = "em[[matches-fails-closed"
	if em.Matches(bad) {
		t.Error("malformed selector should match nothing")
	}
	if em.Matches(bad) {
		t.Error("malformed selector should keep matching nothing")
	}
	if reported != 1 {
		t.Errorf("compile failure reported %d times, want once", reported)
	}
}

func TestAncestorChain(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	em, err := dom.Find(doc, "em")
	if err != nil || em == nil {
		t.Fatalf("Find(em) = %v, %v", em, err)
	}

	chain := dom.AncestorChain(em)
	want := []string{"em", "p", "div#editor", "body", "html"}
	if len(chain) != len(want) {
		t.Fatalf("AncestorChain length = %d, want %d", len(chain), len(want))
	}
	for i, el := range chain {
		if got := el.Description(); got != want[i] {
			t.Errorf("chain[%d] = %q, want %q", i, got, want[i])
		}
	}
}

func TestAncestorChainNil(t *testing.T) {
	if chain := dom.AncestorChain(nil); chain != nil {
		t.Errorf("AncestorChain(nil) = %v, want nil", chain)
	}
}

type countingHandler struct {
	onError func(*errors.ScribeError)
}

func (h *countingHandler) HandleError(err *errors.ScribeError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *countingHandler) HandlePanic(*errors.PanicError)    {}
func (h *countingHandler) HandleEvalError(*errors.EvalError) {}
