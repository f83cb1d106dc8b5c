package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is the minimal view of a markup element the sibling scan needs.
type Node interface {
	// Tag returns the lower-case element name
	Tag() string
	// HasClass reports whether the element carries the class
	HasClass(class string) bool
	// Text returns the trimmed text content of the element and its descendants
	Text() string
	// Find returns the first descendant matching tag and optional class
	Find(tag, class string) (Node, bool)
	// NextSibling returns the following sibling element
	NextSibling() (Node, bool)
}

type selectionNode struct {
	sel *goquery.Selection
}

// NewNode wraps the first element of a goquery selection. It returns nil
// for an empty selection.
func NewNode(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return selectionNode{sel: sel.First()}
}

func (n selectionNode) Tag() string {
	return goquery.NodeName(n.sel)
}

func (n selectionNode) HasClass(class string) bool {
	return n.sel.HasClass(class)
}

func (n selectionNode) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

func (n selectionNode) Find(tag, class string) (Node, bool) {
	found := n.sel.Find(cssSelector(tag, class))
	if found.Length() == 0 {
		return nil, false
	}
	return selectionNode{sel: found.First()}, true
}

func (n selectionNode) NextSibling() (Node, bool) {
	next := n.sel.Next()
	if next.Length() == 0 {
		return nil, false
	}
	return selectionNode{sel: next}, true
}
