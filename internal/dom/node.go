// Package dom exposes a parsed page as a small read-only element tree.
//
// The extraction code only ever talks to the Node and Document interfaces
// so it stays independent of the parser that produced the tree.
package dom

// Attribute is a single name/value pair on an element.
type Attribute struct {
	Name  string
	Value string
}

// Node is one element of a parsed page.
type Node interface {
	// Tag returns the lower-case tag name.
	Tag() string
	// Attr returns the attribute value, or "" when absent.
	Attr(name string) string
	// HasAttr reports whether the attribute is present, even if empty.
	HasAttr(name string) bool
	// Attributes returns all attributes in source order.
	Attributes() []Attribute
	// Text returns the whitespace-normalized text of the node and its descendants.
	Text() string
	// OwnText returns the whitespace-normalized text of direct text children only.
	OwnText() string
	// Parent returns the parent element, or nil at the document root.
	Parent() Node
	// PrevSibling returns the previous element sibling, or nil.
	PrevSibling() Node
	// Children returns the element children in source order.
	Children() []Node
	// Find returns descendants matching a CSS selector in document order.
	Find(selector string) []Node
}

// Document is a parsed page that can be queried with CSS selectors.
type Document interface {
	Find(selector string) []Node
}

// Descendants returns descendants of n matching selector. A nil node has none.
func Descendants(n Node, selector string) []Node {
	if n == nil {
		return nil
	}
	return n.Find(selector)
}
