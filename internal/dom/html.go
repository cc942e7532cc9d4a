package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HTMLDocument is a Document backed by goquery.
type HTMLDocument struct {
	doc *goquery.Document
}

// Parse reads an HTML page into an HTMLDocument
func Parse(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// ParseString parses page source held in memory
func ParseString(source string) (*HTMLDocument, error) {
	return Parse(strings.NewReader(source))
}

// Find returns all elements matching selector in document order
func (d *HTMLDocument) Find(selector string) []Node {
	return wrapAll(d.doc.Find(selector).Nodes)
}

// Root returns the <html> element
func (d *HTMLDocument) Root() Node {
	roots := d.Find("html")
	if len(roots) == 0 {
		return nil
	}
	return roots[0]
}

// Wrap exposes a parsed *html.Node as a Node. Non-element nodes yield nil.
func Wrap(n *html.Node) Node {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &element{node: n}
}

func wrapAll(nodes []*html.Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if w := Wrap(n); w != nil {
			out = append(out, w)
		}
	}
	return out
}

type element struct {
	node *html.Node
}

func (e *element) selection() *goquery.Selection {
	return &goquery.Selection{Nodes: []*html.Node{e.node}}
}

func (e *element) Tag() string {
	return e.node.Data
}

func (e *element) Attr(name string) string {
	v, _ := e.selection().Attr(name)
	return v
}

func (e *element) HasAttr(name string) bool {
	_, ok := e.selection().Attr(name)
	return ok
}

func (e *element) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		attrs = append(attrs, Attribute{Name: a.Key, Value: a.Val})
	}
	return attrs
}

func (e *element) Text() string {
	return normalizeSpace(e.selection().Text())
}

func (e *element) OwnText() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}
	return normalizeSpace(b.String())
}

func (e *element) Parent() Node {
	return Wrap(e.node.Parent)
}

func (e *element) PrevSibling() Node {
	for s := e.node.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return &element{node: s}
		}
	}
	return nil
}

func (e *element) Children() []Node {
	return wrapAll(e.selection().Children().Nodes)
}

func (e *element) Find(selector string) []Node {
	return wrapAll(e.selection().Find(selector).Nodes)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
