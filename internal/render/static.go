package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/v0xg/webvision/internal/locator"
)

// Static resolves queries against saved page source instead of a browser.
// It has no layout engine, so its elements report ErrNoGeometry.
type Static struct {
	root *html.Node
}

// NewStatic parses page source for offline lookups
func NewStatic(r io.Reader) (*Static, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page source: %w", err)
	}
	return &Static{root: root}, nil
}

// NewStaticString is NewStatic over an in-memory page
func NewStaticString(source string) (*Static, error) {
	return NewStatic(strings.NewReader(source))
}

// Locate finds the first element matching q
func (s *Static) Locate(ctx context.Context, q Query) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expr := q.Value
	if q.By == ByID {
		expr = locator.IDPath(q.Value)
	}

	n, err := htmlquery.Query(s.root, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	if n == nil {
		return nil, fmt.Errorf("%s %q: %w", q.By, q.Value, ErrNotFound)
	}
	return &staticElement{node: n}, nil
}

type staticElement struct {
	node *html.Node
}

// Displayed only knows about markup that hides an element outright.
func (e *staticElement) Displayed(context.Context) (bool, error) {
	for n := e.node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if htmlquery.ExistsAttr(n, "hidden") {
			return false, nil
		}
		style := strings.ReplaceAll(strings.ToLower(htmlquery.SelectAttr(n, "style")), " ", "")
		if strings.Contains(style, "display:none") {
			return false, nil
		}
	}
	return false, ErrNoGeometry
}

func (e *staticElement) Location(context.Context) (Point, error) {
	return Point{}, ErrNoGeometry
}

func (e *staticElement) Size(context.Context) (Size, error) {
	return Size{}, ErrNoGeometry
}
