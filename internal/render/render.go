// Package render describes the live page an extraction is checked against.
package render

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a locator matches nothing in the live page.
	ErrNotFound = errors.New("element not found in rendered page")
	// ErrNoGeometry is returned by elements that cannot report visibility or geometry.
	ErrNoGeometry = errors.New("element geometry unavailable")
)

// By selects how a Query is resolved.
type By int

const (
	ByID By = iota
	ByXPath
)

func (b By) String() string {
	if b == ByID {
		return "id"
	}
	return "xpath"
}

// Query locates one element, by id or by XPath.
type Query struct {
	By    By
	Value string
}

// Point is a page coordinate.
type Point struct {
	X int
	Y int
}

// Size is a rendered width and height.
type Size struct {
	Width  int
	Height int
}

// Renderer resolves elements in the live page.
type Renderer interface {
	Locate(ctx context.Context, q Query) (Element, error)
}

// Element is a handle to a rendered element, valid for one extraction pass.
type Element interface {
	Displayed(ctx context.Context) (bool, error)
	Location(ctx context.Context) (Point, error)
	Size(ctx context.Context) (Size, error)
}
