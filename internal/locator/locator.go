// Package locator builds the strings used to find an extracted element again
// in the live page.
package locator

import (
	"strconv"
	"strings"

	"github.com/v0xg/webvision/internal/dom"
)

// RootPath is the prefix of every positional XPath.
const RootPath = "/html"

const rootTag = "html"

// BuildSelector returns "#id" for elements with an id, otherwise BuildXPath.
// A nil node yields "".
func BuildSelector(n dom.Node) string {
	if n == nil {
		return ""
	}
	if id := n.Attr("id"); id != "" {
		return "#" + id
	}
	return BuildXPath(n)
}

// BuildXPath returns an XPath for n.
//
// The path is anchored on the nearest element (n included) that carries an
// id. Without one it is a positional path from /html where each segment is
// tag[k] and k counts same-tag preceding siblings, starting at 1.
func BuildXPath(n dom.Node) string {
	if n == nil {
		return ""
	}
	if id := n.Attr("id"); id != "" {
		return IDPath(id)
	}

	var segments []string
	for cur := n; cur != nil && cur.Tag() != rootTag; cur = cur.Parent() {
		if id := cur.Attr("id"); id != "" {
			return join(IDPath(id), segments)
		}
		segments = append(segments, cur.Tag()+"["+strconv.Itoa(siblingIndex(cur))+"]")
	}
	if len(segments) == 0 {
		return RootPath
	}
	return join(RootPath, segments)
}

// IDPath returns the XPath that selects any element by id.
func IDPath(id string) string {
	return "//*[@id=" + quote(id) + "]"
}

func siblingIndex(n dom.Node) int {
	index := 1
	tag := n.Tag()
	for s := n.PrevSibling(); s != nil; s = s.PrevSibling() {
		if s.Tag() == tag {
			index++
		}
	}
	return index
}

// join appends segments, collected leaf first, under prefix.
func join(prefix string, segments []string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(segments[i])
	}
	return b.String()
}

// quote wraps an XPath string literal. XPath 1.0 has no escapes, so values
// containing a single quote are wrapped in double quotes instead, and values
// containing both are assembled with concat().
func quote(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	args := make([]string, 0, 2*len(parts))
	for i, part := range parts {
		if part != "" {
			args = append(args, "'"+part+"'")
		}
		if i < len(parts)-1 {
			args = append(args, `"'"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
