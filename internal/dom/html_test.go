package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/webvision/internal/dom"
)

func TestHTMLDocument_TreeWalk(t *testing.T) {
	doc, err := dom.ParseString(`<div id="wrap" class="a b">
  Hello <span>inner   text</span> world
  <p>one</p><span>two</span>
</div>`)
	require.NoError(t, err)

	divs := doc.Find("div")
	require.Len(t, divs, 1)
	div := divs[0]

	assert.Equal(t, "div", div.Tag())
	assert.Equal(t, "wrap", div.Attr("id"))
	assert.True(t, div.HasAttr("class"))
	assert.False(t, div.HasAttr("role"))
	assert.Equal(t, "", div.Attr("role"))
	assert.Equal(t, "Hello world", div.OwnText())
	assert.Equal(t, "Hello inner text world onetwo", div.Text())
	assert.Equal(t, []dom.Attribute{{Name: "id", Value: "wrap"}, {Name: "class", Value: "a b"}}, div.Attributes())

	children := div.Children()
	require.Len(t, children, 3)
	assert.Equal(t, "span", children[0].Tag())
	assert.Equal(t, "p", children[1].Tag())

	prev := children[2].PrevSibling()
	require.NotNil(t, prev)
	assert.Equal(t, "p", prev.Tag())
	assert.Nil(t, children[0].PrevSibling())

	parent := div.Parent()
	require.NotNil(t, parent)
	assert.Equal(t, "body", parent.Tag())
}

func TestHTMLDocument_RootHasNoParent(t *testing.T) {
	doc, err := dom.ParseString(`<p>x</p>`)
	require.NoError(t, err)

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "html", root.Tag())
	assert.Nil(t, root.Parent())
}

func TestHTMLDocument_FindWithinNode(t *testing.T) {
	doc, err := dom.ParseString(`<form><input name="a"><div><input name="b"></div></form><input name="c">`)
	require.NoError(t, err)

	form := doc.Find("form")[0]
	inputs := form.Find("input")
	require.Len(t, inputs, 2)
	assert.Equal(t, "a", inputs[0].Attr("name"))
	assert.Equal(t, "b", inputs[1].Attr("name"))

	assert.Empty(t, dom.Descendants(nil, "input"))
}

func TestHTMLDocument_InvalidSelectorMatchesNothing(t *testing.T) {
	doc, err := dom.ParseString(`<p>x</p>`)
	require.NoError(t, err)

	assert.Empty(t, doc.Find("p[["))
}
