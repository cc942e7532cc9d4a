package locator_test

import (
	"html"
	"strconv"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/webvision/internal/dom"
	"github.com/v0xg/webvision/internal/locator"
)

const fixture = `<html><head><title>t</title></head><body>
<div data-k="d1"><span data-k="s1">a</span><p data-k="p1">x</p><span data-k="s2">b</span></div>
<div id="box" data-k="box"><ul data-k="ul"><li data-k="li1">1</li><li data-k="li2">2</li></ul></div>
<form data-k="f"><input id="companyName" data-k="cn"><div data-k="fd"><input name="x" data-k="x"></div></form>
<section data-k="sec"><div data-k="sd1"></div><div data-k="sd2"><b data-k="b1">deep</b></div></section>
</body></html>`

func parse(t *testing.T) *dom.HTMLDocument {
	t.Helper()
	doc, err := dom.ParseString(fixture)
	require.NoError(t, err)
	return doc
}

func byKey(t *testing.T, doc *dom.HTMLDocument, key string) dom.Node {
	t.Helper()
	nodes := doc.Find(`[data-k="` + key + `"]`)
	require.Len(t, nodes, 1, "fixture key %s", key)
	return nodes[0]
}

func TestBuildSelector_PrefersID(t *testing.T) {
	doc := parse(t)

	assert.Equal(t, "#companyName", locator.BuildSelector(byKey(t, doc, "cn")))
	assert.Equal(t, "#box", locator.BuildSelector(byKey(t, doc, "box")))
}

func TestBuildSelector_FallsBackToXPath(t *testing.T) {
	doc := parse(t)

	n := byKey(t, doc, "s2")
	assert.Equal(t, locator.BuildXPath(n), locator.BuildSelector(n))
}

func TestBuildXPath(t *testing.T) {
	doc := parse(t)

	tests := []struct {
		key  string
		want string
	}{
		{"s1", "/html/body[1]/div[1]/span[1]"},
		{"p1", "/html/body[1]/div[1]/p[1]"},
		{"s2", "/html/body[1]/div[1]/span[2]"},
		{"box", "//*[@id='box']"},
		{"ul", "//*[@id='box']/ul[1]"},
		{"li2", "//*[@id='box']/ul[1]/li[2]"},
		{"cn", "//*[@id='companyName']"},
		{"fd", "/html/body[1]/form[1]/div[1]"},
		{"sd2", "/html/body[1]/section[1]/div[2]"},
		{"b1", "/html/body[1]/section[1]/div[2]/b[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, locator.BuildXPath(byKey(t, doc, tt.key)))
		})
	}
}

func TestBuildXPath_Root(t *testing.T) {
	doc := parse(t)

	assert.Equal(t, locator.RootPath, locator.BuildXPath(doc.Root()))
	assert.Equal(t, "", locator.BuildXPath(nil))
	assert.Equal(t, "", locator.BuildSelector(nil))
}

func TestBuildXPath_QuotesID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"plain", `box`, `//*[@id='box']/p[1]`},
		{"apostrophe", `it's`, `//*[@id="it's"]/p[1]`},
		{"double quote", `say"hi`, `//*[@id='say"hi']/p[1]`},
		{"both", `q'x"y`, `//*[@id=concat('q', "'", 'x"y')]/p[1]`},
		{"both at edges", `'a"b'`, `//*[@id=concat("'", 'a"b', "'")]/p[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := `<div id="` + html.EscapeString(tt.id) + `"><p>x</p></div><p>other</p>`
			doc, err := dom.ParseString(page)
			require.NoError(t, err)
			p := doc.Find("p")[0]

			path := locator.BuildXPath(p)
			assert.Equal(t, tt.want, path)

			root, err := htmlquery.Parse(strings.NewReader(page))
			require.NoError(t, err)
			found, err := htmlquery.QueryAll(root, path)
			require.NoError(t, err, path)
			require.Len(t, found, 1, path)
			assert.Equal(t, tt.id, htmlquery.SelectAttr(found[0].Parent, "id"))
		})
	}
}

func TestBuildXPath_SegmentsMatchDepthAndSiblingIndex(t *testing.T) {
	doc := parse(t)

	for _, key := range []string{"s1", "p1", "s2", "f", "fd", "x", "sec", "sd1", "sd2", "b1"} {
		n := byKey(t, doc, key)
		path := locator.BuildXPath(n)
		require.True(t, strings.HasPrefix(path, locator.RootPath+"/"), path)

		segments := strings.Split(strings.TrimPrefix(path, locator.RootPath+"/"), "/")

		var chain []dom.Node
		for cur := n; cur != nil && cur.Tag() != "html"; cur = cur.Parent() {
			chain = append([]dom.Node{cur}, chain...)
		}
		require.Len(t, segments, len(chain), path)

		for i, seg := range segments {
			want := 1
			for s := chain[i].PrevSibling(); s != nil; s = s.PrevSibling() {
				if s.Tag() == chain[i].Tag() {
					want++
				}
			}
			assert.Equal(t, chain[i].Tag()+"["+strconv.Itoa(want)+"]", seg)
		}
	}
}

func TestBuildXPath_ResolvesToSameElement(t *testing.T) {
	doc := parse(t)
	root, err := htmlquery.Parse(strings.NewReader(fixture))
	require.NoError(t, err)

	for _, n := range doc.Find("[data-k]") {
		path := locator.BuildXPath(n)
		found, err := htmlquery.QueryAll(root, path)
		require.NoError(t, err, path)
		require.Len(t, found, 1, path)
		assert.Equal(t, n.Attr("data-k"), htmlquery.SelectAttr(found[0], "data-k"), path)
	}
}
