package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/v0xg/webvision/internal/dom"
	"github.com/v0xg/webvision/internal/extractor"
	"github.com/v0xg/webvision/internal/logger"
	"github.com/v0xg/webvision/internal/snapshot"
)

func parse(t *testing.T, html string) *dom.HTMLDocument {
	t.Helper()
	doc, err := dom.ParseString(html)
	require.NoError(t, err)
	return doc
}

func records(set *snapshot.FieldSet) map[string]snapshot.FieldRecord {
	out := make(map[string]snapshot.FieldRecord)
	for _, r := range set.Records() {
		out[r.Selector] = r
	}
	return out
}

func TestSummarize_FieldMetadata(t *testing.T) {
	doc := parse(t, `<form>
<label for="companyName">Company name</label>
<input id="companyName" name="companyName" placeholder="ACME" value="x" readonly>
<input name="plain" disabled>
<textarea name="notes" aria-label="Notes"></textarea>
<a href="/help" role="link">Help</a>
<input type="email" name="mail" aria-label="">
</form>`)
	s := extractor.NewSummarizer(doc, logger.NewNop(), false)

	got := records(s.Summarize(doc.Find("input, textarea, a")))
	require.Len(t, got, 5)

	company := got["#companyName"]
	assert.Equal(t, "input", company.Type)
	assert.Equal(t, "companyName", company.Name)
	assert.Equal(t, "Company name", company.Label)
	assert.Equal(t, "ACME", company.Placeholder)
	assert.Equal(t, "x", company.Value)
	assert.True(t, company.ReadOnly)
	assert.False(t, company.Disabled)
	assert.Empty(t, company.Options)

	plain := got["/html/body[1]/form[1]/input[2]"]
	assert.Equal(t, "plain", plain.Name)
	assert.True(t, plain.Disabled)
	assert.Empty(t, plain.Label)

	notes := got["/html/body[1]/form[1]/textarea[1]"]
	assert.Equal(t, "textarea", notes.Type)
	assert.Equal(t, "Notes", notes.AriaLabel)

	help := got["/html/body[1]/form[1]/a[1]"]
	assert.Equal(t, "a", help.Type)
	assert.Equal(t, "/help", help.Href)
	assert.Equal(t, "Help", help.Text)
	assert.Equal(t, "link", help.Role)

	mail := got["/html/body[1]/form[1]/input[3]"]
	assert.Equal(t, "email", mail.Type)
	assert.Empty(t, mail.AriaLabel)
	assert.Empty(t, mail.Href)
}

func TestSummarize_LabelResolution(t *testing.T) {
	doc := parse(t, `<form>
<label for="first">First</label><label for="first">Second</label>
<input id="first">
<label for="byName">By name:</label>
<input id="noLabelForID" name="byName">
<input id="orphan" name="orphan">
<label for="x&quot;y">Quoted</label>
<input id="x&quot;y">
</form>`)
	s := extractor.NewSummarizer(doc, logger.NewNop(), false)

	got := records(s.Summarize(doc.Find("input")))

	assert.Equal(t, "First", got["#first"].Label)
	assert.Equal(t, "By name:", got["#noLabelForID"].Label)
	assert.Equal(t, "", got["#orphan"].Label)
	assert.Equal(t, "Quoted", got[`#x"y`].Label)
}

func TestSummarize_HiddenAndExcludedTypes(t *testing.T) {
	doc := parse(t, `<form>
<input type="hidden" name="csrf" value="t">
<input type="text" name="user">
<input type="submit" value="Go">
<input type="reset">
<input type="button" value="Other">
</form>`)
	nodes := doc.Find("input")

	s := extractor.NewSummarizer(doc, logger.NewNop(), false)
	fields := s.Summarize(nodes, "submit", "reset", "button")
	require.Equal(t, 1, fields.Len())
	assert.Equal(t, "user", fields.Records()[0].Name)

	assert.Equal(t, 4, s.Summarize(nodes).Len())

	withHidden := extractor.NewSummarizer(doc, logger.NewNop(), true)
	assert.Equal(t, 2, withHidden.Summarize(nodes, "submit", "reset", "button").Len())
}

func TestSummarize_SelectOptions(t *testing.T) {
	doc := parse(t, `<select id="country" name="country">
<option> Sri Lanka </option>
<option>India</option>
<option>Sri Lanka</option>
<optgroup label="more"><option>Nepal</option></optgroup>
</select>`)
	s := extractor.NewSummarizer(doc, logger.NewNop(), false)

	got := s.Summarize(doc.Find("select")).Records()
	require.Len(t, got, 1)
	assert.Equal(t, "select", got[0].Type)
	assert.Equal(t, []string{"Sri Lanka", "India"}, got[0].Options)
}

func TestSummarize_DuplicateNodesCollapse(t *testing.T) {
	doc := parse(t, `<input id="a">`)
	s := extractor.NewSummarizer(doc, logger.NewNop(), false)

	n := doc.Find("input")[0]
	assert.Equal(t, 1, s.Summarize([]dom.Node{n, n}).Len())
}

// brokenNode fails on attribute access the way a detached node might.
type brokenNode struct {
	dom.Node
}

func (brokenNode) Attr(string) string { panic("node detached") }

func TestSummarize_UnreadableNodeIsSkipped(t *testing.T) {
	doc := parse(t, `<input id="a"><input id="b">`)
	core, logs := observer.New(zapcore.WarnLevel)
	s := extractor.NewSummarizer(doc, logger.NewZap(zap.New(core)), false)

	inputs := doc.Find("input")
	got := s.Summarize([]dom.Node{inputs[0], brokenNode{inputs[1]}})

	require.Equal(t, 1, got.Len())
	assert.Equal(t, "#a", got.Records()[0].Selector)
	assert.Equal(t, 1, logs.FilterMessage("Skipping unreadable element").Len())
}
