package correlate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/dom"
	"github.com/v0xg/webvision/internal/extractor"
	"github.com/v0xg/webvision/internal/logger"
	"github.com/v0xg/webvision/internal/snapshot"
)

func snapshotOf(fields ...snapshot.FieldRecord) *snapshot.PageSnapshot {
	return &snapshot.PageSnapshot{
		PageURL: "u",
		Components: []*snapshot.Component{{
			Type:    snapshot.TypeForm,
			Fields:  snapshot.NewFieldSet(fields...),
			Actions: snapshot.NewFieldSet(),
		}},
	}
}

func extract(t *testing.T, html string) *snapshot.PageSnapshot {
	t.Helper()
	doc, err := dom.ParseString(html)
	require.NoError(t, err)
	snap, err := extractor.New(nil, logger.NewNop(), extractor.Options{}).Extract(context.Background(), doc, "u")
	require.NoError(t, err)
	return snap
}

func TestCorrelate_CompanyNameScenarios(t *testing.T) {
	req := correlate.Requirement{ID: "companyName", Label: "Company Name", Type: "text"}

	tests := []struct {
		name     string
		html     string
		want     correlate.MatchType
		selector string
	}{
		{
			name:     "id",
			html:     `<form><label for="companyName">Company name</label><input id="companyName" name="companyName"></form>`,
			want:     correlate.MatchID,
			selector: "#companyName",
		},
		{
			name:     "name",
			html:     `<form><label for="cname">Company name</label><input id="cname" name="companyName"></form>`,
			want:     correlate.MatchName,
			selector: "#cname",
		},
		{
			name:     "label",
			html:     `<form><label for="cn">Company name:</label><input id="cn" name="cn"></form>`,
			want:     correlate.MatchLabel,
			selector: "#cn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := correlate.Correlate([]correlate.Requirement{req}, extract(t, tt.html))

			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].MatchType)
			assert.Equal(t, tt.selector, got[0].UIField.Selector)
			assert.Equal(t, req.ID, got[0].Requirement.ID)
		})
	}
}

func TestCorrelate_IDBeatsLabel(t *testing.T) {
	byLabel := snapshot.FieldRecord{Selector: "#other", Type: "text", Label: "Email"}
	byID := snapshot.FieldRecord{Selector: "#email", Type: "text", Label: "Contact"}

	got := correlate.Correlate(
		[]correlate.Requirement{{ID: "email", Label: "Email"}},
		snapshotOf(byLabel, byID),
	)

	require.Len(t, got, 1)
	assert.Equal(t, correlate.MatchID, got[0].MatchType)
	assert.Equal(t, "#email", got[0].UIField.Selector)
}

func TestCorrelate_NameBeatsLabel(t *testing.T) {
	byLabel := snapshot.FieldRecord{Selector: "/html/body[1]/input[1]", Label: "Phone"}
	byName := snapshot.FieldRecord{Selector: "/html/body[1]/input[2]", Name: "phone"}

	got := correlate.Correlate(
		[]correlate.Requirement{{ID: "phone", Label: "Phone"}},
		snapshotOf(byLabel, byName),
	)

	require.Len(t, got, 1)
	assert.Equal(t, correlate.MatchName, got[0].MatchType)
	assert.Equal(t, "/html/body[1]/input[2]", got[0].UIField.Selector)
}

func TestCorrelate_XPathSelectorsNeverMatchIDPass(t *testing.T) {
	f := snapshot.FieldRecord{Selector: "//*[@id='companyName']/input[1]"}

	got := correlate.Correlate([]correlate.Requirement{{ID: "companyName"}}, snapshotOf(f))
	assert.Empty(t, got)
}

func TestCorrelate_NameIsCaseSensitive(t *testing.T) {
	f := snapshot.FieldRecord{Selector: "/x", Name: "CompanyName"}

	got := correlate.Correlate([]correlate.Requirement{{ID: "companyName"}}, snapshotOf(f))
	assert.Empty(t, got)
}

func TestCorrelate_LabelNormalization(t *testing.T) {
	tests := []struct {
		field, req string
		match      bool
	}{
		{"Company name:", "Company Name", true},
		{"Company name", "COMPANY NAME:", true},
		{"Company name::", "Company name", false},
		{"Company  name", "Company name", false},
		{" Company name", "Company name", false},
		{"", "", false},
		{":", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.field+"|"+tt.req, func(t *testing.T) {
			f := snapshot.FieldRecord{Selector: "/x", Label: tt.field}
			got := correlate.Correlate([]correlate.Requirement{{ID: "r", Label: tt.req}}, snapshotOf(f))
			assert.Equal(t, tt.match, len(got) == 1)
		})
	}
}

func TestCorrelate_OmitsUnmatchedAndKeepsOrder(t *testing.T) {
	shared := snapshot.FieldRecord{Selector: "#email", Name: "mail", Label: "E-mail"}
	reqs := []correlate.Requirement{
		{ID: "missing", Label: "Nothing here"},
		{ID: "email", Label: "Email"},
		{ID: "mail", Label: "Mail"},
		{ID: "x", Label: "E-mail:"},
	}

	got := correlate.Correlate(reqs, snapshotOf(shared))

	require.Len(t, got, 3)
	assert.Equal(t, "email", got[0].Requirement.ID)
	assert.Equal(t, correlate.MatchID, got[0].MatchType)
	assert.Equal(t, "mail", got[1].Requirement.ID)
	assert.Equal(t, correlate.MatchName, got[1].MatchType)
	assert.Equal(t, "x", got[2].Requirement.ID)
	assert.Equal(t, correlate.MatchLabel, got[2].MatchType)
	for _, cf := range got {
		assert.Equal(t, shared, cf.UIField)
	}

	unmatched := correlate.Unmatched(reqs, got)
	require.Len(t, unmatched, 1)
	assert.Equal(t, "missing", unmatched[0].ID)
}

func TestCorrelate_FirstFieldInDiscoveryOrderWins(t *testing.T) {
	snap := &snapshot.PageSnapshot{Components: []*snapshot.Component{
		{Type: snapshot.TypeForm, Fields: snapshot.NewFieldSet(snapshot.FieldRecord{Selector: "/a", Name: "q"})},
		{Type: snapshot.TypeSection, Fields: snapshot.NewFieldSet(snapshot.FieldRecord{Selector: "/b", Name: "q"})},
	}}

	got := correlate.Correlate([]correlate.Requirement{{ID: "q"}}, snap)
	require.Len(t, got, 1)
	assert.Equal(t, "/a", got[0].UIField.Selector)
}

func TestCorrelate_ActionsAreNotCandidates(t *testing.T) {
	snap := &snapshot.PageSnapshot{Components: []*snapshot.Component{{
		Type:    snapshot.TypeForm,
		Fields:  snapshot.NewFieldSet(),
		Actions: snapshot.NewFieldSet(snapshot.FieldRecord{Selector: "#submit", Type: "submit"}),
	}}}

	assert.Empty(t, correlate.Correlate([]correlate.Requirement{{ID: "submit"}}, snap))
}

func TestCorrelate_EmptyInputs(t *testing.T) {
	assert.Empty(t, correlate.Correlate(nil, snapshotOf()))
	assert.Empty(t, correlate.Correlate([]correlate.Requirement{{ID: "a"}}, nil))
}
