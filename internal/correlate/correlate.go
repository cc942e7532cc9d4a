// Package correlate maps requirements onto the fields of a page snapshot.
package correlate

import (
	"strings"

	"github.com/v0xg/webvision/internal/snapshot"
)

// MatchType names the pass that produced a correlation, strongest first.
type MatchType string

const (
	MatchID    MatchType = "ID"
	MatchName  MatchType = "NAME"
	MatchLabel MatchType = "LABEL"
)

// CorrelatedField links a requirement to the UI field that satisfies it.
type CorrelatedField struct {
	Requirement Requirement          `json:"requirement"`
	UIField     snapshot.FieldRecord `json:"uiField"`
	MatchType   MatchType            `json:"matchType"`
}

type pass struct {
	kind  MatchType
	match func(Requirement, snapshot.FieldRecord) bool
}

var passes = []pass{
	{MatchID, func(r Requirement, f snapshot.FieldRecord) bool {
		return f.Selector == "#"+r.ID
	}},
	{MatchName, func(r Requirement, f snapshot.FieldRecord) bool {
		return f.Name == r.ID
	}},
	{MatchLabel, func(r Requirement, f snapshot.FieldRecord) bool {
		want := normalizeLabel(r.Label)
		return want != "" && normalizeLabel(f.Label) == want
	}},
}

// Correlate returns at most one CorrelatedField per requirement, in
// requirement order. Each requirement takes the first field of the first
// pass that matches; requirements no pass matches are left out. A field
// may satisfy several requirements.
func Correlate(reqs []Requirement, snap *snapshot.PageSnapshot) []CorrelatedField {
	var pool []snapshot.FieldRecord
	if snap != nil {
		pool = snap.Fields()
	}

	out := make([]CorrelatedField, 0, len(reqs))
	for _, req := range reqs {
		if cf, ok := correlateOne(req, pool); ok {
			out = append(out, cf)
		}
	}
	return out
}

func correlateOne(req Requirement, pool []snapshot.FieldRecord) (CorrelatedField, bool) {
	for _, p := range passes {
		for _, f := range pool {
			if p.match(req, f) {
				return CorrelatedField{Requirement: req, UIField: f, MatchType: p.kind}, true
			}
		}
	}
	return CorrelatedField{}, false
}

// Unmatched returns the requirements that have no entry in result.
func Unmatched(reqs []Requirement, result []CorrelatedField) []Requirement {
	type key struct{ id, label string }
	seen := make(map[key]bool, len(result))
	for _, cf := range result {
		seen[key{cf.Requirement.ID, cf.Requirement.Label}] = true
	}
	var out []Requirement
	for _, req := range reqs {
		if !seen[key{req.ID, req.Label}] {
			out = append(out, req)
		}
	}
	return out
}

// normalizeLabel folds case and drops a single trailing colon.
func normalizeLabel(label string) string {
	return strings.TrimSuffix(strings.ToLower(label), ":")
}
