package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/v0xg/webvision/internal/ai"
	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/snapshot"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderCorrelation prints the matched requirements followed by the unmatched ones
func renderCorrelation(w io.Writer, results []correlate.CorrelatedField, unmatched []correlate.Requirement) {
	if len(results) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"Requirement", "Label", "Match", "Selector", "Field Label"})
		for _, cf := range results {
			t.AppendRow(table.Row{
				cf.Requirement.ID,
				cf.Requirement.Label,
				cf.MatchType,
				cf.UIField.Selector,
				cf.UIField.Label,
			})
		}
		t.Render()
	}

	if len(unmatched) > 0 {
		fmt.Fprintf(w, "Unmatched requirements (%d):\n", len(unmatched))
		for _, r := range unmatched {
			fmt.Fprintf(w, "  - %s (%s)\n", r.ID, r.Label)
		}
	}
}

// renderComponents prints one row per extracted component
func renderComponents(w io.Writer, snap *snapshot.PageSnapshot) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Type", "Selector", "Fields", "Actions", "Visible"})
	for _, c := range snap.Components {
		t.AppendRow(table.Row{
			c.Type,
			c.Selector,
			c.Fields.Len(),
			c.Actions.Len(),
			c.BoundingBox != nil,
		})
	}
	t.Render()
}

func renderSuggestions(w io.Writer, suggestions []ai.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Requirement", "Selector", "Confidence", "Reason"})
	for _, s := range suggestions {
		t.AppendRow(table.Row{
			s.RequirementID,
			s.Selector,
			fmt.Sprintf("%.2f", s.Confidence),
			s.Reason,
		})
	}
	t.Render()
}
