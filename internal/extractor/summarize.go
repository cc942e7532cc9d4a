package extractor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/v0xg/webvision/internal/dom"
	"github.com/v0xg/webvision/internal/locator"
	"github.com/v0xg/webvision/internal/logger"
	"github.com/v0xg/webvision/internal/snapshot"
)

// Summarizer turns interactive elements into FieldRecords. Labels are
// resolved against the document it was created for.
type Summarizer struct {
	doc           dom.Document
	log           logger.Logger
	includeHidden bool
}

// NewSummarizer creates a Summarizer for doc.
func NewSummarizer(doc dom.Document, log logger.Logger, includeHidden bool) *Summarizer {
	return &Summarizer{doc: doc, log: log, includeHidden: includeHidden}
}

// Summarize builds the set of records for nodes, skipping hidden inputs
// (unless enabled) and any node whose type attribute is in exclude.
// A node that cannot be read is logged and skipped.
func (s *Summarizer) Summarize(nodes []dom.Node, exclude ...string) *snapshot.FieldSet {
	set := snapshot.NewFieldSet()
	for _, n := range nodes {
		rec, ok, err := s.summarize(n, exclude)
		if err != nil {
			s.log.Warn("Skipping unreadable element", logger.Error(err))
			continue
		}
		if ok {
			set.Add(rec)
		}
	}
	return set
}

func (s *Summarizer) summarize(n dom.Node, exclude []string) (rec snapshot.FieldRecord, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read element: %v", r)
		}
	}()

	typ := n.Attr("type")
	if typ == "hidden" && !s.includeHidden {
		return rec, false, nil
	}
	if slices.Contains(exclude, typ) {
		return rec, false, nil
	}
	if typ == "" {
		typ = n.Tag()
	}

	rec = snapshot.FieldRecord{
		Selector:    locator.BuildSelector(n),
		Text:        n.Text(),
		Type:        typ,
		Name:        n.Attr("name"),
		Role:        n.Attr("role"),
		Value:       n.Attr("value"),
		Placeholder: n.Attr("placeholder"),
		Label:       s.labelFor(n),
		Href:        n.Attr("href"),
		AriaLabel:   n.Attr("aria-label"),
		ReadOnly:    n.HasAttr("readonly"),
		Disabled:    n.HasAttr("disabled"),
	}
	if n.Tag() == "select" {
		rec.Options = selectOptions(n)
	}
	return rec, true, nil
}

// labelFor returns the text of the first <label for=...> naming the
// element's id, falling back to its name.
func (s *Summarizer) labelFor(n dom.Node) string {
	for _, key := range []string{n.Attr("id"), n.Attr("name")} {
		if key == "" {
			continue
		}
		if labels := s.doc.Find(`label[for="` + cssString(key) + `"]`); len(labels) > 0 {
			return labels[0].Text()
		}
	}
	return ""
}

// selectOptions returns the distinct texts of the direct <option> children.
func selectOptions(n dom.Node) []string {
	var options []string
	for _, c := range n.Children() {
		if c.Tag() != "option" {
			continue
		}
		text := strings.TrimSpace(c.Text())
		if !slices.Contains(options, text) {
			options = append(options, text)
		}
	}
	return options
}

var cssEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func cssString(s string) string {
	return cssEscaper.Replace(s)
}
