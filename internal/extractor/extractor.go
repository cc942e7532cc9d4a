// Package extractor walks a parsed page and summarizes its semantic
// containers into snapshot components.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/v0xg/webvision/internal/dom"
	"github.com/v0xg/webvision/internal/locator"
	"github.com/v0xg/webvision/internal/logger"
	"github.com/v0xg/webvision/internal/render"
	"github.com/v0xg/webvision/internal/snapshot"
)

const (
	actionSelector = "button, input[type=submit], input[type=button], input[type=reset], a"
	fieldSelector  = "input, textarea, select"

	// DefaultLookupTimeout bounds each live element lookup when Options leaves it unset.
	DefaultLookupTimeout = 2 * time.Second
)

// fieldExcludedTypes keeps buttons out of the field set; they are actions.
var fieldExcludedTypes = []string{"submit", "reset", "button"}

// Target maps a container tag to the component type it produces.
type Target struct {
	Tag  string
	Type string
}

// Targets is the extraction order. Landmarks go first so that the div
// fallback finds their controls already claimed.
var Targets = []Target{
	{Tag: "form", Type: snapshot.TypeForm},
	{Tag: "nav", Type: snapshot.TypeNavbar},
	{Tag: "header", Type: snapshot.TypeHeader},
	{Tag: "aside", Type: snapshot.TypeSidebar},
	{Tag: "main", Type: snapshot.TypeMain},
	{Tag: "footer", Type: snapshot.TypeFooter},
	{Tag: "div", Type: snapshot.TypeSection},
}

// Options configures an Extractor.
type Options struct {
	IncludeHidden bool
	LookupTimeout time.Duration
}

// Extractor builds page snapshots. Each Extract call is independent.
type Extractor struct {
	renderer render.Renderer
	log      logger.Logger
	opts     Options
}

// New creates an Extractor. A nil renderer extracts from markup alone:
// nodes are not checked against a live page and carry no bounding box.
func New(renderer render.Renderer, log logger.Logger, opts Options) *Extractor {
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = DefaultLookupTimeout
	}
	return &Extractor{renderer: renderer, log: log, opts: opts}
}

// Extract runs every target over doc and returns the resulting snapshot.
func (e *Extractor) Extract(ctx context.Context, doc dom.Document, pageURL string) (*snapshot.PageSnapshot, error) {
	snap := &snapshot.PageSnapshot{PageURL: pageURL, Components: []*snapshot.Component{}}
	summarizer := NewSummarizer(doc, e.log, e.opts.IncludeHidden)

	for _, t := range Targets {
		if err := e.extractByTag(ctx, doc, summarizer, t, snap); err != nil {
			return nil, err
		}
	}

	e.log.Info("Extracted components",
		logger.String("page_url", pageURL),
		logger.Int("components", len(snap.Components)),
	)
	return snap, nil
}

// ExtractByTag runs a single target, appending accepted components to acc.
func (e *Extractor) ExtractByTag(ctx context.Context, doc dom.Document, tag, componentType string, acc *snapshot.PageSnapshot) error {
	summarizer := NewSummarizer(doc, e.log, e.opts.IncludeHidden)
	return e.extractByTag(ctx, doc, summarizer, Target{Tag: tag, Type: componentType}, acc)
}

func (e *Extractor) extractByTag(ctx context.Context, doc dom.Document, s *Summarizer, t Target, acc *snapshot.PageSnapshot) error {
	for _, n := range doc.Find(t.Tag) {
		if err := ctx.Err(); err != nil {
			return err
		}

		c, err := e.component(ctx, s, n, t.Type)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			e.log.Warn("Skipping component",
				logger.String("tag", t.Tag),
				logger.String("type", t.Type),
				logger.Error(err),
			)
			continue
		}

		if reason := rejectReason(acc.Components, c); reason != "" {
			e.log.Debug("Dropping duplicate component",
				logger.String("selector", c.Selector),
				logger.String("type", c.Type),
				logger.String("reason", reason),
			)
			continue
		}
		acc.Components = append(acc.Components, c)
	}
	return nil
}

func (e *Extractor) component(ctx context.Context, s *Summarizer, n dom.Node, componentType string) (c *snapshot.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read element: %v", r)
		}
	}()

	selector := locator.BuildSelector(n)
	el, err := e.locate(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", selector, err)
	}

	attrs := make(map[string]string)
	for _, a := range n.Attributes() {
		attrs[a.Name] = a.Value
	}

	c = &snapshot.Component{
		Type:        componentType,
		Tag:         n.Tag(),
		OwnText:     n.OwnText(),
		ID:          n.Attr("id"),
		Classes:     strings.TrimSpace(n.Attr("class")),
		AriaLabel:   n.Attr("aria-label"),
		Selector:    selector,
		Role:        n.Attr("role"),
		BoundingBox: e.boundingBox(ctx, el, selector),
		Attributes:  attrs,
		Actions:     s.Summarize(n.Find(actionSelector)),
		Fields:      s.Summarize(n.Find(fieldSelector), fieldExcludedTypes...),
	}
	return c, nil
}

// locate finds n in the live page, by id when it has one. It returns a nil
// element without error when no renderer is configured.
func (e *Extractor) locate(ctx context.Context, n dom.Node) (render.Element, error) {
	if e.renderer == nil {
		return nil, nil
	}

	q := render.Query{By: render.ByXPath, Value: locator.BuildXPath(n)}
	if id := n.Attr("id"); id != "" {
		q = render.Query{By: render.ByID, Value: id}
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.LookupTimeout)
	defer cancel()
	return e.renderer.Locate(ctx, q)
}

// boundingBox returns the element geometry, or nil when it is not
// displayed or cannot be measured.
func (e *Extractor) boundingBox(ctx context.Context, el render.Element, selector string) *snapshot.BoundingBox {
	if el == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.LookupTimeout)
	defer cancel()

	shown, err := el.Displayed(ctx)
	if err != nil {
		if !errors.Is(err, render.ErrNoGeometry) {
			e.log.Debug("Visibility check failed", logger.String("selector", selector), logger.Error(err))
		}
		return nil
	}
	if !shown {
		return nil
	}

	loc, err := el.Location(ctx)
	if err != nil {
		e.log.Debug("Location query failed", logger.String("selector", selector), logger.Error(err))
		return nil
	}
	size, err := el.Size(ctx)
	if err != nil {
		e.log.Debug("Size query failed", logger.String("selector", selector), logger.Error(err))
		return nil
	}
	return &snapshot.BoundingBox{X: loc.X, Y: loc.Y, Width: size.Width, Height: size.Height}
}

// rejectReason reports why c must not join accepted, or "" when it is new.
// Selector+type clashes are checked across all components before coverage.
func rejectReason(accepted []*snapshot.Component, c *snapshot.Component) string {
	for _, a := range accepted {
		if a.Selector == c.Selector && a.Type == c.Type {
			return "same selector and type"
		}
	}
	for _, a := range accepted {
		if a.Covers(c) {
			return "controls covered by " + a.Type + " " + a.Selector
		}
	}
	return ""
}
