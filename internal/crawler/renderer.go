package crawler

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/webvision/internal/render"
)

// Locate resolves q in the live page without waiting for the element to
// appear. Lookups that miss or run out of time report render.ErrNotFound.
func (b *Browser) Locate(ctx context.Context, q render.Query) (render.Element, error) {
	page := b.page.Context(ctx).Sleeper(rod.NotFoundSleeper)

	var (
		el  *rod.Element
		err error
	)
	switch q.By {
	case render.ByID:
		el, err = page.ElementByJS(rod.Eval(`(id) => document.getElementById(id)`, q.Value))
	default:
		el, err = page.ElementX(q.Value)
	}
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s %q: %w", q.By, q.Value, render.ErrNotFound)
		}
		return nil, fmt.Errorf("locate %s %q: %w", q.By, q.Value, err)
	}
	return &liveElement{el: el}, nil
}

// liveElement adapts a rod element; every call is bound to the caller's context
type liveElement struct {
	el *rod.Element
}

func (e *liveElement) Displayed(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *liveElement) Location(ctx context.Context) (render.Point, error) {
	x, y, _, _, err := e.bounds(ctx)
	if err != nil {
		return render.Point{}, err
	}
	return render.Point{X: x, Y: y}, nil
}

func (e *liveElement) Size(ctx context.Context) (render.Size, error) {
	_, _, w, h, err := e.bounds(ctx)
	if err != nil {
		return render.Size{}, err
	}
	return render.Size{Width: w, Height: h}, nil
}

// bounds returns the axis-aligned box of the element's first content quad
func (e *liveElement) bounds(ctx context.Context) (x, y, w, h int, err error) {
	shape, err := e.el.Context(ctx).Shape()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if len(shape.Quads) == 0 {
		return 0, 0, 0, 0, render.ErrNoGeometry
	}
	return quadBounds(shape.Quads[0])
}

func quadBounds(q proto.DOMQuad) (x, y, w, h int, err error) {
	if len(q) < 8 {
		return 0, 0, 0, 0, render.ErrNoGeometry
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < 8; i += 2 {
		minX, maxX = math.Min(minX, q[i]), math.Max(maxX, q[i])
		minY, maxY = math.Min(minY, q[i+1]), math.Max(maxY, q[i+1])
	}
	return int(minX), int(minY), int(maxX - minX), int(maxY - minY), nil
}
