package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/webvision/internal/logger"
)

// Driver performs the browser side of each action
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Type(ctx context.Context, selector, text string) error
	Click(ctx context.Context, selector string) error
}

// Run executes actions in order and stops at the first failure. Steps
// that change the page should be followed by a settle on the caller's side.
func Run(ctx context.Context, d Driver, actions []Action, log logger.Logger) error {
	for i, action := range actions {
		if err := action.Validate(); err != nil {
			return fmt.Errorf("action %d: %w", i+1, err)
		}
	}

	for i, action := range actions {
		log.Debug("Running action",
			logger.Int("step", i+1),
			logger.Int("total", len(actions)),
			logger.String("action", action.String()),
		)

		if err := execute(ctx, d, action); err != nil {
			return fmt.Errorf("action %d (%s): %w", i+1, action, err)
		}

		if action.Type != ActionWait && action.Duration > 0 {
			if err := sleep(ctx, time.Duration(action.Duration)*time.Millisecond); err != nil {
				return err
			}
		}
	}
	return nil
}

func execute(ctx context.Context, d Driver, action Action) error {
	switch action.Type {
	case ActionNavigate:
		return d.Navigate(ctx, action.URL)
	case ActionType:
		return d.Type(ctx, action.Selector, action.Text)
	case ActionClick:
		return d.Click(ctx, action.Selector)
	case ActionWait:
		return sleep(ctx, time.Duration(action.Duration)*time.Millisecond)
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RodDriver runs actions against a Rod page. Element lookups wait up to
// Timeout for the element to appear.
type RodDriver struct {
	Page    *rod.Page
	Timeout time.Duration
}

func (r *RodDriver) page(ctx context.Context) *rod.Page {
	p := r.Page.Context(ctx)
	if r.Timeout > 0 {
		p = p.Timeout(r.Timeout)
	}
	return p
}

func (r *RodDriver) Navigate(ctx context.Context, url string) error {
	p := r.page(ctx)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (r *RodDriver) Type(ctx context.Context, selector, text string) error {
	el, err := r.page(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s", selector)
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(text)
}

func (r *RodDriver) Click(ctx context.Context, selector string) error {
	el, err := r.page(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s", selector)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}
