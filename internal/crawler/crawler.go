package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/webvision/internal/logger"
)

// Options configures the browser
type Options struct {
	Headless      bool
	Width         int
	Height        int
	PageTimeout   time.Duration
	SettleTimeout time.Duration
	ProfileDir    string // Chrome/Chromium profile directory for authenticated sessions
}

// Browser wraps the Rod browser and the single page extraction runs against
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
	opts    Options
	log     logger.Logger
}

// Launch starts a browser with one blank page sized to the configured viewport
func Launch(ctx context.Context, opts Options, log logger.Logger) (*Browser, error) {
	if opts.PageTimeout == 0 {
		opts.PageTimeout = 30 * time.Second
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Context(ctx).Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	b := &Browser{browser: browser, opts: opts, log: log}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	b.page = page

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	log.Debug("Browser launched",
		logger.Bool("headless", opts.Headless),
		logger.Int("width", opts.Width),
		logger.Int("height", opts.Height),
	)
	return b, nil
}

// Close cleans up browser resources
func (b *Browser) Close() {
	if b.page != nil {
		_ = b.page.Close()
	}
	if b.browser != nil {
		_ = b.browser.Close()
	}
}

// Page returns the underlying Rod page
func (b *Browser) Page() *rod.Page {
	return b.page
}

// Navigate loads url and waits for the page to settle
func (b *Browser) Navigate(ctx context.Context, url string) (*PageInfo, error) {
	page := b.page.Context(ctx).Timeout(b.opts.PageTimeout)
	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}
	return b.Settle(ctx)
}

// Settle waits for load, network idle and, on SPAs, for interactive
// elements to render. Used after navigation and after scripted actions.
func (b *Browser) Settle(ctx context.Context) (*PageInfo, error) {
	page := b.page.Context(ctx)

	if err := page.Timeout(b.opts.PageTimeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load: %w", err)
	}

	// Bounded so persistent connections (WebSockets, polling) cannot hang us
	if b.opts.SettleTimeout > 0 {
		page.Timeout(b.opts.SettleTimeout).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
	}

	isSPA, err := detectSPA(page)
	if err != nil {
		return nil, err
	}

	visible := 0
	if isSPA && b.opts.SettleTimeout > 0 {
		// Client-rendered apps hydrate after load
		visible, err = waitForInteractiveElements(ctx, page, b.opts.SettleTimeout)
		if err != nil {
			return nil, err
		}
	}

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("read page info: %w", err)
	}

	pi := &PageInfo{URL: info.URL, Title: info.Title, IsSPA: isSPA, Interactive: visible}
	b.log.Debug("Page settled",
		logger.String("url", pi.URL),
		logger.Bool("spa", pi.IsSPA),
		logger.Int("interactive", pi.Interactive),
	)
	return pi, nil
}

// URL returns the address of the current page
func (b *Browser) URL(ctx context.Context) (string, error) {
	info, err := b.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("read page url: %w", err)
	}
	return info.URL, nil
}

// HTML returns the serialized DOM of the current page
func (b *Browser) HTML(ctx context.Context) (string, error) {
	html, err := b.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("read page source: %w", err)
	}
	return html, nil
}

// Screenshot captures the viewport as PNG
func (b *Browser) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// waitForInteractiveElements polls until visible controls appear or timeout
func waitForInteractiveElements(ctx context.Context, page *rod.Page, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	checkInterval := 200 * time.Millisecond

	for time.Now().Before(deadline) {
		res, err := page.Eval(`() => {
			const controls = document.querySelectorAll(
				'button, [role="button"], input:not([type="hidden"]), textarea, select, a[href]');
			let visible = 0;
			controls.forEach(el => { if (el.offsetParent) visible++; });
			return visible;
		}`)
		if err != nil {
			return 0, fmt.Errorf("count interactive elements: %w", err)
		}

		if count := res.Value.Int(); count > 0 {
			// Let the last renders land
			time.Sleep(300 * time.Millisecond)
			return count, nil
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(checkInterval):
		}
	}
	return 0, nil
}

// detectSPA checks for common client-side framework markers
func detectSPA(page *rod.Page) (bool, error) {
	res, err := page.Eval(`() => {
		// React
		if (window.__REACT_DEVTOOLS_GLOBAL_HOOK__ || document.querySelector('[data-reactroot]') || document.querySelector('#__next')) return true;
		// Vue
		if (window.__VUE__ || document.querySelector('[data-v-app]')) return true;
		// Angular
		if (window.ng || document.querySelector('[ng-version]') || document.querySelector('app-root')) return true;
		// Svelte
		if (document.querySelector('[class*="svelte-"]')) return true;
		return false;
	}`)
	if err != nil {
		return false, fmt.Errorf("detect spa: %w", err)
	}
	return res.Value.Bool(), nil
}
