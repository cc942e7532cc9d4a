package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/crawler"
	"github.com/v0xg/webvision/internal/dom"
	"github.com/v0xg/webvision/internal/executor"
	"github.com/v0xg/webvision/internal/extractor"
	"github.com/v0xg/webvision/internal/logger"
	"github.com/v0xg/webvision/internal/render"
	"github.com/v0xg/webvision/internal/snapshot"
	"github.com/v0xg/webvision/internal/thumbnail"
)

type extractFlags struct {
	htmlFile  string
	pageURL   string
	out       string
	srs       string
	thumbnail bool
}

// target is a page ready for extraction, live or loaded from a file
type target struct {
	url      string
	renderer render.Renderer
	source   func(ctx context.Context) (string, error)
}

func (c *cli) extractCmd() *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "extract [url]",
		Short: "Extract the component snapshot of a page",
		Long: `extract loads a page in a headless browser (logging in first when
login.url is configured), waits for it to settle and writes its component
snapshot as JSON.

With --html the page source is read from a file instead and no browser is
started; --url then sets the page URL recorded in the snapshot.`,
		Example: `  webvision extract "https://myapp.com/register"
  webvision extract "https://myapp.com/register" --srs srs.json --thumbnail
  webvision extract --html saved.html --url "https://myapp.com/register"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.pageURL = args[0]
			}
			if f.htmlFile == "" && f.pageURL == "" {
				return errors.New("a url argument or --html is required")
			}
			if f.htmlFile != "" {
				return c.extractOffline(cmd.Context(), cmd.OutOrStdout(), f)
			}
			return c.extractLive(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVar(&f.htmlFile, "html", "", "Extract from a saved HTML file instead of a live page")
	cmd.Flags().StringVar(&f.pageURL, "url", "", "Page URL to record with --html")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Snapshot path (default: timestamped file in output.dir)")
	cmd.Flags().StringVar(&f.srs, "srs", "", "Requirements document to correlate against the snapshot")
	cmd.Flags().BoolVar(&f.thumbnail, "thumbnail", false, "Store a PNG thumbnail of the viewport next to the snapshot")

	cmd.Flags().Bool("headless", true, "Run the browser headless")
	cmd.Flags().Int("width", 1280, "Viewport width")
	cmd.Flags().Int("height", 720, "Viewport height")
	cmd.Flags().String("profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	cmd.Flags().Bool("include-hidden", false, "Include hidden inputs in field sets")
	cmd.Flags().String("output-dir", "", "Directory for snapshots and failure captures")
	c.bind(cmd.Flags().Lookup("headless"), "browser.headless")
	c.bind(cmd.Flags().Lookup("width"), "browser.width")
	c.bind(cmd.Flags().Lookup("height"), "browser.height")
	c.bind(cmd.Flags().Lookup("profile"), "browser.profile_dir")
	c.bind(cmd.Flags().Lookup("include-hidden"), "extraction.include_hidden")
	c.bind(cmd.Flags().Lookup("output-dir"), "output.dir")

	return cmd
}

func (c *cli) extractOffline(ctx context.Context, out io.Writer, f extractFlags) error {
	fmt.Fprintf(out, "→ Reading %s... ", f.htmlFile)
	data, err := os.ReadFile(f.htmlFile)
	if err != nil {
		fmt.Fprintln(out, "failed")
		return fmt.Errorf("read html: %w", err)
	}
	static, err := render.NewStaticString(string(data))
	if err != nil {
		fmt.Fprintln(out, "failed")
		return fmt.Errorf("parse html: %w", err)
	}
	fmt.Fprintf(out, "done (%d bytes)\n", len(data))

	pageURL := f.pageURL
	if pageURL == "" {
		abs, _ := filepath.Abs(f.htmlFile)
		pageURL = "file://" + abs
	}

	t := &target{
		url:      pageURL,
		renderer: static,
		source:   func(context.Context) (string, error) { return string(data), nil },
	}
	_, err = c.extractAndReport(ctx, out, t, f, nil)
	return err
}

func (c *cli) extractLive(ctx context.Context, out io.Writer, f extractFlags) error {
	bc := c.cfg.Browser

	fmt.Fprintf(out, "→ Launching browser... ")
	browser, err := crawler.Launch(ctx, crawler.Options{
		Headless:      bc.Headless,
		Width:         bc.Width,
		Height:        bc.Height,
		PageTimeout:   bc.PageTimeout,
		SettleTimeout: bc.SettleTimeout,
		ProfileDir:    bc.ProfileDir,
	}, c.log)
	if err != nil {
		fmt.Fprintln(out, "failed")
		return err
	}
	defer browser.Close()
	fmt.Fprintln(out, "done")

	live := &target{url: f.pageURL, renderer: browser, source: browser.HTML}

	driver := &executor.RodDriver{Page: browser.Page(), Timeout: bc.PageTimeout}
	settle := func(ctx context.Context) error {
		_, err := browser.Settle(ctx)
		return err
	}
	if err := c.login(ctx, out, live, driver, settle); err != nil {
		return err
	}

	fmt.Fprintf(out, "→ Loading %s... ", f.pageURL)
	info, err := browser.Navigate(ctx, f.pageURL)
	if err != nil {
		fmt.Fprintln(out, "failed")
		c.capturePageOnFailure(ctx, live)
		return err
	}
	live.url = info.URL
	if info.IsSPA {
		fmt.Fprintf(out, "done (SPA, %d interactive elements)\n", info.Interactive)
	} else {
		fmt.Fprintln(out, "done")
	}

	shoot := func(path string) {
		if !f.thumbnail {
			return
		}
		fmt.Fprintf(out, "→ Saving thumbnail... ")
		data, err := browser.Screenshot(ctx)
		if err == nil {
			var size int64
			size, err = thumbnail.Write(data, thumbnail.PathFor(path), c.cfg.Output.ThumbnailWidth)
			if err == nil {
				fmt.Fprintf(out, "done (%.1f KB)\n", float64(size)/1024)
				return
			}
		}
		fmt.Fprintln(out, "failed")
		c.log.Error("Failed to save thumbnail", logger.Error(err))
	}

	_, err = c.extractAndReport(ctx, out, live, f, shoot)
	return err
}

// login runs the configured login script and waits for the resulting page
// to settle. Either step failing captures the page first.
func (c *cli) login(ctx context.Context, out io.Writer, t *target, d executor.Driver, settle func(context.Context) error) error {
	actions := executor.LoginActions(c.cfg.Login)
	if len(actions) == 0 {
		return nil
	}

	fmt.Fprintf(out, "→ Logging in as %s... ", c.cfg.Login.Username)
	err := executor.Run(ctx, d, actions, c.log)
	if err == nil {
		err = settle(ctx)
	}
	if err != nil {
		fmt.Fprintln(out, "failed")
		c.capturePageOnFailure(ctx, t)
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintln(out, "done")
	return nil
}

// extractAndReport extracts t, saves the snapshot and, with --srs,
// correlates it. A failed write is logged and the in-memory snapshot is
// still used.
func (c *cli) extractAndReport(ctx context.Context, out io.Writer, t *target, f extractFlags, afterSave func(path string)) (*snapshot.PageSnapshot, error) {
	fmt.Fprintf(out, "→ Extracting components... ")
	snap, err := c.extractPage(ctx, t, t.renderer)
	if err != nil {
		fmt.Fprintln(out, "failed")
		c.capturePageOnFailure(ctx, t)
		return nil, err
	}
	fmt.Fprintf(out, "done (%d components, %d fields)\n", len(snap.Components), len(snap.Fields()))
	if c.verbose {
		renderComponents(out, snap)
	}

	store := snapshot.NewFileStore(c.cfg.Output.Dir)
	path := f.out
	if path == "" {
		path = store.PathFor(snap.PageURL, time.Now())
	}
	if err := store.Save(ctx, snap, path); err != nil {
		c.log.Error("Failed to write snapshot", logger.String("path", path), logger.Error(err))
	} else {
		fmt.Fprintf(out, "✓ Saved to %s\n", path)
		if afterSave != nil {
			afterSave(path)
		}
	}

	if f.srs == "" {
		return snap, nil
	}

	fmt.Fprintf(out, "→ Correlating with %s... ", f.srs)
	doc, err := correlate.LoadDocument(f.srs)
	if err != nil {
		fmt.Fprintln(out, "failed")
		return snap, err
	}
	results := correlate.Correlate(doc.Requirements, snap)
	fmt.Fprintf(out, "done (%d of %d requirements matched)\n", len(results), len(doc.Requirements))
	c.logCorrelation(results)
	renderCorrelation(out, results, correlate.Unmatched(doc.Requirements, results))
	return snap, nil
}

func (c *cli) extractPage(ctx context.Context, t *target, r render.Renderer) (*snapshot.PageSnapshot, error) {
	source, err := t.source(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := dom.ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("parse page source: %w", err)
	}

	e := extractor.New(r, c.log, extractor.Options{
		IncludeHidden: c.cfg.Extraction.IncludeHidden,
		LookupTimeout: c.cfg.Extraction.LookupTimeout,
	})
	return e.Extract(ctx, doc, t.url)
}

// capturePageOnFailure stores a markup-only snapshot of the current page
// for diagnosis. It only logs its own failures.
func (c *cli) capturePageOnFailure(ctx context.Context, t *target) {
	path := filepath.Join(c.cfg.Output.Dir, "failure_"+time.Now().Format("20060102_150405")+".json")
	c.log.Info("Failure detected, capturing page structure", logger.String("path", path))

	snap, err := c.extractPage(ctx, t, nil)
	if err == nil {
		err = snapshot.NewFileStore(c.cfg.Output.Dir).Save(ctx, snap, path)
	}
	if err != nil {
		c.log.Error("Failed to capture page structure on failure", logger.Error(err))
	}
}

func (c *cli) logCorrelation(results []correlate.CorrelatedField) {
	for _, cf := range results {
		c.log.Info("Mapped requirement",
			logger.String("requirement", cf.Requirement.ID),
			logger.String("selector", cf.UIField.Selector),
			logger.String("match", string(cf.MatchType)),
		)
	}
}
