// Package render loads pages in headless Chrome, executes their
// scripts, and extracts visible text and discovered links from the
// settled DOM.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"sitegrep/internal/parser"
)

// Settle heuristic: the DOM is considered stable once its serialized
// length stops changing for quietWindow, sampled every sampleInterval,
// with settleCap as the hard upper bound on waiting.
const (
	sampleInterval = 200 * time.Millisecond
	quietWindow    = 600 * time.Millisecond
	settleCap      = 3 * time.Second
)

// Result is a successfully rendered page.
type Result struct {
	URL   string   // Final URL after redirects
	HTML  string   // Serialized DOM after settling
	Text  string   // Visible text, whitespace-normalized
	Links []string // Absolute-resolved http(s) anchor targets
}

// Options configures the shared browser process.
type Options struct {
	UserAgent  string
	ChromePath string // Empty for auto-detection
	Headless   bool
}

// ChromeRenderer renders pages in tabs of one shared Chrome process.
// Each Render call owns a dedicated tab that is torn down before the
// call returns, so per-page resources never accumulate across a run.
type ChromeRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	logger      *slog.Logger
}

// NewChromeRenderer prepares the browser allocator. The Chrome process
// itself starts lazily on the first Render call.
func NewChromeRenderer(opts Options) *ChromeRenderer {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &ChromeRenderer{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		logger:      slog.Default(),
	}
}

// Render loads pageURL in a fresh tab, waits for the page to settle,
// and returns the extracted text and links. The deadline and
// cancellation of ctx bound the whole attempt. Failures come back as
// *Error carrying the timeout/fetch_error/render_error kind.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (*Result, error) {
	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx)
	defer tabCancel()

	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}
	// Abandon the tab as soon as the caller gives up.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	// First document response carries the main-frame HTTP status.
	var docStatus atomic.Int64
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument {
				docStatus.CompareAndSwap(0, resp.Response.Status)
			}
		}
	})

	start := time.Now()
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return nil, classify(pageURL, err)
	}

	if status := docStatus.Load(); status >= 400 {
		return nil, &Error{
			Kind: KindFetch,
			URL:  pageURL,
			Err:  fmt.Errorf("terminal HTTP status %d", status),
		}
	}

	if err := r.waitSettled(tabCtx); err != nil {
		return nil, classify(pageURL, err)
	}

	var finalURL, domHTML string
	err = chromedp.Run(tabCtx,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &domHTML),
	)
	if err != nil {
		return nil, classify(pageURL, err)
	}

	text, err := parser.VisibleText(domHTML)
	if err != nil {
		return nil, &Error{Kind: KindRender, URL: pageURL, Err: err}
	}

	linkParser, err := parser.NewHTMLParser(finalURL)
	if err != nil {
		return nil, &Error{Kind: KindRender, URL: pageURL, Err: err}
	}
	links, err := linkParser.ExtractLinks(domHTML)
	if err != nil {
		return nil, &Error{Kind: KindRender, URL: pageURL, Err: err}
	}

	r.logger.Debug("Rendered page",
		"url", pageURL,
		"final_url", finalURL,
		"dom_bytes", len(domHTML),
		"links", len(links),
		"elapsed", time.Since(start))

	return &Result{
		URL:   finalURL,
		HTML:  domHTML,
		Text:  text,
		Links: links,
	}, nil
}

// waitSettled samples the DOM length until it holds still for
// quietWindow or settleCap elapses. Pages whose scripts mutate the
// DOM forever are cut off by the cap, not treated as failures.
func (r *ChromeRenderer) waitSettled(ctx context.Context) error {
	var (
		lastLen     = -1
		stableSince = time.Now()
		capTimer    = time.Now()
	)

	for {
		var domLen int
		err := chromedp.Run(ctx, chromedp.Evaluate(
			`document.documentElement ? document.documentElement.outerHTML.length : 0`,
			&domLen,
		))
		if err != nil {
			return err
		}

		now := time.Now()
		if domLen != lastLen {
			lastLen = domLen
			stableSince = now
		}
		if now.Sub(stableSince) >= quietWindow {
			return nil
		}
		if now.Sub(capTimer) >= settleCap {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sampleInterval):
		}
	}
}

// Close shuts down the shared browser process. Safe to call once all
// Render calls have returned.
func (r *ChromeRenderer) Close() error {
	r.allocCancel()
	return nil
}
