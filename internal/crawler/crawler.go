// Package crawler drives a bounded, same-site, breadth-first crawl:
// it renders pages one at a time, tallies keyword matches in their
// visible text, and assembles a per-page report.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sitegrep/internal/config"
	"sitegrep/internal/match"
	"sitegrep/internal/render"
)

// Crawler owns one crawl run. The loop is sequential: the frontier
// hands out one URL at a time and every dequeued URL yields exactly
// one PageResult.
type Crawler struct {
	config   *config.CrawlConfig
	renderer Renderer
	store    ReportStore
	matcher  *match.Matcher
	frontier *Frontier
	limiter  *RateLimiter
	scope    *Scope
}

// NewCrawler wires a crawler from a validated configuration. store may
// be nil when persistence is not wanted (tests, library use).
func NewCrawler(cfg *config.CrawlConfig, renderer Renderer, store ReportStore) (*Crawler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scope, err := NewScope(cfg.StartURL, cfg.IncludeSubdomains)
	if err != nil {
		return nil, err
	}

	matcher, err := match.NewMatcher(cfg.CleanKeywords(), match.Policy{
		CaseSensitive: cfg.CaseSensitive,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid keywords: %w", err)
	}

	return &Crawler{
		config:   cfg,
		renderer: renderer,
		store:    store,
		matcher:  matcher,
		frontier: NewFrontier(scope, cfg.MaxPages),
		limiter:  NewRateLimiter(cfg.RequestDelay),
		scope:    scope,
	}, nil
}

// Run executes the crawl until the frontier drains, MaxPages URLs have
// been attempted, or the global timeout elapses — whichever happens
// first. Hitting the wall-clock budget is a normal terminal state: the
// report collected so far is returned, never discarded.
func (c *Crawler) Run(ctx context.Context) (*Report, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.config.GlobalTimeout)
	defer cancel()

	if err := c.frontier.Seed(c.config.StartURL); err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	report := &Report{
		Summary: Summary{
			Scope:     c.scope.Host(),
			StartedAt: started,
		},
	}

	var runID int64
	if c.store != nil {
		id, err := c.store.BeginRun(c.scope.Host(), c.matcher.Keywords())
		if err != nil {
			return nil, fmt.Errorf("failed to begin run: %w", err)
		}
		runID = id
	}

	slog.Info("Starting crawl",
		"start_url", c.config.StartURL,
		"scope", c.scope.Host(),
		"max_pages", c.config.MaxPages,
		"keywords", len(c.matcher.Keywords()))

	for runCtx.Err() == nil {
		pageURL, ok := c.frontier.Next()
		if !ok {
			break
		}

		result := c.processPage(runCtx, pageURL)
		report.Pages = append(report.Pages, result)
		if result.Status == StatusOK {
			report.Summary.PagesOK++
		}

		if c.store != nil {
			if err := c.store.SavePageResult(runID, len(report.Pages)-1, &result); err != nil {
				slog.Error("Failed to persist page result", "url", pageURL, "error", err)
			}
		}

		slog.Info("Processed page",
			"url", pageURL,
			"status", string(result.Status),
			"words", result.WordCount,
			"pending", c.frontier.Pending())
	}

	if runCtx.Err() != nil {
		slog.Info("Crawl budget exhausted", "elapsed", time.Since(started))
	}

	report.Summary.PagesAttempted = len(report.Pages)
	report.Summary.Elapsed = time.Since(started)

	if c.store != nil {
		if err := c.store.FinishRun(runID, report.Summary); err != nil {
			slog.Error("Failed to finalize run", "error", err)
		}
	}

	slog.Info("Crawl finished",
		"attempted", report.Summary.PagesAttempted,
		"ok", report.Summary.PagesOK,
		"elapsed", report.Summary.Elapsed)

	return report, nil
}

// processPage renders one URL and converts the outcome into a
// PageResult. Failures never escape: they become non-ok statuses.
func (c *Crawler) processPage(runCtx context.Context, pageURL string) PageResult {
	result := PageResult{
		URL:         pageURL,
		AttemptedAt: time.Now().UTC(),
	}

	if err := c.limiter.Wait(runCtx, pageURL); err != nil {
		// Run budget ended while waiting; the dequeued URL still
		// gets its result.
		result.Status = StatusTimeout
		result.ErrorDetail = err.Error()
		return result
	}

	pageCtx, cancel := context.WithTimeout(runCtx, c.config.PageTimeout)
	rendered, err := c.renderer.Render(pageCtx, pageURL)
	cancel()

	if err != nil {
		result.Status, result.ErrorDetail = statusForError(err)
		if runCtx.Err() != nil {
			// The global budget cancelled the in-flight render.
			result.Status = StatusTimeout
		}
		return result
	}

	result.Status = StatusOK
	result.WordCount = match.WordCount(rendered.Text)
	result.Matches = c.matcher.Counts(rendered.Text)

	enqueued := 0
	for _, link := range rendered.Links {
		if c.frontier.Enqueue(link) {
			enqueued++
		}
	}
	slog.Debug("Discovered links",
		"url", pageURL,
		"found", len(rendered.Links),
		"enqueued", enqueued)

	return result
}

// statusForError maps a render failure to its report status.
func statusForError(err error) (Status, string) {
	var rerr *render.Error
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case render.KindTimeout:
			return StatusTimeout, rerr.Err.Error()
		case render.KindFetch:
			return StatusFetchError, rerr.Err.Error()
		}
	}
	return StatusRenderError, err.Error()
}
