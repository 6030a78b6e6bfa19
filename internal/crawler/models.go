package crawler

import "time"

// Status is the per-page outcome recorded in the report.
type Status string

const (
	StatusOK          Status = "ok"
	StatusTimeout     Status = "timeout"
	StatusFetchError  Status = "fetch_error"
	StatusRenderError Status = "render_error"
)

// PageResult is the outcome of one dequeued URL. Exactly one is
// produced per attempted page and never mutated afterwards.
type PageResult struct {
	URL         string         // Canonical URL as dequeued
	Status      Status         // Outcome of the render attempt
	WordCount   int            // Token count of visible text (ok only)
	Matches     map[string]int // Keyword → whole-word count (ok only)
	ErrorDetail string         // Failure description (non-ok only)
	AttemptedAt time.Time      // When the page was dequeued (UTC)
}

// Summary carries run-level metadata for a finished crawl.
type Summary struct {
	Scope          string        // Host defining same-site scope
	PagesAttempted int           // PageResults produced
	PagesOK        int           // Results with status ok
	StartedAt      time.Time     // Run start (UTC)
	Elapsed        time.Duration // Wall-clock run duration
}

// Report is the final product of a crawl run: one PageResult per
// attempted URL, in BFS attempt order, plus the run summary.
type Report struct {
	Pages   []PageResult
	Summary Summary
}
