package crawler

import (
	"context"

	"sitegrep/internal/render"
)

// Renderer loads one page, executes its scripts, and returns the
// settled text and links. Implementations must release all per-page
// resources before returning, whatever the outcome.
type Renderer interface {
	Render(ctx context.Context, url string) (*render.Result, error)
	Close() error
}

// ReportStore persists crawl runs as they happen.
type ReportStore interface {
	BeginRun(scope string, keywords []string) (int64, error)
	SavePageResult(runID int64, position int, result *PageResult) error
	FinishRun(runID int64, summary Summary) error
	Close() error
}
