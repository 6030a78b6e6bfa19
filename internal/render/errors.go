package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed render attempt.
type Kind int

const (
	// KindFetch covers network and navigation failures: DNS errors,
	// refused connections, and terminal non-2xx/3xx document statuses.
	KindFetch Kind = iota
	// KindTimeout means the page did not load and settle in time.
	KindTimeout
	// KindRender covers browser-internal faults: protocol errors,
	// script evaluation failures, a crashed tab.
	KindRender
)

// String returns the report status token for the kind.
func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch_error"
	case KindTimeout:
		return "timeout"
	default:
		return "render_error"
	}
}

// Error is a classified render failure for one URL.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fetchErrorMarkers are substrings of chromedp navigation errors that
// indicate a network-level failure rather than a browser fault.
var fetchErrorMarkers = []string{
	"net::err",
	"page load error",
	"dns",
	"connection refused",
}

// classify wraps err as an *Error with the appropriate kind.
func classify(pageURL string, err error) *Error {
	kind := KindRender

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case isFetchError(err):
		kind = KindFetch
	}

	return &Error{Kind: kind, URL: pageURL, Err: err}
}

func isFetchError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range fetchErrorMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
