package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"Deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"Wrapped deadline", fmt.Errorf("run: %w", context.DeadlineExceeded), KindTimeout},
		{"Chrome net error", errors.New("page load error net::ERR_NAME_NOT_RESOLVED"), KindFetch},
		{"Connection refused", errors.New("dial tcp 127.0.0.1:1: connection refused"), KindFetch},
		{"DNS failure", errors.New("lookup nosuchhost: DNS resolution failed"), KindFetch},
		{"Protocol fault", errors.New("could not unmarshal event"), KindRender},
		{"Cancelled context", context.Canceled, KindRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rerr := classify("https://example.com", tt.err)
			if rerr.Kind != tt.expected {
				t.Errorf("classify(%v).Kind = %v, want %v", tt.err, rerr.Kind, tt.expected)
			}
			if !errors.Is(rerr, tt.err) {
				t.Errorf("classified error does not unwrap to the original")
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindFetch, "fetch_error"},
		{KindTimeout, "timeout"},
		{KindRender, "render_error"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	rerr := &Error{Kind: KindTimeout, URL: "https://example.com/slow", Err: context.DeadlineExceeded}

	msg := rerr.Error()
	for _, want := range []string{"https://example.com/slow", "timeout"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error message %q missing %q", msg, want)
		}
	}
}
