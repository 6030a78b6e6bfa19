package crawler

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Scope decides which URLs belong to the crawled site.
type Scope struct {
	host              string // Normalized seed host
	includeSubdomains bool
}

// NewScope derives the same-site scope from the start URL.
func NewScope(startURL string, includeSubdomains bool) (*Scope, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("start URL %q has no host", startURL)
	}

	return &Scope{
		host:              normalizeHost(u.Host),
		includeSubdomains: includeSubdomains,
	}, nil
}

// Host returns the normalized host defining the scope.
func (s *Scope) Host() string {
	return s.host
}

// Allows reports whether u is in scope: http(s) scheme and the seed
// host, with www-variants always accepted and subdomains accepted
// when configured.
func (s *Scope) Allows(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := normalizeHost(u.Host)
	if host == s.host {
		return true
	}
	if s.includeSubdomains && strings.HasSuffix(host, "."+s.host) {
		return true
	}
	return false
}

// normalizeHost lowercases the host and treats www.example.com and
// example.com as the same site.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}

// Canonicalize rewrites a URL to its dedup form: lowercased scheme and
// host, fragment stripped, trailing slash stripped from non-root paths.
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.Path != "" && u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}

// Frontier is the BFS work queue plus the visited-or-queued set.
// Check-then-insert is one step under the mutex, so a URL can never be
// enqueued twice even if two pages discover it concurrently. The total
// number of URLs ever enqueued is capped at maxPages.
type Frontier struct {
	mu       sync.Mutex
	queue    []string
	seen     map[string]struct{}
	scope    *Scope
	maxPages int
}

// NewFrontier creates an empty frontier bounded by maxPages.
func NewFrontier(scope *Scope, maxPages int) *Frontier {
	return &Frontier{
		seen:     make(map[string]struct{}),
		scope:    scope,
		maxPages: maxPages,
	}
}

// Seed places the start URL at the head of the queue.
func (f *Frontier) Seed(startURL string) error {
	canonical, err := Canonicalize(startURL)
	if err != nil {
		return fmt.Errorf("invalid seed URL: %w", err)
	}
	if !f.Enqueue(canonical) {
		return fmt.Errorf("seed URL %q rejected by scope", startURL)
	}
	return nil
}

// Enqueue adds a discovered URL if it canonicalizes, is in scope, has
// not been seen, and the page budget still has room. Returns whether
// the URL was added; rejection is steady-state filtering, not an error.
func (f *Frontier) Enqueue(rawURL string) bool {
	canonical, err := Canonicalize(rawURL)
	if err != nil {
		return false
	}

	u, err := url.Parse(canonical)
	if err != nil || !f.scope.Allows(u) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, dup := f.seen[canonical]; dup {
		return false
	}
	if len(f.seen) >= f.maxPages {
		return false
	}

	f.seen[canonical] = struct{}{}
	f.queue = append(f.queue, canonical)
	return true
}

// Next removes and returns the head of the queue in FIFO order.
func (f *Frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}

	head := f.queue[0]
	f.queue = f.queue[1:]
	return head, true
}

// Pending returns the number of queued, not yet dequeued URLs.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen reports whether a URL was ever enqueued, in canonical form.
func (f *Frontier) Seen(rawURL string) bool {
	canonical, err := Canonicalize(rawURL)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.seen[canonical]
	return ok
}
