// Package config provides configuration management for the crawler.
// It defines configuration structures and default values for a single
// bounded crawl run.
package config

import (
	"net/url"
	"strings"
	"time"
)

// CrawlConfig holds crawler configuration
type CrawlConfig struct {
	// Crawl scope and budget
	StartURL          string   `mapstructure:"start_url" yaml:"start_url"`                   // Seed URL; also defines same-site scope
	Keywords          []string `mapstructure:"keywords" yaml:"keywords"`                     // Keywords to tally per page
	MaxPages          int      `mapstructure:"max_pages" yaml:"max_pages"`                   // Hard cap on pages attempted
	IncludeSubdomains bool     `mapstructure:"include_subdomains" yaml:"include_subdomains"` // Treat subdomains of the seed host as in scope

	// Timing
	PageTimeout   time.Duration `mapstructure:"page_timeout" yaml:"page_timeout"`     // Per-page render deadline
	GlobalTimeout time.Duration `mapstructure:"global_timeout" yaml:"global_timeout"` // Wall-clock budget for the whole run
	RequestDelay  time.Duration `mapstructure:"request_delay" yaml:"request_delay"`   // Delay between page renders

	// Matching policy
	CaseSensitive bool `mapstructure:"case_sensitive" yaml:"case_sensitive"` // Match keywords case-sensitively

	// Rendering
	UserAgent  string `mapstructure:"user_agent" yaml:"user_agent"`   // Browser User-Agent
	ChromePath string `mapstructure:"chrome_path" yaml:"chrome_path"` // Chrome/Chromium binary, empty for auto-detect
	Headless   bool   `mapstructure:"headless" yaml:"headless"`       // Run the browser headless

	// Database configuration
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"` // Path to SQLite database file
}

// MinRequestDelay is the smallest accepted delay between page renders,
// so repeated renders do not hammer one host.
const MinRequestDelay = 100 * time.Millisecond

// DefaultConfig returns a configuration with default values
func DefaultConfig() *CrawlConfig {
	return &CrawlConfig{
		MaxPages:      10,
		PageTimeout:   20 * time.Second,
		GlobalTimeout: 10 * time.Minute,
		RequestDelay:  500 * time.Millisecond,
		UserAgent:     "SiteGrep/1.0",
		Headless:      true,
		DatabasePath:  "./sitegrep.db",
	}
}

// Validate checks if the configuration is valid. Any error returned
// here is a configuration fault: the run aborts before the first page.
func (c *CrawlConfig) Validate() error {
	if strings.TrimSpace(c.StartURL) == "" {
		return ErrMissingStartURL
	}

	u, err := url.Parse(c.StartURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidStartURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidStartURL
	}

	if len(c.CleanKeywords()) == 0 {
		return ErrNoKeywords
	}

	if c.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if c.PageTimeout <= 0 {
		return ErrInvalidPageTimeout
	}

	if c.GlobalTimeout <= 0 {
		return ErrInvalidGlobalTimeout
	}

	if c.RequestDelay < MinRequestDelay {
		return ErrInvalidRequestDelay
	}

	if c.DatabasePath == "" {
		return ErrEmptyDatabasePath
	}

	return nil
}

// CleanKeywords returns the keyword list with surrounding whitespace
// trimmed and empty entries dropped. Deduplication and case folding
// happen in the matcher, which owns the matching policy.
func (c *CrawlConfig) CleanKeywords() []string {
	cleaned := make([]string, 0, len(c.Keywords))
	for _, kw := range c.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	return cleaned
}
