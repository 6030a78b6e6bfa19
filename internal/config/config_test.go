package config

import (
	"errors"
	"testing"
	"time"
)

func validConfig() *CrawlConfig {
	cfg := DefaultConfig()
	cfg.StartURL = "https://example.com"
	cfg.Keywords = []string{"privacy", "security"}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxPages != 10 {
		t.Errorf("Expected default max pages 10, got %d", cfg.MaxPages)
	}
	if cfg.PageTimeout != 20*time.Second {
		t.Errorf("Expected default page timeout 20s, got %v", cfg.PageTimeout)
	}
	if cfg.GlobalTimeout != 10*time.Minute {
		t.Errorf("Expected default global timeout 10m, got %v", cfg.GlobalTimeout)
	}
	if !cfg.Headless {
		t.Error("Expected headless by default")
	}
	if cfg.DatabasePath == "" {
		t.Error("Expected non-empty default database path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*CrawlConfig)
		expected error
	}{
		{"Valid config", func(c *CrawlConfig) {}, nil},
		{"Missing start URL", func(c *CrawlConfig) { c.StartURL = "" }, ErrMissingStartURL},
		{"Whitespace start URL", func(c *CrawlConfig) { c.StartURL = "   " }, ErrMissingStartURL},
		{"Relative start URL", func(c *CrawlConfig) { c.StartURL = "/just/a/path" }, ErrInvalidStartURL},
		{"Unsupported scheme", func(c *CrawlConfig) { c.StartURL = "ftp://example.com" }, ErrInvalidStartURL},
		{"Unparseable start URL", func(c *CrawlConfig) { c.StartURL = "http://[::1" }, ErrInvalidStartURL},
		{"No keywords", func(c *CrawlConfig) { c.Keywords = nil }, ErrNoKeywords},
		{"Blank keywords", func(c *CrawlConfig) { c.Keywords = []string{" ", ""} }, ErrNoKeywords},
		{"Zero max pages", func(c *CrawlConfig) { c.MaxPages = 0 }, ErrInvalidMaxPages},
		{"Negative max pages", func(c *CrawlConfig) { c.MaxPages = -1 }, ErrInvalidMaxPages},
		{"Zero page timeout", func(c *CrawlConfig) { c.PageTimeout = 0 }, ErrInvalidPageTimeout},
		{"Zero global timeout", func(c *CrawlConfig) { c.GlobalTimeout = 0 }, ErrInvalidGlobalTimeout},
		{"Below-minimum request delay", func(c *CrawlConfig) { c.RequestDelay = 10 * time.Millisecond }, ErrInvalidRequestDelay},
		{"Minimum request delay accepted", func(c *CrawlConfig) { c.RequestDelay = MinRequestDelay }, nil},
		{"Empty database path", func(c *CrawlConfig) { c.DatabasePath = "" }, ErrEmptyDatabasePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expected == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			} else if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	cfg := validConfig()
	before := *cfg

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.RequestDelay != before.RequestDelay {
		t.Errorf("Validate changed RequestDelay from %v to %v", before.RequestDelay, cfg.RequestDelay)
	}
	if cfg.StartURL != before.StartURL || cfg.MaxPages != before.MaxPages {
		t.Error("Validate mutated the configuration")
	}
}

func TestCleanKeywords(t *testing.T) {
	cfg := &CrawlConfig{Keywords: []string{" privacy ", "", "security", "\t"}}

	cleaned := cfg.CleanKeywords()
	if len(cleaned) != 2 || cleaned[0] != "privacy" || cleaned[1] != "security" {
		t.Errorf("CleanKeywords = %v, want [privacy security]", cleaned)
	}
}
