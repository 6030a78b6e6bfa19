package config

import "errors"

var (
	// ErrMissingStartURL is returned when no start URL is provided
	ErrMissingStartURL = errors.New("start URL is required")
	// ErrInvalidStartURL is returned when the start URL is not an absolute http(s) URL
	ErrInvalidStartURL = errors.New("start URL must be an absolute http or https URL")
	// ErrNoKeywords is returned when the keyword set is empty after trimming
	ErrNoKeywords = errors.New("at least one non-empty keyword is required")
	// ErrInvalidMaxPages is returned when max_pages is not at least 1
	ErrInvalidMaxPages = errors.New("max_pages must be at least 1")
	// ErrInvalidPageTimeout is returned when page_timeout is not greater than 0
	ErrInvalidPageTimeout = errors.New("page_timeout must be greater than 0")
	// ErrInvalidGlobalTimeout is returned when global_timeout is not greater than 0
	ErrInvalidGlobalTimeout = errors.New("global_timeout must be greater than 0")
	// ErrInvalidRequestDelay is returned when request_delay is below the minimum
	ErrInvalidRequestDelay = errors.New("request_delay must be at least 100ms")
	// ErrEmptyDatabasePath is returned when database path is empty
	ErrEmptyDatabasePath = errors.New("database_path cannot be empty")
)
