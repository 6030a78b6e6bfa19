// Package storage persists crawl reports to SQLite so runs can be
// inspected after the process exits.
package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"sitegrep/internal/crawler"

	// SQLite database driver (CGO-free)
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// SQLiteStorage implements crawler.ReportStore using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (and if needed creates) the database at dbPath
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection prevents lock conflicts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initSchema() error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO crawl_meta (key, value) VALUES ('schema_version', ?)",
		schemaVersion)
	return err
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginRun records the start of a crawl run and returns its id.
func (s *SQLiteStorage) BeginRun(scope string, keywords []string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (scope, keywords, started_at) VALUES (?, ?, ?)",
		scope, strings.Join(keywords, ","), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// SavePageResult stores one page outcome and its keyword tallies in a
// single transaction.
func (s *SQLiteStorage) SavePageResult(runID int64, position int, page *crawler.PageResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var wordCount interface{}
	var errorDetail interface{}
	if page.Status == crawler.StatusOK {
		wordCount = page.WordCount
	} else {
		errorDetail = page.ErrorDetail
	}

	result, err := tx.Exec(`
		INSERT INTO pages (run_id, position, url, status, word_count, error_detail, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, position, page.URL, string(page.Status), wordCount, errorDetail, page.AttemptedAt)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}

	if len(page.Matches) > 0 {
		pageID, err := result.LastInsertId()
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare("INSERT INTO matches (page_id, keyword, count) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		// Deterministic insert order simplifies inspection and tests
		keywords := make([]string, 0, len(page.Matches))
		for kw := range page.Matches {
			keywords = append(keywords, kw)
		}
		sort.Strings(keywords)

		for _, kw := range keywords {
			if _, err := stmt.Exec(pageID, kw, page.Matches[kw]); err != nil {
				return fmt.Errorf("failed to insert match for %q: %w", kw, err)
			}
		}
	}

	return tx.Commit()
}

// FinishRun records the summary of a completed run.
func (s *SQLiteStorage) FinishRun(runID int64, summary crawler.Summary) error {
	_, err := s.db.Exec(`
		UPDATE runs
		SET finished_at = ?, pages_attempted = ?, pages_ok = ?, elapsed_ms = ?
		WHERE id = ?`,
		time.Now().UTC(), summary.PagesAttempted, summary.PagesOK,
		summary.Elapsed.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}
	return nil
}

// GetRunReport reads a stored run back as a crawler.Report.
func (s *SQLiteStorage) GetRunReport(runID int64) (*crawler.Report, error) {
	report := &crawler.Report{}

	var elapsedMs sql.NullInt64
	var attempted, ok sql.NullInt64
	err := s.db.QueryRow(
		"SELECT scope, started_at, pages_attempted, pages_ok, elapsed_ms FROM runs WHERE id = ?",
		runID).Scan(&report.Summary.Scope, &report.Summary.StartedAt, &attempted, &ok, &elapsedMs)
	if err != nil {
		return nil, fmt.Errorf("failed to read run %d: %w", runID, err)
	}
	report.Summary.PagesAttempted = int(attempted.Int64)
	report.Summary.PagesOK = int(ok.Int64)
	report.Summary.Elapsed = time.Duration(elapsedMs.Int64) * time.Millisecond

	rows, err := s.db.Query(`
		SELECT id, url, status, word_count, error_detail, attempted_at
		FROM pages WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pageIDs []int64
	for rows.Next() {
		var (
			pageID      int64
			page        crawler.PageResult
			status      string
			wordCount   sql.NullInt64
			errorDetail sql.NullString
		)
		if err := rows.Scan(&pageID, &page.URL, &status, &wordCount, &errorDetail, &page.AttemptedAt); err != nil {
			return nil, err
		}
		page.Status = crawler.Status(status)
		page.WordCount = int(wordCount.Int64)
		page.ErrorDetail = errorDetail.String

		report.Pages = append(report.Pages, page)
		pageIDs = append(pageIDs, pageID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, pageID := range pageIDs {
		if report.Pages[i].Status != crawler.StatusOK {
			continue
		}
		matches, err := s.getMatches(pageID)
		if err != nil {
			return nil, err
		}
		report.Pages[i].Matches = matches
	}

	return report, nil
}

func (s *SQLiteStorage) getMatches(pageID int64) (map[string]int, error) {
	rows, err := s.db.Query("SELECT keyword, count FROM matches WHERE page_id = ?", pageID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make(map[string]int)
	for rows.Next() {
		var keyword string
		var count int
		if err := rows.Scan(&keyword, &count); err != nil {
			return nil, err
		}
		matches[keyword] = count
	}
	return matches, rows.Err()
}

// GetMeta returns a metadata value by key.
func (s *SQLiteStorage) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM crawl_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetMeta stores a metadata key-value pair.
func (s *SQLiteStorage) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO crawl_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}
