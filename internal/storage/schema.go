package storage

const schemaSQL = `
-- One row per crawl run
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scope TEXT NOT NULL,
    keywords TEXT NOT NULL,
    started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    finished_at DATETIME,
    pages_attempted INTEGER,
    pages_ok INTEGER,
    elapsed_ms INTEGER
);

-- One row per attempted page; position preserves BFS attempt order
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    url TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('ok', 'timeout', 'fetch_error', 'render_error')),
    word_count INTEGER,
    error_detail TEXT,
    attempted_at DATETIME NOT NULL,
    UNIQUE(run_id, url),
    UNIQUE(run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id, position);

-- Per-page keyword tallies, only for pages with status 'ok'
CREATE TABLE IF NOT EXISTS matches (
    page_id INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
    keyword TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (page_id, keyword)
);

-- Key-value metadata (schema version and the like)
CREATE TABLE IF NOT EXISTS crawl_meta (
    key TEXT PRIMARY KEY NOT NULL,
    value TEXT NOT NULL
);
`
