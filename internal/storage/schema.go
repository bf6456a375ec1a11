package storage

const schemaSQL = `
-- Document catalog: one row per ingest attempt, keyed by source URL.
-- Classification columns stay at their placeholder values until the
-- phase-2 classification pass fills them in.
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_url TEXT UNIQUE NOT NULL,
    file_name TEXT NOT NULL,
    fetched_at DATETIME NOT NULL,
    http_status INTEGER,
    size_bytes INTEGER,
    success INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    error TEXT,

    -- Phase 2 classification fields
    country TEXT NOT NULL DEFAULT 'Unknown',
    insurer TEXT NOT NULL DEFAULT 'Unknown',
    insurance_line TEXT NOT NULL DEFAULT 'Unknown',
    product_name TEXT NOT NULL DEFAULT 'Unknown',
    status TEXT NOT NULL DEFAULT 'needs_classification'
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_success ON documents(success);

-- View for the classification backlog
CREATE VIEW IF NOT EXISTS pending_classification AS
SELECT id, source_url, file_name, fetched_at, size_bytes
FROM documents
WHERE success = 1 AND status = 'needs_classification';
`
