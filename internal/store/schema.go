package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
    file_path             TEXT NOT NULL,
    timestamp             TEXT NOT NULL,
    role                  TEXT NOT NULL,
    session_id            TEXT NOT NULL,
    project               TEXT,
    model                 TEXT,
    tool_name             TEXT,
    mcp_server            TEXT,
    input_tokens          INTEGER NOT NULL DEFAULT 0,
    output_tokens         INTEGER NOT NULL DEFAULT 0,
    cache_creation_tokens INTEGER NOT NULL DEFAULT 0,
    cache_read_tokens     INTEGER NOT NULL DEFAULT 0,
    is_edit               INTEGER NOT NULL DEFAULT 0,
    is_write              INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path             TEXT PRIMARY KEY,
    mtime_ns              INTEGER NOT NULL,
    size_bytes            INTEGER NOT NULL,
    parsed_at             TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_file ON records(file_path);
CREATE INDEX IF NOT EXISTS idx_records_timestamp ON records(timestamp);
`
