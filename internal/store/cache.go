// Package store provides a SQLite-backed cache of parsed message records,
// keyed by source file so unchanged files never get re-parsed.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cwrapped/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed record caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFileRecords replaces all cached records for one source file and
// updates its tracking info, atomically.
func (c *Cache) SaveFileRecords(filePath string, records []model.MessageRecord, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE file_path = ?", filePath); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO records
		(file_path, timestamp, role, session_id, project, model, tool_name, mcp_server,
		 input_tokens, output_tokens, cache_creation_tokens, cache_read_tokens, is_edit, is_write)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		_, err := stmt.Exec(
			filePath,
			rec.Timestamp.Format(time.RFC3339Nano),
			string(rec.Role),
			rec.SessionID, rec.Project, rec.Model, rec.ToolName, rec.MCPServer,
			rec.InputTokens, rec.OutputTokens, rec.CacheCreationTokens, rec.CacheReadTokens,
			boolInt(rec.IsEdit), boolInt(rec.IsWrite),
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes, parsed_at)
		VALUES (?, ?, ?, ?)`, filePath, mtimeNs, sizeBytes, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteFile drops a vanished source file's records and tracking row.
func (c *Cache) DeleteFile(filePath string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE file_path = ?", filePath); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadAllRecords reads every cached record. Timestamps come back in
// local time, matching what the parser produced.
func (c *Cache) LoadAllRecords() ([]model.MessageRecord, error) {
	rows, err := c.db.Query(`SELECT
		timestamp, role, session_id, project, model, tool_name, mcp_server,
		input_tokens, output_tokens, cache_creation_tokens, cache_read_tokens, is_edit, is_write
		FROM records`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.MessageRecord
	for rows.Next() {
		var (
			rec             model.MessageRecord
			tsStr, roleStr  string
			isEdit, isWrite int
		)
		err := rows.Scan(
			&tsStr, &roleStr, &rec.SessionID, &rec.Project, &rec.Model,
			&rec.ToolName, &rec.MCPServer,
			&rec.InputTokens, &rec.OutputTokens, &rec.CacheCreationTokens, &rec.CacheReadTokens,
			&isEdit, &isWrite,
		)
		if err != nil {
			return nil, err
		}

		ts, err := time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt timestamp %q in cache: %w", tsStr, err)
		}
		rec.Timestamp = ts.Local()
		rec.Role = model.Role(roleStr)
		rec.IsEdit = isEdit != 0
		rec.IsWrite = isWrite != 0

		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear drops all cached records and tracking info.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM records"); err != nil {
		return err
	}
	_, err := c.db.Exec("DELETE FROM file_tracker")
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
