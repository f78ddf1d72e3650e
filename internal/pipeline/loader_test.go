package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cwrapped/internal/store"
)

const sessionLines = `{"type":"user","timestamp":"2025-03-01T10:00:00Z"}
{"type":"assistant","timestamp":"2025-03-01T10:00:05Z","message":{"id":"msg_1","role":"assistant","model":"claude-sonnet-4-5","usage":{"input_tokens":100,"output_tokens":50}}}
`

func writeSession(t *testing.T, claudeDir, project, session, content string) string {
	t.Helper()
	dir := filepath.Join(claudeDir, "projects", project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, session+".jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	claudeDir := t.TempDir()
	writeSession(t, claudeDir, "-home-sam-projects-gitlore", "s1", sessionLines)
	writeSession(t, claudeDir, "-home-sam-projects-api", "s2", sessionLines)

	res, err := Load(claudeDir, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFiles != 2 || res.ParsedFiles != 2 {
		t.Errorf("files = %d/%d, want 2/2", res.TotalFiles, res.ParsedFiles)
	}
	if res.ProjectCount != 2 {
		t.Errorf("ProjectCount = %d, want 2", res.ProjectCount)
	}
	if len(res.Records) != 4 {
		t.Errorf("got %d records, want 4", len(res.Records))
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	res, err := Load(t.TempDir(), false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFiles != 0 || len(res.Records) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
}

func TestLoadWithCache_Incremental(t *testing.T) {
	claudeDir := t.TempDir()
	path := writeSession(t, claudeDir, "-home-sam-projects-gitlore", "s1", sessionLines)

	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	// First run parses everything.
	res, err := LoadWithCache(claudeDir, false, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Reparsed != 1 || res.CacheHits != 0 {
		t.Errorf("first run: reparsed/hits = %d/%d, want 1/0", res.Reparsed, res.CacheHits)
	}
	if len(res.Records) != 2 {
		t.Errorf("first run: got %d records, want 2", len(res.Records))
	}

	// Second run with nothing changed is all cache hits.
	res, err = LoadWithCache(claudeDir, false, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Reparsed != 0 || res.CacheHits != 1 {
		t.Errorf("second run: reparsed/hits = %d/%d, want 0/1", res.Reparsed, res.CacheHits)
	}
	if len(res.Records) != 2 {
		t.Errorf("second run: got %d records, want 2", len(res.Records))
	}

	// Touching the file with new content forces a re-parse.
	grown := sessionLines + `{"type":"user","timestamp":"2025-03-01T11:00:00Z"}` + "\n"
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	res, err = LoadWithCache(claudeDir, false, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Reparsed != 1 {
		t.Errorf("after change: reparsed = %d, want 1", res.Reparsed)
	}
	if len(res.Records) != 3 {
		t.Errorf("after change: got %d records, want 3", len(res.Records))
	}
}

func TestLoadWithCache_PrunesVanishedFiles(t *testing.T) {
	claudeDir := t.TempDir()
	keep := writeSession(t, claudeDir, "-home-sam-projects-gitlore", "s1", sessionLines)
	gone := writeSession(t, claudeDir, "-home-sam-projects-gitlore", "s2", sessionLines)
	_ = keep

	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := LoadWithCache(claudeDir, false, cache, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	res, err := LoadWithCache(claudeDir, false, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 {
		t.Errorf("got %d records, want 2 after prune", len(res.Records))
	}
}
