package store

import (
	"path/filepath"
	"testing"
	"time"

	"cwrapped/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleRecords() []model.MessageRecord {
	ts := time.Date(2025, 3, 1, 10, 30, 0, 0, time.Local)
	return []model.MessageRecord{
		{
			Timestamp: ts,
			Role:      model.RoleUser,
			SessionID: "s1",
			Project:   "gitlore",
		},
		{
			Timestamp:           ts.Add(5 * time.Second),
			Role:                model.RoleAssistant,
			SessionID:           "s1",
			Project:             "gitlore",
			Model:               "claude-sonnet-4-5",
			InputTokens:         100,
			OutputTokens:        50,
			CacheCreationTokens: 10,
			CacheReadTokens:     5,
		},
		{
			Timestamp: ts.Add(5 * time.Second),
			Role:      model.RoleAssistant,
			SessionID: "s1",
			Project:   "gitlore",
			ToolName:  "Edit",
			IsEdit:    true,
		},
	}
}

func TestCache_RoundTrip(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveFileRecords("/data/s1.jsonl", sampleRecords(), 111, 222); err != nil {
		t.Fatal(err)
	}

	got, err := c.LoadAllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}

	asst := got[1]
	if asst.Role != model.RoleAssistant || asst.Model != "claude-sonnet-4-5" {
		t.Errorf("assistant record = %+v", asst)
	}
	if asst.InputTokens != 100 || asst.CacheReadTokens != 5 {
		t.Errorf("tokens = %+v", asst)
	}
	if !asst.IsTurn() {
		t.Error("assistant record lost turn status")
	}

	tool := got[2]
	if tool.ToolName != "Edit" || !tool.IsEdit || tool.IsTurn() {
		t.Errorf("tool record = %+v", tool)
	}
	if !tool.Timestamp.Equal(sampleRecords()[2].Timestamp) {
		t.Errorf("timestamp drifted: %v vs %v", tool.Timestamp, sampleRecords()[2].Timestamp)
	}

	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	fi, ok := tracked["/data/s1.jsonl"]
	if !ok || fi.MtimeNs != 111 || fi.SizeBytes != 222 {
		t.Errorf("tracked = %+v", tracked)
	}
}

func TestCache_SaveReplacesFileRecords(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveFileRecords("/data/s1.jsonl", sampleRecords(), 1, 1); err != nil {
		t.Fatal(err)
	}
	// Re-parse of the same file yields fewer records; stale rows must go.
	if err := c.SaveFileRecords("/data/s1.jsonl", sampleRecords()[:1], 2, 2); err != nil {
		t.Fatal(err)
	}

	got, err := c.LoadAllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d records, want 1 after replace", len(got))
	}

	tracked, _ := c.GetTrackedFiles()
	if tracked["/data/s1.jsonl"].MtimeNs != 2 {
		t.Errorf("tracker not updated: %+v", tracked)
	}
}

func TestCache_DeleteFile(t *testing.T) {
	c := openTestCache(t)

	_ = c.SaveFileRecords("/data/s1.jsonl", sampleRecords(), 1, 1)
	_ = c.SaveFileRecords("/data/s2.jsonl", sampleRecords()[:1], 1, 1)

	if err := c.DeleteFile("/data/s1.jsonl"); err != nil {
		t.Fatal(err)
	}

	got, _ := c.LoadAllRecords()
	if len(got) != 1 {
		t.Errorf("got %d records, want 1 after delete", len(got))
	}
	tracked, _ := c.GetTrackedFiles()
	if _, ok := tracked["/data/s1.jsonl"]; ok {
		t.Error("deleted file still tracked")
	}
}

func TestCache_Clear(t *testing.T) {
	c := openTestCache(t)
	_ = c.SaveFileRecords("/data/s1.jsonl", sampleRecords(), 1, 1)

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	got, _ := c.LoadAllRecords()
	if len(got) != 0 {
		t.Errorf("got %d records after clear, want 0", len(got))
	}
	tracked, _ := c.GetTrackedFiles()
	if len(tracked) != 0 {
		t.Errorf("tracker not empty after clear: %+v", tracked)
	}
}
