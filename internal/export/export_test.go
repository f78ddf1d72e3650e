package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"cwrapped/internal/model"
)

func sampleStats() *model.WrappedStats {
	year := 2025
	cost := 42.5
	hour := 14
	first := time.Date(2025, 1, 5, 9, 0, 0, 0, time.Local)
	last := time.Date(2025, 8, 20, 22, 0, 0, 0, time.Local)

	s := &model.WrappedStats{
		Year:          &year,
		TotalMessages: 5000,
		TotalSessions: 120,
		TotalProjects: 4,
		TotalTokens:   9_000_000,
		ActiveDays:    90,
		LateNightDays: 10,
		StreakLongest: 12,
		StreakCurrent: 3,

		MostActiveHour: &hour,
		MostActiveDay:  &model.MostActiveDay{Date: first, Messages: 300},

		PrimaryModel: "Sonnet 4.5",
		ModelsUsed: model.RankingTable{
			{Label: "Sonnet 4.5", Count: 4000},
			{Label: "Opus 4.5", Count: 1000},
		},
		TopTools: model.RankingTable{
			{Label: "Bash", Count: 900},
			{Label: "Edit", Count: 700},
		},
		TopProjects: model.RankingTable{{Label: "gitlore", Count: 3000}},

		EstimatedCost: &cost,
		CostByModel:   map[string]float64{"Sonnet 4.5": 30.125, "Opus 4.5": 12.375},
		MonthlyCosts:  map[string]float64{"2025-01": 10.5, "2025-02": 32.0},

		FirstMessageDate: &first,
		LastMessageDate:  &last,

		AvgMessagesPerDay:           21.739,
		AvgEditsPerDay:              1.66,
		AvgEditsPerWeek:             11.62,
		LongestConversationMessages: 240,
		LongestConversationTokens:   500_000,
		LongestConversationDate:     &first,
	}
	s.HourlyDistribution[14] = 5000
	s.WeekdayDistribution[2] = 5000
	return s
}

func TestJSON_ContractFields(t *testing.T) {
	data, err := JSON(sampleStats())
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	for _, key := range []string{
		"total_messages", "total_sessions", "total_projects",
		"total_tokens", "total_input_tokens", "total_output_tokens",
		"total_cache_creation_tokens", "total_cache_read_tokens",
		"active_days", "late_night_days",
		"streak_longest", "streak_current",
		"most_active_hour", "most_active_day", "most_active_day_messages",
		"top_tools", "top_mcps", "top_projects",
		"hourly_distribution", "weekday_distribution",
		"estimated_cost_usd", "cost_by_model",
		"monthly_costs", "monthly_tokens",
		"avg_messages_per_day", "avg_cost_per_day",
		"avg_code_changes_per_day", "avg_code_changes_per_week",
		"longest_conversation_messages", "longest_conversation_tokens",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing contract field %q", key)
		}
	}

	if got := m["estimated_cost_usd"].(float64); got != 42.5 {
		t.Errorf("estimated_cost_usd = %v", got)
	}
	if got := m["avg_messages_per_day"].(float64); got != 21.7 {
		t.Errorf("avg_messages_per_day = %v, want rounded 21.7", got)
	}
	if got := m["avg_code_changes_per_day"].(float64); got != 1.7 {
		t.Errorf("avg_code_changes_per_day = %v, want rounded 1.7", got)
	}
	if got := m["most_active_day"].(string); got != "2025-01-05" {
		t.Errorf("most_active_day = %v, want flat date string", got)
	}
	if got := m["most_active_day_messages"].(float64); got != 300 {
		t.Errorf("most_active_day_messages = %v, want 300", got)
	}

	hours := m["hourly_distribution"].([]any)
	if len(hours) != 24 {
		t.Errorf("hourly_distribution has %d entries, want 24", len(hours))
	}
	days := m["weekday_distribution"].([]any)
	if len(days) != 7 {
		t.Errorf("weekday_distribution has %d entries, want 7", len(days))
	}

	// Ranking tables serialize as objects in rank order.
	if !strings.Contains(string(data), `"Bash": 900`) {
		t.Error("top_tools lost its counts")
	}
	toolsIdx := strings.Index(string(data), `"Bash"`)
	editIdx := strings.Index(string(data), `"Edit"`)
	if toolsIdx < 0 || editIdx < 0 || toolsIdx > editIdx {
		t.Error("top_tools keys not in rank order")
	}
}

func TestJSON_NullableCost(t *testing.T) {
	s := sampleStats()
	s.EstimatedCost = nil
	s.AvgCostPerDay = nil

	data, err := JSON(s)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["estimated_cost_usd"] != nil {
		t.Errorf("estimated_cost_usd = %v, want null", m["estimated_cost_usd"])
	}
	if m["avg_cost_per_day"] != nil {
		t.Errorf("avg_cost_per_day = %v, want null", m["avg_cost_per_day"])
	}
}

func TestMarkdown(t *testing.T) {
	data, err := Markdown(sampleStats())
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"# ✨ Claude Code Wrapped — 2025",
		"| Messages | 5,000 |",
		"Longest streak: **12 days**",
		"## Top Tools",
		"| Bash | 900 |",
		"## Monthly Costs",
		"| 2025-01 | $10.5 |",
		"## Personality",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestHTML(t *testing.T) {
	s := sampleStats()
	s.TopProjects = model.RankingTable{{Label: "<script>alert(1)</script>", Count: 1}}

	data, err := HTML(s)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Error("not an HTML document")
	}
	if !strings.Contains(out, "Claude Code Wrapped — 2025") {
		t.Error("missing title")
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("project name not escaped")
	}
	if !strings.Contains(out, "Activity by Hour") {
		t.Error("missing hourly chart")
	}
}

func TestDefaultBaseName(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 59, 1, 0, time.UTC)
	year := 2025
	if got := DefaultBaseName(&year, now); got != "claude-wrapped-2025-20251231-235901" {
		t.Errorf("DefaultBaseName = %q", got)
	}
	if got := DefaultBaseName(nil, now); got != "claude-wrapped-all-time-20251231-235901" {
		t.Errorf("all-time DefaultBaseName = %q", got)
	}
}
