// Package export renders WrappedStats into the machine-readable JSON
// contract and the shareable Markdown/HTML documents.
package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"cwrapped/internal/model"
)

// jsonReport is the serialization contract for the JSON export. Field
// names are consumed by external tooling; renaming any of them is a
// breaking change.
type jsonReport struct {
	Year *int `json:"year"`

	TotalMessages          int `json:"total_messages"`
	TotalUserMessages      int `json:"total_user_messages"`
	TotalAssistantMessages int `json:"total_assistant_messages"`
	TotalSessions          int `json:"total_sessions"`
	TotalProjects          int `json:"total_projects"`

	TotalTokens              int64 `json:"total_tokens"`
	TotalInputTokens         int64 `json:"total_input_tokens"`
	TotalOutputTokens        int64 `json:"total_output_tokens"`
	TotalCacheCreationTokens int64 `json:"total_cache_creation_tokens"`
	TotalCacheReadTokens     int64 `json:"total_cache_read_tokens"`

	ActiveDays    int `json:"active_days"`
	LateNightDays int `json:"late_night_days"`

	StreakLongest      int     `json:"streak_longest"`
	StreakLongestStart *string `json:"streak_longest_start"`
	StreakLongestEnd   *string `json:"streak_longest_end"`
	StreakCurrent      int     `json:"streak_current"`

	MostActiveHour        *int    `json:"most_active_hour"`
	MostActiveDay         *string `json:"most_active_day"`
	MostActiveDayMessages *int    `json:"most_active_day_messages"`

	PrimaryModel string             `json:"primary_model"`
	ModelsUsed   model.RankingTable `json:"models_used"`
	TopTools     model.RankingTable `json:"top_tools"`
	TopMCPs      model.RankingTable `json:"top_mcps"`
	TopProjects  model.RankingTable `json:"top_projects"`

	HourlyDistribution  [24]int `json:"hourly_distribution"`
	WeekdayDistribution [7]int  `json:"weekday_distribution"`

	EstimatedCostUSD *float64           `json:"estimated_cost_usd"`
	CostByModel      map[string]float64 `json:"cost_by_model"`
	MonthlyCosts     map[string]float64 `json:"monthly_costs"`

	MonthlyTokens map[string]model.MonthlyTokens `json:"monthly_tokens"`

	FirstMessageDate *string `json:"first_message_date"`
	LastMessageDate  *string `json:"last_message_date"`

	AvgMessagesPerDay   float64  `json:"avg_messages_per_day"`
	AvgMessagesPerWeek  float64  `json:"avg_messages_per_week"`
	AvgMessagesPerMonth float64  `json:"avg_messages_per_month"`
	AvgCostPerDay       *float64 `json:"avg_cost_per_day"`
	AvgCostPerWeek      *float64 `json:"avg_cost_per_week"`
	AvgCostPerMonth     *float64 `json:"avg_cost_per_month"`

	TotalEdits            int     `json:"total_edits"`
	TotalWrites           int     `json:"total_writes"`
	AvgCodeChangesPerDay  float64 `json:"avg_code_changes_per_day"`
	AvgCodeChangesPerWeek float64 `json:"avg_code_changes_per_week"`

	LongestConversationMessages int     `json:"longest_conversation_messages"`
	LongestConversationTokens   int64   `json:"longest_conversation_tokens"`
	LongestConversationDate     *string `json:"longest_conversation_date"`
}

// JSON serializes the stats under the export contract, indented.
func JSON(s *model.WrappedStats) ([]byte, error) {
	r := jsonReport{
		Year:                   s.Year,
		TotalMessages:          s.TotalMessages,
		TotalUserMessages:      s.TotalUserMessages,
		TotalAssistantMessages: s.TotalAssistantMessages,
		TotalSessions:          s.TotalSessions,
		TotalProjects:          s.TotalProjects,

		TotalTokens:              s.TotalTokens,
		TotalInputTokens:         s.TotalInputTokens,
		TotalOutputTokens:        s.TotalOutputTokens,
		TotalCacheCreationTokens: s.TotalCacheCreationTokens,
		TotalCacheReadTokens:     s.TotalCacheReadTokens,

		ActiveDays:    s.ActiveDays,
		LateNightDays: s.LateNightDays,

		StreakLongest:      s.StreakLongest,
		StreakLongestStart: dayString(s.StreakLongestStart),
		StreakLongestEnd:   dayString(s.StreakLongestEnd),
		StreakCurrent:      s.StreakCurrent,

		MostActiveHour: s.MostActiveHour,

		PrimaryModel: s.PrimaryModel,
		ModelsUsed:   s.ModelsUsed,
		TopTools:     s.TopTools,
		TopMCPs:      s.TopMCPs,
		TopProjects:  s.TopProjects,

		HourlyDistribution:  s.HourlyDistribution,
		WeekdayDistribution: s.WeekdayDistribution,

		EstimatedCostUSD: roundPtr(s.EstimatedCost),
		CostByModel:      roundMap(s.CostByModel),
		MonthlyCosts:     roundMap(s.MonthlyCosts),
		MonthlyTokens:    s.MonthlyTokens,

		FirstMessageDate: dayString(s.FirstMessageDate),
		LastMessageDate:  dayString(s.LastMessageDate),

		AvgMessagesPerDay:   round1(s.AvgMessagesPerDay),
		AvgMessagesPerWeek:  round1(s.AvgMessagesPerWeek),
		AvgMessagesPerMonth: round1(s.AvgMessagesPerMonth),
		AvgCostPerDay:       roundPtr(s.AvgCostPerDay),
		AvgCostPerWeek:      roundPtr(s.AvgCostPerWeek),
		AvgCostPerMonth:     roundPtr(s.AvgCostPerMonth),

		TotalEdits:            s.TotalEdits,
		TotalWrites:           s.TotalWrites,
		AvgCodeChangesPerDay:  round1(s.AvgEditsPerDay),
		AvgCodeChangesPerWeek: round1(s.AvgEditsPerWeek),

		LongestConversationMessages: s.LongestConversationMessages,
		LongestConversationTokens:   s.LongestConversationTokens,
		LongestConversationDate:     dayString(s.LongestConversationDate),
	}
	if s.MostActiveDay != nil {
		date := s.MostActiveDay.Date.Format("2006-01-02")
		messages := s.MostActiveDay.Messages
		r.MostActiveDay = &date
		r.MostActiveDayMessages = &messages
	}

	return json.MarshalIndent(r, "", "  ")
}

// WriteJSON writes the JSON export to path.
func WriteJSON(s *model.WrappedStats, path string) error {
	data, err := JSON(s)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// DefaultBaseName builds the default export file name (no extension).
func DefaultBaseName(year *int, now time.Time) string {
	period := "all-time"
	if year != nil {
		period = fmt.Sprintf("%d", *year)
	}
	return fmt.Sprintf("claude-wrapped-%s-%s", period, now.Format("20060102-150405"))
}

func dayString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func roundPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := round2(*f)
	return &v
}

func roundMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = round2(v)
	}
	return out
}
