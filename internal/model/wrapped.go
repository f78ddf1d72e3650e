package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// DailyBucket holds totals for a single calendar day. Days with no
// activity have no bucket; absence means zero.
type DailyBucket struct {
	Date         time.Time `json:"date"`
	MessageCount int       `json:"message_count"`
	TokenCount   int64     `json:"token_count"`
}

// MonthlyTokens holds the four token-category totals for one month.
type MonthlyTokens struct {
	Input         int64 `json:"input"`
	Output        int64 `json:"output"`
	CacheCreation int64 `json:"cache_creation"`
	CacheRead     int64 `json:"cache_read"`
}

// RankingEntry is one label with its occurrence count.
type RankingEntry struct {
	Label string
	Count int
}

// RankingTable is a frequency table ordered descending by count, ties
// broken by first-seen order. It is always exposed pre-sorted so
// rendering is deterministic across runs on identical input.
type RankingTable []RankingEntry

// Top returns the first n entries (fewer if the table is shorter).
func (t RankingTable) Top(n int) RankingTable {
	if n > len(t) {
		n = len(t)
	}
	return t[:n]
}

// Get returns the count for a label, 0 when absent.
func (t RankingTable) Get(label string) int {
	for _, e := range t {
		if e.Label == label {
			return e.Count
		}
	}
	return 0
}

// MarshalJSON emits the table as a JSON object whose keys appear in rank
// order. The export contract specifies label→count mappings, and feeding
// a Go map to encoding/json would re-sort the keys alphabetically.
func (t RankingTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		count, err := json.Marshal(e.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MostActiveDay identifies the day with the highest message count.
type MostActiveDay struct {
	Date     time.Time `json:"date"`
	Messages int       `json:"messages"`
}

// WrappedStats is the complete derived-statistics structure. It is built
// once per aggregation pass and read-only afterwards; consumers never
// recompute anything from it.
type WrappedStats struct {
	// Year is nil in all-time mode.
	Year *int

	TotalMessages          int
	TotalUserMessages      int
	TotalAssistantMessages int
	TotalSessions          int
	TotalProjects          int

	TotalTokens              int64
	TotalInputTokens         int64
	TotalOutputTokens        int64
	TotalCacheCreationTokens int64
	TotalCacheReadTokens     int64

	ActiveDays    int
	LateNightDays int

	StreakLongest      int
	StreakLongestStart *time.Time
	StreakLongestEnd   *time.Time
	StreakCurrent      int

	MostActiveHour *int
	MostActiveDay  *MostActiveDay

	// PrimaryModel is the most-used model family's display name.
	PrimaryModel string
	// ModelsUsed counts assistant messages per display family.
	ModelsUsed RankingTable

	TopTools    RankingTable
	TopMCPs     RankingTable
	TopProjects RankingTable

	HourlyDistribution  [24]int
	WeekdayDistribution [7]int // Monday=0 .. Sunday=6

	DailyStats    map[string]DailyBucket
	MonthlyCosts  map[string]float64
	MonthlyTokens map[string]MonthlyTokens

	// EstimatedCost is nil when no record resolved against the pricing
	// table; "unknown" and "zero" are different answers.
	EstimatedCost *float64
	CostByModel   map[string]float64

	FirstMessageDate *time.Time
	LastMessageDate  *time.Time

	AvgMessagesPerDay   float64
	AvgMessagesPerWeek  float64
	AvgMessagesPerMonth float64
	AvgCostPerDay       *float64
	AvgCostPerWeek      *float64
	AvgCostPerMonth     *float64

	TotalEdits      int
	TotalWrites     int
	AvgEditsPerDay  float64
	AvgEditsPerWeek float64

	LongestConversationMessages int
	LongestConversationTokens   int64
	LongestConversationDate     *time.Time
}
