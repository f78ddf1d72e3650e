// Package stats implements the aggregation engine: one pass over the
// normalized record stream producing the complete WrappedStats structure.
// Presentation layers only read the result; they never recompute anything.
package stats

import (
	"errors"
	"sort"
	"time"

	"cwrapped/internal/config"
	"cwrapped/internal/model"
)

// ErrNoActivity is returned when no records remain after year filtering.
// Callers surface a "no activity" message instead of rendering a report.
var ErrNoActivity = errors.New("no activity for this period")

// Aggregate computes the full wrapped statistics from a record set.
// year restricts contribution to that calendar year; nil means all-time.
// The input is never mutated and the result shares no state with it, so
// calling twice on the same input yields identical output.
func Aggregate(records []model.MessageRecord, year *int) (*model.WrappedStats, error) {
	return aggregateAt(records, year, time.Now())
}

// aggregateAt is the engine with an injected clock, for tests.
func aggregateAt(records []model.MessageRecord, year *int, now time.Time) (*model.WrappedStats, error) {
	filtered := make([]model.MessageRecord, 0, len(records))
	for _, rec := range records {
		if year != nil && rec.Timestamp.Year() != *year {
			continue
		}
		filtered = append(filtered, rec)
	}
	if len(filtered) == 0 {
		return nil, ErrNoActivity
	}

	// One chronological sort up front. Streak detection needs ordered
	// dates anyway, and it pins down "first seen" for ranking tie-breaks
	// so shuffled input cannot change any top-N list.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	var (
		dist     = newDistributions()
		convs    = newConvTracker()
		tools    = newCounter()
		mcps     = newCounter()
		projects = newCounter()
		models   = newCounter()
		sessions = make(map[string]struct{})

		lateNights = make(map[string]struct{})

		monthlyCosts  = make(map[string]float64)
		monthlyTokens = make(map[string]model.MonthlyTokens)
		costByModel   = make(map[string]float64)
		totalCost     float64
		costKnown     bool
	)

	s := &model.WrappedStats{Year: year}

	for _, rec := range filtered {
		sessions[rec.SessionID] = struct{}{}

		if rec.ToolName != "" {
			// Tool-invocation sub-record: feeds the tool and MCP tables
			// and the code-change counters, but is not a turn — the turn
			// that triggered it is counted separately.
			tools.add(rec.ToolName)
			mcps.add(rec.MCPServer)
			if rec.IsEdit {
				s.TotalEdits++
			}
			if rec.IsWrite {
				s.TotalWrites++
			}
			continue
		}
		if !rec.IsTurn() {
			continue
		}

		s.TotalMessages++
		switch rec.Role {
		case model.RoleUser:
			s.TotalUserMessages++
		case model.RoleAssistant:
			s.TotalAssistantMessages++
		}

		s.TotalInputTokens += rec.InputTokens
		s.TotalOutputTokens += rec.OutputTokens
		s.TotalCacheCreationTokens += rec.CacheCreationTokens
		s.TotalCacheReadTokens += rec.CacheReadTokens

		dist.observe(rec)
		convs.observe(rec)
		projects.add(rec.Project)

		if rec.Timestamp.Hour() <= lateNightEnd {
			lateNights[rec.DayKey()] = struct{}{}
		}

		if ts := rec.Timestamp; s.FirstMessageDate == nil || ts.Before(*s.FirstMessageDate) {
			t := ts
			s.FirstMessageDate = &t
		}
		if ts := rec.Timestamp; s.LastMessageDate == nil || ts.After(*s.LastMessageDate) {
			t := ts
			s.LastMessageDate = &t
		}

		// Monthly token rollup keys on the record's local month, so a
		// month stays complete even when the year filter clips the span.
		mt := monthlyTokens[rec.MonthKey()]
		mt.Input += rec.InputTokens
		mt.Output += rec.OutputTokens
		mt.CacheCreation += rec.CacheCreationTokens
		mt.CacheRead += rec.CacheReadTokens
		monthlyTokens[rec.MonthKey()] = mt

		if rec.Role == model.RoleAssistant && rec.Model != "" {
			family := config.SimplifyModelName(rec.Model)
			models.add(family)

			cost, ok := config.Cost(rec.Model,
				rec.InputTokens, rec.OutputTokens,
				rec.CacheCreationTokens, rec.CacheReadTokens)
			if ok {
				// Unknown models fail soft: tokens counted above, zero
				// cost contribution here.
				costKnown = true
				totalCost += cost
				costByModel[family] += cost
				monthlyCosts[rec.MonthKey()] += cost
			}
		}
	}

	s.TotalTokens = s.TotalInputTokens + s.TotalOutputTokens +
		s.TotalCacheCreationTokens + s.TotalCacheReadTokens
	s.TotalSessions = len(sessions)
	s.TotalProjects = projects.len()
	s.LateNightDays = len(lateNights)

	s.HourlyDistribution = dist.hourly
	s.WeekdayDistribution = dist.weekday
	s.DailyStats = dist.buckets()
	s.ActiveDays = len(s.DailyStats)

	s.TopTools = tools.table()
	s.TopMCPs = mcps.table()
	s.TopProjects = projects.table()
	s.ModelsUsed = models.table()
	if len(s.ModelsUsed) > 0 {
		s.PrimaryModel = s.ModelsUsed[0].Label
	}

	s.MonthlyTokens = monthlyTokens
	s.MonthlyCosts = monthlyCosts
	s.CostByModel = costByModel
	if costKnown {
		s.EstimatedCost = &totalCost
	}

	windowEnd, windowClosed := reportingWindow(year, s.LastMessageDate, now)
	streaks := computeStreaks(dist.activeDates(), windowEnd, windowClosed)
	s.StreakLongest = streaks.Longest
	s.StreakCurrent = streaks.Current
	if streaks.Longest > 0 {
		start, end := streaks.LongestStart, streaks.LongestEnd
		s.StreakLongestStart = &start
		s.StreakLongestEnd = &end
	}

	s.MostActiveDay = mostActiveDay(s.DailyStats)
	s.MostActiveHour = mostActiveHour(s.HourlyDistribution)

	if conv := convs.longest(); conv != nil {
		s.LongestConversationMessages = conv.messages
		s.LongestConversationTokens = conv.tokens
		date := conv.firstSeen
		s.LongestConversationDate = &date
	}

	finishAverages(s, year, now)

	return s, nil
}

// reportingWindow resolves the streak window end date and whether the
// window is already closed (past years have no current streak).
func reportingWindow(year *int, lastMessage *time.Time, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case year == nil:
		if lastMessage != nil {
			lm := *lastMessage
			return time.Date(lm.Year(), lm.Month(), lm.Day(), 0, 0, 0, 0, lm.Location()), false
		}
		return today, false
	case *year == now.Year():
		return today, false
	default:
		return time.Date(*year, time.December, 31, 0, 0, 0, 0, now.Location()), *year < now.Year()
	}
}
