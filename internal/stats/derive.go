package stats

import (
	"time"

	"cwrapped/internal/model"
)

const daysPerMonth = 365.25 / 12

// daysBetween counts calendar days from a to b inclusive of neither
// endpoint. Both stamps are projected to noon UTC first, which sidesteps
// DST-shortened days.
func daysBetween(a, b time.Time) int {
	an := time.Date(a.Year(), a.Month(), a.Day(), 12, 0, 0, 0, time.UTC)
	bn := time.Date(b.Year(), b.Month(), b.Day(), 12, 0, 0, 0, time.UTC)
	return int(bn.Sub(an).Hours() / 24)
}

// elapsedSpanDays is the full elapsed span of the active window in days:
// first message through last message, except that a currently-running
// year extends to today. Dividing by the span rather than by active days
// is deliberate — sparse usage is supposed to lower the average.
func elapsedSpanDays(s *model.WrappedStats, year *int, now time.Time) int {
	if s.FirstMessageDate == nil || s.LastMessageDate == nil {
		return 0
	}
	end := *s.LastMessageDate
	if year != nil && *year == now.Year() {
		end = now
	}
	span := daysBetween(*s.FirstMessageDate, end) + 1
	if span < 0 {
		return 0
	}
	return span
}

// finishAverages is the O(1) post-pass: everything here depends only on
// final totals and the date span. All divisions are guarded; a
// zero-length window produces zero averages, never a fault.
func finishAverages(s *model.WrappedStats, year *int, now time.Time) {
	span := elapsedSpanDays(s, year, now)
	if span == 0 {
		return
	}
	days := float64(span)

	s.AvgMessagesPerDay = float64(s.TotalMessages) / days
	s.AvgMessagesPerWeek = s.AvgMessagesPerDay * 7
	s.AvgMessagesPerMonth = s.AvgMessagesPerDay * daysPerMonth

	s.AvgEditsPerDay = float64(s.TotalEdits+s.TotalWrites) / days
	s.AvgEditsPerWeek = s.AvgEditsPerDay * 7

	if s.EstimatedCost != nil {
		perDay := *s.EstimatedCost / days
		perWeek := perDay * 7
		perMonth := perDay * daysPerMonth
		s.AvgCostPerDay = &perDay
		s.AvgCostPerWeek = &perWeek
		s.AvgCostPerMonth = &perMonth
	}
}
