package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"cwrapped/internal/model"
)

// Intensity ramp for the contribution grid, empty to busiest.
var contributionStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(ColorBorder),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#2F4F3A")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#4F7942")),
	lipgloss.NewStyle().Foreground(ColorGreen),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#B8D64A")),
}

// RenderContributionGraph renders the GitHub-style weekly activity grid:
// one row per weekday (Monday first), one column per week, colored by
// that day's message count relative to the busiest day.
func RenderContributionGraph(s *model.WrappedStats) string {
	if len(s.DailyStats) == 0 || s.FirstMessageDate == nil || s.LastMessageDate == nil {
		return ""
	}

	start := *s.FirstMessageDate
	end := *s.LastMessageDate
	// Snap to the Monday on or before the first active day so columns
	// are whole weeks.
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	maxCount := 0
	for _, b := range s.DailyStats {
		if b.MessageCount > maxCount {
			maxCount = b.MessageCount
		}
	}
	if maxCount == 0 {
		return ""
	}

	weeks := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		weeks++
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Activity"))
	b.WriteString("\n")

	for row := 0; row < 7; row++ {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(FormatWeekday(row)))
		b.WriteString(" ")
		day := start.AddDate(0, 0, row)
		for w := 0; w < weeks; w++ {
			if day.After(end) {
				b.WriteString(" ")
			} else {
				key := day.Format("2006-01-02")
				count := 0
				if bucket, ok := s.DailyStats[key]; ok {
					count = bucket.MessageCount
				}
				b.WriteString(contributionStyles[intensity(count, maxCount)].Render("■"))
			}
			day = day.AddDate(0, 0, 7)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ContributionLevels returns the week-by-weekday intensity grid used by
// the HTML export: one entry per week, 7 levels per entry (Monday
// first), 0-4 intensity with -1 marking cells outside the active span.
func ContributionLevels(s *model.WrappedStats) [][7]int {
	if len(s.DailyStats) == 0 || s.FirstMessageDate == nil || s.LastMessageDate == nil {
		return nil
	}

	start := *s.FirstMessageDate
	end := *s.LastMessageDate
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	maxCount := 0
	for _, b := range s.DailyStats {
		if b.MessageCount > maxCount {
			maxCount = b.MessageCount
		}
	}
	if maxCount == 0 {
		return nil
	}

	var weeks [][7]int
	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		var week [7]int
		for row := 0; row < 7; row++ {
			day := d.AddDate(0, 0, row)
			if day.After(end) {
				week[row] = -1
				continue
			}
			count := 0
			if bucket, ok := s.DailyStats[day.Format("2006-01-02")]; ok {
				count = bucket.MessageCount
			}
			week[row] = intensity(count, maxCount)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// intensity maps a day's count to a ramp index. Zero stays empty, the
// busiest day lands on the brightest band, and counts in between split
// into even quarters of the max.
func intensity(count, max int) int {
	if count == 0 || max == 0 {
		return 0
	}
	idx := (count*4 + max - 1) / max
	if idx >= len(contributionStyles) {
		idx = len(contributionStyles) - 1
	}
	return idx
}
