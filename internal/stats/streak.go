package stats

import (
	"sort"
	"time"
)

// streakResult holds the consecutive-day runs computed over the set of
// active calendar dates.
type streakResult struct {
	Longest      int
	LongestStart time.Time
	LongestEnd   time.Time
	Current      int
}

// nextDay reports whether b is the calendar day after a. Comparing via
// AddDate instead of a 24h duration keeps DST transition days intact.
func nextDay(a, b time.Time) bool {
	n := a.AddDate(0, 0, 1)
	return n.Year() == b.Year() && n.Month() == b.Month() && n.Day() == b.Day()
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// computeStreaks scans the distinct active dates for maximal
// consecutive-day runs.
//
// windowEnd is the reporting window's end: today for the current year and
// all-time mode, the last active date when the window has already closed.
// The current streak is the run ending at windowEnd or the day before it
// (a user whose last active day was yesterday is still on streak); for a
// closed past year there is no meaningful current streak and windowClosed
// forces it to 0.
//
// Edge cases: no dates → all zeros; a single date → longest 1.
func computeStreaks(dates []time.Time, windowEnd time.Time, windowClosed bool) streakResult {
	var res streakResult
	if len(dates) == 0 {
		return res
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	runStart := sorted[0]
	runLen := 1

	record := func(start, end time.Time, length int) {
		// Strictly greater: on ties the earliest run wins.
		if length > res.Longest {
			res.Longest = length
			res.LongestStart = start
			res.LongestEnd = end
		}
	}

	for i := 1; i < len(sorted); i++ {
		if nextDay(sorted[i-1], sorted[i]) {
			runLen++
			continue
		}
		record(runStart, sorted[i-1], runLen)
		runStart = sorted[i]
		runLen = 1
	}
	record(runStart, sorted[len(sorted)-1], runLen)

	if windowClosed {
		return res
	}

	// The final run counts as current only if it reaches the window end
	// or stops exactly one day short of it.
	last := sorted[len(sorted)-1]
	if sameDay(last, windowEnd) || nextDay(last, windowEnd) {
		res.Current = runLen
	}

	return res
}
