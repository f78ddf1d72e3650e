package stats

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func days(t *testing.T, specs ...string) []time.Time {
	t.Helper()
	out := make([]time.Time, 0, len(specs))
	for _, s := range specs {
		out = append(out, day(t, s))
	}
	return out
}

func TestComputeStreaks_Empty(t *testing.T) {
	res := computeStreaks(nil, day(t, "2025-01-10"), false)
	if res.Longest != 0 || res.Current != 0 {
		t.Errorf("empty dates: longest=%d current=%d, want 0/0", res.Longest, res.Current)
	}
}

func TestComputeStreaks_SingleDate(t *testing.T) {
	res := computeStreaks(days(t, "2025-03-01"), day(t, "2025-03-01"), false)
	if res.Longest != 1 {
		t.Errorf("longest = %d, want 1", res.Longest)
	}
	if res.Current != 1 {
		t.Errorf("current = %d, want 1", res.Current)
	}
	if !res.LongestStart.Equal(day(t, "2025-03-01")) || !res.LongestEnd.Equal(day(t, "2025-03-01")) {
		t.Errorf("bounds = %v..%v", res.LongestStart, res.LongestEnd)
	}
}

func TestComputeStreaks_GapBreaksRun(t *testing.T) {
	active := days(t, "2025-01-01", "2025-01-02", "2025-01-03", "2025-01-06")

	// Window ends Jan 10: the Jan 6 run is stale, no current streak.
	res := computeStreaks(active, day(t, "2025-01-10"), false)
	if res.Longest != 3 {
		t.Errorf("longest = %d, want 3", res.Longest)
	}
	if !res.LongestStart.Equal(day(t, "2025-01-01")) || !res.LongestEnd.Equal(day(t, "2025-01-03")) {
		t.Errorf("longest run = %v..%v, want Jan 1..Jan 3", res.LongestStart, res.LongestEnd)
	}
	if res.Current != 0 {
		t.Errorf("current = %d, want 0 (window end far past last activity)", res.Current)
	}

	// Window ends Jan 6: the single-day run is current.
	res = computeStreaks(active, day(t, "2025-01-06"), false)
	if res.Current != 1 {
		t.Errorf("current = %d, want 1 (last active day is window end)", res.Current)
	}
}

func TestComputeStreaks_YesterdayStillCounts(t *testing.T) {
	active := days(t, "2025-05-01", "2025-05-02", "2025-05-03")
	res := computeStreaks(active, day(t, "2025-05-04"), false)
	if res.Current != 3 {
		t.Errorf("current = %d, want 3 (last active day was yesterday)", res.Current)
	}
}

func TestComputeStreaks_ClosedWindowHasNoCurrent(t *testing.T) {
	active := days(t, "2024-12-29", "2024-12-30", "2024-12-31")
	res := computeStreaks(active, day(t, "2024-12-31"), true)
	if res.Longest != 3 {
		t.Errorf("longest = %d, want 3", res.Longest)
	}
	if res.Current != 0 {
		t.Errorf("current = %d, want 0 for a closed year", res.Current)
	}
}

func TestComputeStreaks_EarliestRunWinsTies(t *testing.T) {
	active := days(t, "2025-02-10", "2025-02-11", "2025-01-01", "2025-01-02")
	res := computeStreaks(active, day(t, "2025-03-01"), false)
	if res.Longest != 2 {
		t.Fatalf("longest = %d, want 2", res.Longest)
	}
	if !res.LongestStart.Equal(day(t, "2025-01-01")) {
		t.Errorf("longest start = %v, want the earlier of two equal runs", res.LongestStart)
	}
}

func TestComputeStreaks_UnsortedInput(t *testing.T) {
	active := days(t, "2025-01-03", "2025-01-01", "2025-01-02")
	res := computeStreaks(active, day(t, "2025-01-03"), false)
	if res.Longest != 3 || res.Current != 3 {
		t.Errorf("longest=%d current=%d, want 3/3", res.Longest, res.Current)
	}
}

func TestComputeStreaks_MonthBoundary(t *testing.T) {
	active := days(t, "2025-01-31", "2025-02-01")
	res := computeStreaks(active, day(t, "2025-02-01"), false)
	if res.Longest != 2 {
		t.Errorf("longest = %d, want 2 across month boundary", res.Longest)
	}
}
