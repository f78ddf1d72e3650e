package stats

import (
	"time"

	"cwrapped/internal/model"
)

// lateNightEnd is the last hour (inclusive) of the late-night band,
// which runs 00:00–05:59 local time.
const lateNightEnd = 5

// conversation tracks one session's running totals.
type conversation struct {
	firstSeen time.Time
	messages  int
	tokens    int64
}

// convTracker finds the longest conversation across all sessions.
// Sessions are compared by message count, then token count; the records
// are pre-sorted chronologically, so ordering by first appearance is
// deterministic for any remaining ties.
type convTracker struct {
	sessions map[string]*conversation
	order    []string
}

func newConvTracker() *convTracker {
	return &convTracker{sessions: make(map[string]*conversation)}
}

func (c *convTracker) observe(rec model.MessageRecord) {
	conv, ok := c.sessions[rec.SessionID]
	if !ok {
		conv = &conversation{firstSeen: rec.Timestamp}
		c.sessions[rec.SessionID] = conv
		c.order = append(c.order, rec.SessionID)
	}
	conv.messages++
	conv.tokens += rec.TotalTokens()
}

// longest returns the winning conversation, nil when no session was seen.
func (c *convTracker) longest() *conversation {
	var best *conversation
	for _, id := range c.order {
		conv := c.sessions[id]
		if best == nil {
			best = conv
			continue
		}
		if conv.messages > best.messages ||
			(conv.messages == best.messages && conv.tokens > best.tokens) {
			best = conv
		}
	}
	return best
}

// mostActiveDay picks the daily bucket with the maximum message count,
// ties broken by earliest date.
func mostActiveDay(daily map[string]model.DailyBucket) *model.MostActiveDay {
	var best *model.MostActiveDay
	for _, b := range daily {
		switch {
		case best == nil,
			b.MessageCount > best.Messages,
			b.MessageCount == best.Messages && b.Date.Before(best.Date):
			best = &model.MostActiveDay{Date: b.Date, Messages: b.MessageCount}
		}
	}
	return best
}

// mostActiveHour picks the hour bucket with the maximum count. Scanning
// ascending breaks ties toward the earliest hour.
func mostActiveHour(hourly [24]int) *int {
	total := 0
	for _, n := range hourly {
		total += n
	}
	if total == 0 {
		return nil
	}

	best := 0
	for h := 1; h < 24; h++ {
		if hourly[h] > hourly[best] {
			best = h
		}
	}
	return &best
}
