package stats

import (
	"sort"

	"cwrapped/internal/model"
)

// counter accumulates label frequencies while remembering first-seen
// order. The aggregation pass owns one counter per category; nothing is
// shared across invocations.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

// add increments a label's count. Empty labels are skipped rather than
// counted under a sentinel entry.
func (c *counter) add(label string) {
	if label == "" {
		return
	}
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) len() int {
	return len(c.counts)
}

// table returns the entries sorted descending by count. The sort is
// stable over first-seen order, so equal counts keep the order in which
// their labels first appeared — identical inputs always rank identically,
// no matter how the records were shuffled on disk.
func (c *counter) table() model.RankingTable {
	t := make(model.RankingTable, 0, len(c.order))
	for _, label := range c.order {
		t = append(t, model.RankingEntry{Label: label, Count: c.counts[label]})
	}
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].Count > t[j].Count
	})
	return t
}
