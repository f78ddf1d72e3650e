package stats

import (
	"time"

	"cwrapped/internal/model"
)

// distributions folds turn records into the fixed-size hour-of-day and
// weekday histograms plus the sparse day-keyed bucket map. Bucketing uses
// the record's local timestamp, so a record at local midnight lands on
// the local day, not the UTC one.
type distributions struct {
	hourly  [24]int
	weekday [7]int // Monday=0 .. Sunday=6
	daily   map[string]*model.DailyBucket
}

func newDistributions() *distributions {
	return &distributions{daily: make(map[string]*model.DailyBucket)}
}

// mondayIndexed converts Go's Sunday=0 weekday to Monday=0.
func mondayIndexed(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func (d *distributions) observe(rec model.MessageRecord) {
	ts := rec.Timestamp
	d.hourly[ts.Hour()]++
	d.weekday[mondayIndexed(ts.Weekday())]++

	key := rec.DayKey()
	bucket, ok := d.daily[key]
	if !ok {
		bucket = &model.DailyBucket{
			Date: time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
		}
		d.daily[key] = bucket
	}
	bucket.MessageCount++
	bucket.TokenCount += rec.TotalTokens()
}

// activeDates returns the distinct active calendar dates, in no
// particular order; streak computation sorts its own copy.
func (d *distributions) activeDates() []time.Time {
	dates := make([]time.Time, 0, len(d.daily))
	for _, b := range d.daily {
		dates = append(dates, b.Date)
	}
	return dates
}

// buckets returns the day-keyed map as immutable values.
func (d *distributions) buckets() map[string]model.DailyBucket {
	out := make(map[string]model.DailyBucket, len(d.daily))
	for k, b := range d.daily {
		out[k] = *b
	}
	return out
}
