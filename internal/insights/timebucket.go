package insights

import (
	"fmt"
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

// trendThreshold is the relative change above which the weekly trend is
// reported as improving or declining.
const trendThreshold = 0.1

type bucketKey struct {
	Weekday time.Weekday
	Hour    int
}

type bucket struct {
	count    int
	focusSum float64
	apps     appSet
}

func (b *bucket) add(r activity.Record) {
	b.count++
	b.focusSum += r.FocusScore
	b.apps.add(r.AppName)
}

func (b *bucket) avgFocus() float64 {
	return mean(b.focusSum, b.count)
}

// orderedBuckets is a map that remembers key insertion order.
type orderedBuckets[K comparable] struct {
	keys []K
	m    map[K]*bucket
}

func newOrderedBuckets[K comparable]() *orderedBuckets[K] {
	return &orderedBuckets[K]{m: make(map[K]*bucket)}
}

func (o *orderedBuckets[K]) get(k K) *bucket {
	b, ok := o.m[k]
	if !ok {
		b = &bucket{apps: appSet{}}
		o.m[k] = b
		o.keys = append(o.keys, k)
	}
	return b
}

// timeBuckets groups records by (weekday, hour) of their start time, in the
// order buckets are first seen.
func timeBuckets(records []activity.Record) *orderedBuckets[bucketKey] {
	buckets := newOrderedBuckets[bucketKey]()
	for _, r := range records {
		k := bucketKey{Weekday: r.Timestamp.Weekday(), Hour: r.Timestamp.Hour()}
		buckets.get(k).add(r)
	}
	return buckets
}

// DailyPatterns emits one daily pattern per weekday with enough records.
func DailyPatterns(records []activity.Record, now time.Time) []WorkPattern {
	hourly := timeBuckets(records)

	days := newOrderedBuckets[time.Weekday]()
	for _, k := range hourly.keys {
		src := hourly.m[k]
		day := days.get(k.Weekday)
		day.count += src.count
		day.focusSum += src.focusSum
		for app := range src.apps {
			day.apps.add(app)
		}
	}

	var patterns []WorkPattern
	for _, wd := range days.keys {
		day := days.m[wd]
		if day.count < MinPatternOccurrences {
			continue
		}
		avg := day.avgFocus()
		patterns = append(patterns, WorkPattern{
			ID:                 newID("daily"),
			Type:               PatternDaily,
			Name:               fmt.Sprintf("%s work pattern", wd),
			Description:        fmt.Sprintf("Regular activity on %ss with %.0f%% average focus", wd, avg*100),
			Frequency:          day.count,
			Confidence:         countConfidence(day.count, 10),
			AssociatedApps:     day.apps.sorted(),
			ProductivityImpact: focusImpact(avg),
			DetectedAt:         now,
			LastSeen:           now,
		})
	}
	return patterns
}

// WeeklyPatterns reports a single productivity trend.
//
// The series is the per-(weekday, hour) bucket average focus in the order the
// buckets were first seen, not an aggregation by calendar week. The trend is
// therefore "later-seen buckets versus earlier-seen buckets" and is kept that
// way on purpose; callers wanting calendar weeks need a different miner.
func WeeklyPatterns(records []activity.Record, now time.Time) []WorkPattern {
	buckets := timeBuckets(records)
	n := len(buckets.keys)
	if n < 2 {
		return nil
	}

	first := buckets.m[buckets.keys[0]].avgFocus()
	last := buckets.m[buckets.keys[n-1]].avgFocus()
	trend := last - first
	if first != 0 {
		trend = (last - first) / first
	}

	label, impact := "stable", ImpactNeutral
	switch {
	case trend > trendThreshold:
		label, impact = "improving", ImpactPositive
	case trend < -trendThreshold:
		label, impact = "declining", ImpactNegative
	}

	return []WorkPattern{{
		ID:                 newID("weekly"),
		Type:               PatternWeekly,
		Name:               fmt.Sprintf("Productivity %s", label),
		Description:        fmt.Sprintf("Focus is %s across %d time slots (%+.0f%%)", label, n, trend*100),
		Frequency:          n,
		Confidence:         countConfidence(n, 4),
		AssociatedApps:     []string{},
		ProductivityImpact: impact,
		DetectedAt:         now,
		LastSeen:           now,
	}}
}
