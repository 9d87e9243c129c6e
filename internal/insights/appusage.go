package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

const topAppsLimit = 5

// AppUsage aggregates every record of one application.
type AppUsage struct {
	AppName       string
	TotalDuration time.Duration
	Count         int
	FocusSum      float64
}

// AvgFocus returns the mean focus score across the app's records.
func (u AppUsage) AvgFocus() float64 {
	return mean(u.FocusSum, u.Count)
}

// AggregateApps totals duration, record count and focus per app, in the order
// apps first appear in records.
func AggregateApps(records []activity.Record) []AppUsage {
	index := make(map[string]int)
	var usage []AppUsage
	for _, r := range records {
		i, ok := index[r.AppName]
		if !ok {
			i = len(usage)
			index[r.AppName] = i
			usage = append(usage, AppUsage{AppName: r.AppName})
		}
		usage[i].TotalDuration += r.Duration
		usage[i].Count++
		usage[i].FocusSum += r.FocusScore
	}
	return usage
}

// AppUsagePatterns emits a pattern for each of the five most-used apps that
// has enough records behind it.
func AppUsagePatterns(records []activity.Record, now time.Time) []WorkPattern {
	usage := AggregateApps(records)
	sort.SliceStable(usage, func(i, j int) bool {
		return usage[i].TotalDuration > usage[j].TotalDuration
	})
	if len(usage) > topAppsLimit {
		usage = usage[:topAppsLimit]
	}

	var patterns []WorkPattern
	for _, u := range usage {
		if u.Count < MinPatternOccurrences {
			continue
		}
		avg := u.AvgFocus()
		patterns = append(patterns, WorkPattern{
			ID:                 newID("app"),
			Type:               PatternDaily,
			Name:               fmt.Sprintf("Heavy %s usage", u.AppName),
			Description:        fmt.Sprintf("%s used %d times for %s in total", u.AppName, u.Count, u.TotalDuration.Round(time.Minute)),
			Frequency:          u.Count,
			Confidence:         countConfidence(u.Count, 20),
			AssociatedApps:     []string{u.AppName},
			ProductivityImpact: focusImpact(avg),
			DetectedAt:         now,
			LastSeen:           now,
		})
	}
	return patterns
}
