package insights

import (
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

// monday is 2025-03-03 09:00 UTC.
var monday = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func rec(app string, start time.Time, dur time.Duration, focus float64) activity.Record {
	return activity.Record{
		Timestamp:   start,
		AppName:     app,
		WindowTitle: app,
		Duration:    dur,
		FocusScore:  focus,
	}
}

// back-to-back records of one app, each dur long, separated by gap.
func series(app string, start time.Time, n int, dur, gap time.Duration, focus float64) []activity.Record {
	records := make([]activity.Record, n)
	at := start
	for i := range records {
		records[i] = rec(app, at, dur, focus)
		at = at.Add(dur + gap)
	}
	return records
}

// alternate builds records cycling through apps, each dur long and gap apart.
func alternate(apps []string, start time.Time, dur, gap time.Duration) []activity.Record {
	records := make([]activity.Record, len(apps))
	at := start
	for i, app := range apps {
		records[i] = rec(app, at, dur, 0.5)
		at = at.Add(dur + gap)
	}
	return records
}
