package insights

import (
	"sort"
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

const (
	microBreakMax   = 15 * time.Minute
	breakTimingTopN = 3
)

// DetectBreaks returns every gap between consecutive records that is at least
// BreakThreshold long.
func DetectBreaks(records []activity.Record) []Break {
	var breaks []Break
	for i := 1; i < len(records); i++ {
		prev, next := records[i-1], records[i]
		gap := prev.GapTo(next)
		if gap < BreakThreshold {
			continue
		}
		breaks = append(breaks, Break{
			Start:    prev.End(),
			Duration: gap,
			Before:   prev.AppName,
			After:    next.AppName,
		})
	}
	return breaks
}

// meanBreakInterval is the average work time from the end of one break to the
// start of the next. ok is false with fewer than two breaks.
func meanBreakInterval(breaks []Break) (interval time.Duration, ok bool) {
	if len(breaks) < 2 {
		return 0, false
	}
	var total time.Duration
	for i := 1; i < len(breaks); i++ {
		total += breaks[i].Start.Sub(breaks[i-1].End())
	}
	return meanDuration(total, len(breaks)-1), true
}

// BreakTimingPatterns reports up to three hours of the day in which breaks
// recur. The patterns carry timing only.
func BreakTimingPatterns(breaks []Break) []BreakPattern {
	type hourCount struct {
		hour  int
		count int
		first time.Time
	}
	var byHour [24]hourCount
	for _, b := range breaks {
		h := b.Start.Hour()
		if byHour[h].count == 0 {
			byHour[h] = hourCount{hour: h, first: b.Start}
		}
		byHour[h].count++
	}

	var hours []hourCount
	for _, hc := range byHour {
		if hc.count >= MinPatternOccurrences {
			hours = append(hours, hc)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool { return hours[i].count > hours[j].count })
	if len(hours) > breakTimingTopN {
		hours = hours[:breakTimingTopN]
	}

	patterns := make([]BreakPattern, 0, len(hours))
	for _, hc := range hours {
		patterns = append(patterns, BreakPattern{
			Timestamp: hc.first,
			Type:      BreakShort,
			Frequency: hc.count,
		})
	}
	return patterns
}

// MicroBreakPattern reports the average length of breaks shorter than 15
// minutes when they recur often enough.
func MicroBreakPattern(breaks []Break) []BreakPattern {
	var total time.Duration
	var micro []Break
	for _, b := range breaks {
		if b.Duration < microBreakMax {
			micro = append(micro, b)
			total += b.Duration
		}
	}
	if len(micro) < MinPatternOccurrences {
		return nil
	}
	return []BreakPattern{{
		Timestamp: micro[len(micro)-1].Start,
		Duration:  meanDuration(total, len(micro)),
		Type:      BreakMicro,
		Frequency: len(micro),
	}}
}

// BreakFrequencyPattern reports how often breaks happen: Interval is the mean
// time worked between breaks and Duration the mean break length.
func BreakFrequencyPattern(breaks []Break) []BreakPattern {
	if len(breaks) < MinPatternOccurrences {
		return nil
	}
	interval, _ := meanBreakInterval(breaks)

	var total time.Duration
	for _, b := range breaks {
		total += b.Duration
	}
	return []BreakPattern{{
		Timestamp: breaks[len(breaks)-1].Start,
		Duration:  meanDuration(total, len(breaks)),
		Type:      BreakShort,
		Frequency: len(breaks),
		Interval:  interval,
	}}
}

// BreakPatterns runs the timing, micro-break and frequency analyses.
func BreakPatterns(records []activity.Record) []BreakPattern {
	breaks := DetectBreaks(records)
	var patterns []BreakPattern
	patterns = append(patterns, BreakTimingPatterns(breaks)...)
	patterns = append(patterns, MicroBreakPattern(breaks)...)
	patterns = append(patterns, BreakFrequencyPattern(breaks)...)
	return patterns
}
