package insights

import (
	"fmt"
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

const (
	preferredHourFocus = 0.6

	breakIntervalMaxHours = 3.0
	breakIntervalMinHours = 1.0

	longFocusMinutes  = 45.0
	shortFocusMinutes = 15.0

	highSwitchRate = 30.0 // per hour
	lowSwitchRate  = 10.0
)

// AppUsageHabits emits one habit per app with at least three records.
func AppUsageHabits(records []activity.Record, now time.Time) []WorkHabit {
	var habits []WorkHabit
	for _, u := range AggregateApps(records) {
		if u.Count < MinPatternOccurrences {
			continue
		}
		avg := u.AvgFocus()
		impact := focusImpact(avg)
		h := WorkHabit{
			ID:          newID("habit"),
			Type:        HabitAppUsage,
			Pattern:     fmt.Sprintf("Frequent %s use", u.AppName),
			Frequency:   u.Count,
			Confidence:  countConfidence(u.Count, 20),
			Description: fmt.Sprintf("%s opened %d times with %.0f%% average focus", u.AppName, u.Count, avg*100),
			Impact:      impact,
			DetectedAt:  now,
		}
		if impact == ImpactNegative {
			h.Recommendation = fmt.Sprintf("Limit %s during focus hours; it tends to coincide with low focus", u.AppName)
		}
		habits = append(habits, h)
	}
	return habits
}

// TimePreferenceHabit names the window from the earliest to the latest hour
// whose average focus exceeds 0.6, when at least two such hours exist.
func TimePreferenceHabit(records []activity.Record, now time.Time) []WorkHabit {
	first, last := -1, -1
	hours, count := 0, 0
	for _, hf := range HourlyFocus(records) {
		if hf.AvgFocus <= preferredHourFocus {
			continue
		}
		if first == -1 || hf.Hour < first {
			first = hf.Hour
		}
		if hf.Hour > last {
			last = hf.Hour
		}
		hours++
		count += hf.Count
	}
	if hours < 2 || count < MinPatternOccurrences {
		return nil
	}

	window := fmt.Sprintf("%02d:00-%02d:59", first, last)
	return []WorkHabit{{
		ID:             newID("habit"),
		Type:           HabitTimePreference,
		Pattern:        "Focused " + window,
		Frequency:      count,
		Confidence:     0.8,
		Description:    fmt.Sprintf("Focus is consistently high between %s", window),
		Impact:         ImpactPositive,
		Recommendation: fmt.Sprintf("Schedule important work between %s", window),
		DetectedAt:     now,
	}}
}

// BreakTimingHabit judges the average time worked between breaks.
func BreakTimingHabit(records []activity.Record, now time.Time) []WorkHabit {
	breaks := DetectBreaks(records)
	if len(breaks) < MinPatternOccurrences {
		return nil
	}
	interval, _ := meanBreakInterval(breaks)
	hours := interval.Hours()

	h := WorkHabit{
		ID:          newID("habit"),
		Type:        HabitBreakTiming,
		Pattern:     fmt.Sprintf("Break every %.1fh", hours),
		Frequency:   len(breaks),
		Confidence:  countConfidence(len(breaks), 10),
		Description: fmt.Sprintf("%d breaks, on average %.1f hours apart", len(breaks), hours),
		Impact:      ImpactPositive,
		DetectedAt:  now,
	}
	switch {
	case hours > breakIntervalMaxHours:
		h.Impact = ImpactNegative
		h.Recommendation = "Take a short break at least every 90 minutes"
	case hours < breakIntervalMinHours:
		h.Impact = ImpactNegative
		h.Recommendation = "Breaks are very frequent; try longer uninterrupted stretches"
	}
	return []WorkHabit{h}
}

// FocusDurationHabit judges the average length of focus sessions.
func FocusDurationHabit(sessions []activity.FocusSession, now time.Time) []WorkHabit {
	if len(sessions) < MinPatternOccurrences {
		return nil
	}
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration
	}
	minutes := meanDuration(total, len(sessions)).Minutes()

	h := WorkHabit{
		ID:          newID("habit"),
		Type:        HabitFocusDuration,
		Pattern:     fmt.Sprintf("%.0f minute focus sessions", minutes),
		Frequency:   len(sessions),
		Confidence:  countConfidence(len(sessions), 10),
		Description: fmt.Sprintf("%d focus sessions averaging %.0f minutes", len(sessions), minutes),
		Impact:      ImpactNeutral,
		DetectedAt:  now,
	}
	switch {
	case minutes > longFocusMinutes:
		h.Impact = ImpactPositive
	case minutes < shortFocusMinutes:
		h.Impact = ImpactNegative
		h.Recommendation = "Extend focus sessions by silencing notifications and closing unrelated apps"
	}
	return []WorkHabit{h}
}

// MultitaskingHabit judges the context-switch rate over the whole history.
func MultitaskingHabit(records []activity.Record, now time.Time) []WorkHabit {
	if len(records) < 2 {
		return nil
	}
	switches := len(ContextSwitches(records))
	elapsed := historySpanHours(records)
	if switches < MinPatternOccurrences || elapsed <= 0 {
		return nil
	}
	rate := float64(switches) / elapsed

	h := WorkHabit{
		ID:          newID("habit"),
		Type:        HabitMultitasking,
		Pattern:     fmt.Sprintf("%.0f app switches per hour", rate),
		Frequency:   switches,
		Confidence:  countConfidence(switches, 20),
		Description: fmt.Sprintf("%d context switches over %.1f hours", switches, elapsed),
		Impact:      ImpactNeutral,
		DetectedAt:  now,
	}
	switch {
	case rate > highSwitchRate:
		h.Impact = ImpactNegative
		h.Recommendation = "Batch similar tasks to cut down on app switching"
	case rate < lowSwitchRate:
		h.Impact = ImpactPositive
	}
	return []WorkHabit{h}
}
