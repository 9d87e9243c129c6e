package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

// HourFocus is the average focus score observed in one hour of the day.
type HourFocus struct {
	Hour     int
	Count    int
	AvgFocus float64
}

// HourlyFocus averages focus per hour of day across the whole history. Only
// hours with at least one record are returned, in no particular order.
func HourlyFocus(records []activity.Record) []HourFocus {
	var sums [24]float64
	var counts [24]int
	for _, r := range records {
		h := r.Timestamp.Hour()
		sums[h] += r.FocusScore
		counts[h]++
	}

	var hours []HourFocus
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		hours = append(hours, HourFocus{Hour: h, Count: counts[h], AvgFocus: mean(sums[h], counts[h])})
	}
	return hours
}

func classifyHour(avg float64) CycleType {
	switch {
	case avg > highFocus:
		return CyclePeak
	case avg < lowFocus:
		return CycleLow
	default:
		return CycleModerate
	}
}

var cycleProductivity = map[CycleType]float64{
	CyclePeak:     0.8,
	CycleModerate: 0.5,
	CycleLow:      0.2,
}

// consecutiveRuns sorts hours ascending and splits them into maximal runs of
// consecutive integers. The sort is required: callers may pass hours in any
// order and runs are only meaningful over sorted input.
func consecutiveRuns(hours []int) [][2]int {
	if len(hours) == 0 {
		return nil
	}
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)

	var runs [][2]int
	start, prev := sorted[0], sorted[0]
	for _, h := range sorted[1:] {
		if h == prev+1 {
			prev = h
			continue
		}
		runs = append(runs, [2]int{start, prev})
		start, prev = h, h
	}
	return append(runs, [2]int{start, prev})
}

// ProductivityCycles groups hours of the day into peak, moderate and low runs.
// Cycles are ordered peak, moderate, low and by start hour within a type.
func ProductivityCycles(records []activity.Record) []ProductivityCycle {
	byType := make(map[CycleType][]int)
	for _, hf := range HourlyFocus(records) {
		t := classifyHour(hf.AvgFocus)
		byType[t] = append(byType[t], hf.Hour)
	}

	var cycles []ProductivityCycle
	for _, t := range []CycleType{CyclePeak, CycleModerate, CycleLow} {
		for _, run := range consecutiveRuns(byType[t]) {
			cycles = append(cycles, ProductivityCycle{
				ID:                  newID("cycle"),
				StartHour:           run[0],
				EndHour:             run[1],
				Type:                t,
				AverageProductivity: cycleProductivity[t],
				Consistency:         0.8,
				DaysObserved:        ProductivityCycleMinDays,
				Confidence:          0.8,
			})
		}
	}
	return cycles
}

// PeakHoursPattern summarises the peak hours as a single daily pattern. It
// returns nil when no hour qualifies.
func PeakHoursPattern(records []activity.Record, now time.Time) []WorkPattern {
	var peak []HourFocus
	for _, hf := range HourlyFocus(records) {
		if classifyHour(hf.AvgFocus) == CyclePeak {
			peak = append(peak, hf)
		}
	}
	if len(peak) == 0 {
		return nil
	}
	sort.Slice(peak, func(i, j int) bool { return peak[i].Hour < peak[j].Hour })

	labels := make([]string, len(peak))
	var isPeak [24]bool
	count := 0
	for i, hf := range peak {
		labels[i] = fmt.Sprintf("%02d:00", hf.Hour)
		isPeak[hf.Hour] = true
		count += hf.Count
	}

	apps := appSet{}
	for _, r := range records {
		if isPeak[r.Timestamp.Hour()] {
			apps.add(r.AppName)
		}
	}

	return []WorkPattern{{
		ID:                 newID("peak"),
		Type:               PatternDaily,
		Name:               "Peak productivity hours",
		Description:        "Most focused during " + strings.Join(labels, ", "),
		Frequency:          count,
		Confidence:         0.8,
		AssociatedApps:     apps.sorted(),
		ProductivityImpact: ImpactPositive,
		DetectedAt:         now,
		LastSeen:           now,
	}}
}
