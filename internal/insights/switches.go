package insights

import (
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

const (
	disruptiveSwitchGap = 10 * time.Second
	beneficialSwitchGap = 5 * time.Minute
	reactiveSwitchCount = 10
	habitualMaxHours    = 2
)

// ContextSwitches lists every transition between consecutive records naming
// different apps. Overlapping records yield a zero duration.
func ContextSwitches(records []activity.Record) []ContextSwitch {
	var switches []ContextSwitch
	for i := 1; i < len(records); i++ {
		prev, next := records[i-1], records[i]
		if prev.AppName == next.AppName {
			continue
		}
		gap := prev.GapTo(next)
		if gap < 0 {
			gap = 0
		}
		switches = append(switches, ContextSwitch{
			From:     prev.AppName,
			To:       next.AppName,
			At:       next.Timestamp,
			Duration: gap,
		})
	}
	return switches
}

type switchPair struct {
	from, to string
}

// ContextSwitchPatterns groups switches by ordered app pair and reports pairs
// that recur at least MinPatternOccurrences times, in first-seen order.
func ContextSwitchPatterns(records []activity.Record) []ContextSwitchPattern {
	var order []switchPair
	groups := make(map[switchPair][]ContextSwitch)
	for _, sw := range ContextSwitches(records) {
		k := switchPair{sw.From, sw.To}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], sw)
	}

	var patterns []ContextSwitchPattern
	for _, k := range order {
		group := groups[k]
		if len(group) < MinPatternOccurrences {
			continue
		}

		var total time.Duration
		hours := make([]int, len(group))
		distinct := make(map[int]struct{})
		for i, sw := range group {
			total += sw.Duration
			hours[i] = sw.At.Hour()
			distinct[hours[i]] = struct{}{}
		}
		avg := meanDuration(total, len(group))

		patterns = append(patterns, ContextSwitchPattern{
			ID:              newID("switch"),
			FromApp:         k.from,
			ToApp:           k.to,
			Frequency:       len(group),
			AverageDuration: avg,
			TimeOfDay:       hours,
			Impact:          switchImpact(avg),
			Pattern:         switchKind(len(distinct), len(group)),
		})
	}
	return patterns
}

func switchImpact(avg time.Duration) SwitchImpact {
	switch {
	case avg < disruptiveSwitchGap:
		return SwitchDisruptive
	case avg > beneficialSwitchGap:
		return SwitchBeneficial
	default:
		return SwitchNeutral
	}
}

func switchKind(distinctHours, count int) SwitchKind {
	switch {
	case distinctHours <= habitualMaxHours:
		return SwitchHabitual
	case count > reactiveSwitchCount:
		return SwitchReactive
	default:
		return SwitchPlanned
	}
}
