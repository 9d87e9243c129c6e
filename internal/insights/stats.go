package insights

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

// newID returns a collision-free identifier for an emitted entity.
func newID(kind string) string {
	return kind + "-" + uuid.NewString()
}

// countConfidence scales an occurrence count into a confidence capped at 0.9.
func countConfidence(count int, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return math.Min(0.9, float64(count)/scale)
}

// focusImpact maps an average focus score onto an Impact.
func focusImpact(avg float64) Impact {
	switch {
	case avg > highFocus:
		return ImpactPositive
	case avg < lowFocus:
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}

// mean returns sum/count, or 0 for an empty sample.
func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func meanDuration(total time.Duration, count int) time.Duration {
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}

// appSet collects distinct app names and returns them sorted.
type appSet map[string]struct{}

func (s appSet) add(app string) {
	s[app] = struct{}{}
}

func (s appSet) sorted() []string {
	apps := make([]string, 0, len(s))
	for app := range s {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	return apps
}

// filterPatterns keeps patterns at or above minConfidence.
func filterPatterns(patterns []WorkPattern, minConfidence float64) []WorkPattern {
	out := make([]WorkPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Confidence >= minConfidence {
			out = append(out, p)
		}
	}
	return out
}

func filterHabits(habits []WorkHabit, minConfidence float64) []WorkHabit {
	out := make([]WorkHabit, 0, len(habits))
	for _, h := range habits {
		if h.Confidence >= minConfidence {
			out = append(out, h)
		}
	}
	return out
}

// historySpanHours returns the hours from the first record's start to the
// last record's end.
func historySpanHours(records []activity.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	return records[len(records)-1].End().Sub(records[0].Timestamp).Hours()
}
