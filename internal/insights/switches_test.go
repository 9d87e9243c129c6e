package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

func TestContextSwitches(t *testing.T) {
	records := []activity.Record{
		rec("A", monday, time.Minute, 0.5),
		rec("A", monday.Add(time.Minute), time.Minute, 0.5),
		rec("B", monday.Add(3*time.Minute), time.Minute, 0.5),
	}

	switches := ContextSwitches(records)

	require.Len(t, switches, 1)
	assert.Equal(t, "A", switches[0].From)
	assert.Equal(t, "B", switches[0].To)
	assert.Equal(t, time.Minute, switches[0].Duration)
}

func TestContextSwitches_OverlapClampedToZero(t *testing.T) {
	records := []activity.Record{
		rec("A", monday, 2*time.Minute, 0.5),
		rec("B", monday.Add(time.Minute), time.Minute, 0.5),
	}

	switches := ContextSwitches(records)

	require.Len(t, switches, 1)
	assert.Zero(t, switches[0].Duration)
}

func TestContextSwitchPatterns_BelowThreshold(t *testing.T) {
	// A->B twice, B->A once. Six alternating records would already give
	// A->B three times, so four is the longest run below the threshold.
	records := alternate([]string{"A", "B", "A", "B"}, monday, time.Minute, 5*time.Second)

	assert.Empty(t, ContextSwitchPatterns(records))
}

func TestContextSwitchPatterns_HabitualWithinOneHour(t *testing.T) {
	// A->B three times, B->A three times
	records := alternate([]string{"A", "B", "A", "B", "A", "B", "A"}, monday, time.Minute, 5*time.Second)

	patterns := ContextSwitchPatterns(records)

	require.Len(t, patterns, 2)
	ab, ba := patterns[0], patterns[1]
	assert.Equal(t, "A", ab.FromApp)
	assert.Equal(t, "B", ab.ToApp)
	assert.Equal(t, "B", ba.FromApp)
	assert.Equal(t, "A", ba.ToApp)

	for _, p := range patterns {
		assert.Equal(t, 3, p.Frequency)
		assert.Equal(t, 5*time.Second, p.AverageDuration)
		assert.Equal(t, []int{9, 9, 9}, p.TimeOfDay)
		assert.Equal(t, SwitchDisruptive, p.Impact)
		assert.Equal(t, SwitchHabitual, p.Pattern)
	}
}

func TestContextSwitchPatterns_ReactiveAndPlanned(t *testing.T) {
	var records []activity.Record
	for i := 0; i < 11; i++ {
		start := monday.Add(time.Duration(i) * 30 * time.Minute)
		records = append(records,
			rec("X", start, time.Minute, 0.5),
			rec("Y", start.Add(time.Minute), time.Minute, 0.5),
		)
	}

	patterns := ContextSwitchPatterns(records)

	require.Len(t, patterns, 2)
	xy, yx := patterns[0], patterns[1]
	assert.Equal(t, 11, xy.Frequency)
	assert.Equal(t, SwitchReactive, xy.Pattern)
	assert.Equal(t, SwitchDisruptive, xy.Impact)
	assert.Len(t, xy.TimeOfDay, 11)

	assert.Equal(t, 10, yx.Frequency)
	assert.Equal(t, SwitchPlanned, yx.Pattern)
	assert.Equal(t, 28*time.Minute, yx.AverageDuration)
	assert.Equal(t, SwitchBeneficial, yx.Impact)
}

func TestSwitchImpactBounds(t *testing.T) {
	assert.Equal(t, SwitchDisruptive, switchImpact(9*time.Second))
	assert.Equal(t, SwitchNeutral, switchImpact(10*time.Second))
	assert.Equal(t, SwitchNeutral, switchImpact(5*time.Minute))
	assert.Equal(t, SwitchBeneficial, switchImpact(5*time.Minute+time.Millisecond))
}

func TestSwitchKind(t *testing.T) {
	assert.Equal(t, SwitchHabitual, switchKind(2, 50))
	assert.Equal(t, SwitchReactive, switchKind(3, 11))
	assert.Equal(t, SwitchPlanned, switchKind(3, 10))
}
