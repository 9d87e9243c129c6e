package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

func TestDailyPatterns_BelowThresholdIsInternallyValid(t *testing.T) {
	records := series("Editor", monday, 4, 10*time.Minute, 0, 0.8)

	patterns := DailyPatterns(records, fixedNow)

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, PatternDaily, p.Type)
	assert.Equal(t, "Monday work pattern", p.Name)
	assert.Equal(t, 4, p.Frequency)
	assert.InDelta(t, 0.4, p.Confidence, 1e-9)
	assert.Equal(t, ImpactPositive, p.ProductivityImpact)
	assert.Equal(t, []string{"Editor"}, p.AssociatedApps)
	assert.Equal(t, fixedNow, p.DetectedAt)
}

func TestDailyPatterns_RequiresThreeRecordsPerDay(t *testing.T) {
	records := series("Editor", monday, 2, 10*time.Minute, 0, 0.8)
	records = append(records, series("Editor", monday.Add(24*time.Hour), 3, 10*time.Minute, 0, 0.5)...)

	patterns := DailyPatterns(records, fixedNow)

	require.Len(t, patterns, 1)
	assert.Equal(t, "Tuesday work pattern", patterns[0].Name)
	assert.Equal(t, ImpactNeutral, patterns[0].ProductivityImpact)
}

func TestDailyPatterns_ConfidenceCappedAndNegativeImpact(t *testing.T) {
	records := series("Slack", monday, 12, time.Minute, time.Minute, 0.2)

	patterns := DailyPatterns(records, fixedNow)

	require.Len(t, patterns, 1)
	assert.InDelta(t, 0.9, patterns[0].Confidence, 1e-9)
	assert.Equal(t, ImpactNegative, patterns[0].ProductivityImpact)
}

func TestDailyPatterns_AggregatesAcrossHours(t *testing.T) {
	records := []activity.Record{
		rec("code", monday, time.Minute, 0.6),
		rec("firefox", monday.Add(time.Hour), time.Minute, 0.8),
		rec("code", monday.Add(2*time.Hour), time.Minute, 1.0),
	}

	patterns := DailyPatterns(records, fixedNow)

	require.Len(t, patterns, 1)
	assert.Equal(t, 3, patterns[0].Frequency)
	assert.Equal(t, []string{"code", "firefox"}, patterns[0].AssociatedApps)
	assert.Equal(t, ImpactPositive, patterns[0].ProductivityImpact)
}

func TestWeeklyPatterns_Improving(t *testing.T) {
	records := []activity.Record{
		rec("code", monday, time.Minute, 0.4),
		rec("code", monday.Add(time.Hour), time.Minute, 0.8),
	}

	patterns := WeeklyPatterns(records, fixedNow)

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, PatternWeekly, p.Type)
	assert.Equal(t, "Productivity improving", p.Name)
	assert.Equal(t, ImpactPositive, p.ProductivityImpact)
	assert.Equal(t, 2, p.Frequency)
	assert.InDelta(t, 0.5, p.Confidence, 1e-9)
}

func TestWeeklyPatterns_FollowsBucketInsertionOrder(t *testing.T) {
	tuesday := monday.Add(24 * time.Hour)
	nextMonday := monday.Add(7 * 24 * time.Hour)
	// Tuesday is seen first, so it is the first point even though Monday
	// comes earlier in the week.
	records := []activity.Record{
		rec("code", tuesday, time.Minute, 0.8),
		rec("code", nextMonday, time.Minute, 0.4),
	}

	patterns := WeeklyPatterns(records, fixedNow)

	require.Len(t, patterns, 1)
	assert.Equal(t, "Productivity declining", patterns[0].Name)
	assert.Equal(t, ImpactNegative, patterns[0].ProductivityImpact)
}

func TestWeeklyPatterns_StableAndZeroBaseline(t *testing.T) {
	stable := []activity.Record{
		rec("code", monday, time.Minute, 0.5),
		rec("code", monday.Add(time.Hour), time.Minute, 0.52),
	}
	p := WeeklyPatterns(stable, fixedNow)
	require.Len(t, p, 1)
	assert.Equal(t, ImpactNeutral, p[0].ProductivityImpact)

	fromZero := []activity.Record{
		rec("code", monday, time.Minute, 0),
		rec("code", monday.Add(time.Hour), time.Minute, 0.5),
	}
	p = WeeklyPatterns(fromZero, fixedNow)
	require.Len(t, p, 1)
	assert.Equal(t, "Productivity improving", p[0].Name)
}

func TestWeeklyPatterns_NeedsTwoBuckets(t *testing.T) {
	assert.Empty(t, WeeklyPatterns(nil, fixedNow))
	assert.Empty(t, WeeklyPatterns(series("code", monday, 5, time.Minute, 0, 0.9), fixedNow))
}

func TestWeeklyPatterns_ConfidenceCapped(t *testing.T) {
	var records []activity.Record
	for h := 0; h < 6; h++ {
		records = append(records, rec("code", monday.Add(time.Duration(h)*time.Hour), time.Minute, 0.5))
	}

	p := WeeklyPatterns(records, fixedNow)

	require.Len(t, p, 1)
	assert.InDelta(t, 0.9, p[0].Confidence, 1e-9)
}
