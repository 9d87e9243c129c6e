package focus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

var start = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func rec(app string, offset, dur time.Duration, focus float64) activity.Record {
	return activity.Record{
		Timestamp:  start.Add(offset),
		AppName:    app,
		Duration:   dur,
		FocusScore: focus,
	}
}

func detect(t *testing.T, records ...activity.Record) []activity.FocusSession {
	t.Helper()
	sessions, err := NewDetector(Config{}, nil).DetectSessions(context.Background(), records)
	require.NoError(t, err)
	return sessions
}

func TestDetectSessions_JoinsSameApp(t *testing.T) {
	r1 := rec("code", 0, 10*time.Minute, 0.9)
	r1.Keystrokes, r1.MouseClicks = 100, 5
	r2 := rec("code", 10*time.Minute+30*time.Second, 20*time.Minute, 0.6)
	r2.Keystrokes, r2.MouseClicks = 50, 5

	sessions := detect(t, r1, r2)

	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, start, s.Start)
	assert.Equal(t, start.Add(30*time.Minute+30*time.Second), s.End)
	assert.Equal(t, s.End.Sub(s.Start), s.Duration)
	assert.Equal(t, "code", s.AppName)
	assert.Equal(t, activity.CategoryDevelopment, s.Category)
	assert.Equal(t, 150, s.Keystrokes)
	assert.Equal(t, 10, s.MouseClicks)
	// (0.9*10 + 0.6*20) / 30
	assert.InDelta(t, 0.7, s.FocusScore, 1e-9)
	assert.Zero(t, s.Interruptions)
}

func TestDetectSessions_GapSplits(t *testing.T) {
	sessions := detect(t,
		rec("code", 0, 10*time.Minute, 0.9),
		rec("code", 10*time.Minute+DefaultMaxGap+time.Second, 10*time.Minute, 0.9),
	)

	assert.Len(t, sessions, 2)
}

func TestDetectSessions_ShortVisitIsInterruption(t *testing.T) {
	sessions := detect(t,
		rec("code", 0, 10*time.Minute, 0.9),
		rec("slack", 10*time.Minute, 10*time.Second, 0.1),
		rec("code", 10*time.Minute+10*time.Second, 10*time.Minute, 0.9),
		rec("firefox", 20*time.Minute+10*time.Second, 5*time.Second, 0.1),
		rec("slack", 20*time.Minute+15*time.Second, 5*time.Second, 0.1),
		rec("code", 20*time.Minute+20*time.Second, 5*time.Minute, 0.9),
	)

	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].Interruptions)
	assert.Equal(t, 25*time.Minute+20*time.Second, sessions[0].Duration)
	assert.InDelta(t, 0.9, sessions[0].FocusScore, 1e-9)
}

func TestDetectSessions_LongVisitEndsSession(t *testing.T) {
	sessions := detect(t,
		rec("code", 0, 10*time.Minute, 0.9),
		rec("firefox", 10*time.Minute, 5*time.Minute, 0.8),
		rec("code", 15*time.Minute, 10*time.Minute, 0.9),
	)

	require.Len(t, sessions, 3)
	assert.Equal(t, "code", sessions[0].AppName)
	assert.Equal(t, "firefox", sessions[1].AppName)
	assert.Equal(t, activity.CategoryBrowsing, sessions[1].Category)
	assert.Equal(t, "code", sessions[2].AppName)
}

func TestDetectSessions_UnreturnedVisitStartsNextSession(t *testing.T) {
	sessions := detect(t,
		rec("code", 0, 10*time.Minute, 0.9),
		rec("firefox", 10*time.Minute, 10*time.Second, 0.8),
		rec("firefox", 10*time.Minute+10*time.Second, 10*time.Minute, 0.8),
	)

	require.Len(t, sessions, 2)
	assert.Equal(t, start.Add(10*time.Minute), sessions[0].End)
	assert.Zero(t, sessions[0].Interruptions)
	assert.Equal(t, "firefox", sessions[1].AppName)
	assert.Equal(t, start.Add(10*time.Minute), sessions[1].Start)
	assert.Equal(t, 10*time.Minute+10*time.Second, sessions[1].Duration)
}

func TestDetectSessions_TrailingVisitIsReplayed(t *testing.T) {
	sessions := detect(t,
		rec("code", 0, 10*time.Minute, 0.9),
		rec("firefox", 10*time.Minute, 10*time.Second, 0.8),
	)

	require.Len(t, sessions, 2)
	assert.Equal(t, "firefox", sessions[1].AppName)
	assert.Equal(t, 10*time.Second, sessions[1].Duration)
}

func TestDetectSessions_IdleEndsSession(t *testing.T) {
	idle := rec("code", 10*time.Minute, 5*time.Minute, 0)
	idle.IsIdle = true

	sessions := detect(t,
		rec("code", 0, 10*time.Minute, 0.9),
		idle,
		rec("code", 15*time.Minute, 10*time.Minute, 0.9),
	)

	require.Len(t, sessions, 2)
	assert.Equal(t, 10*time.Minute, sessions[0].Duration)
	assert.Equal(t, start.Add(15*time.Minute), sessions[1].Start)
}

func TestDetectSessions_DropsUnfocused(t *testing.T) {
	sessions := detect(t,
		rec("vlc", 0, 30*time.Minute, 0.2),
		rec("code", 30*time.Minute, 20*time.Minute, 0.8),
	)

	require.Len(t, sessions, 1)
	assert.Equal(t, "code", sessions[0].AppName)
}

func TestDetectSessions_ZeroDurationUsesPlainMean(t *testing.T) {
	sessions := detect(t,
		rec("code", 0, 0, 0.4),
		rec("code", time.Second, 0, 0.8),
	)

	require.Len(t, sessions, 1)
	assert.InDelta(t, 0.6, sessions[0].FocusScore, 1e-9)
}

func TestDetectSessions_CustomConfig(t *testing.T) {
	d := NewDetector(Config{MaxGap: 5 * time.Minute, MinFocusScore: 0.1}, nil)

	sessions, err := d.DetectSessions(context.Background(), []activity.Record{
		rec("vlc", 0, 10*time.Minute, 0.2),
		rec("vlc", 14*time.Minute, 10*time.Minute, 0.2),
	})

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 24*time.Minute, sessions[0].Duration)
}

func TestDetectSessions_Empty(t *testing.T) {
	assert.Empty(t, detect(t))
}

func TestDetectSessions_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDetector(Config{}, nil).DetectSessions(ctx, []activity.Record{rec("code", 0, time.Minute, 1)})

	assert.ErrorIs(t, err, context.Canceled)
}
