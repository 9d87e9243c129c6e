package insights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
	"github.com/Atharva-Kanherkar/cadence/internal/metrics"
)

// SessionDetector turns activity records into focus sessions. Implementations
// return sessions sorted by start time with End >= Start and
// Duration == End - Start.
type SessionDetector interface {
	DetectSessions(ctx context.Context, records []activity.Record) ([]activity.FocusSession, error)
}

// Engine runs the analyses over an activity history. It holds configuration
// only and is safe for concurrent use.
type Engine struct {
	detector      SessionDetector
	minConfidence float64
	logger        *zap.Logger
	now           func() time.Time
}

// EngineConfig configures the insight engine.
type EngineConfig struct {
	Detector      SessionDetector
	MinConfidence float64 // 0 means MinConfidenceThreshold
	Logger        *zap.Logger
	Clock         func() time.Time
}

// NewEngine creates a new insight engine.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		detector:      cfg.Detector,
		minConfidence: cfg.MinConfidence,
		logger:        cfg.Logger,
		now:           cfg.Clock,
	}
	if e.minConfidence <= 0 {
		e.minConfidence = MinConfidenceThreshold
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// track records how long a procedure took and how many entities it emitted.
func (e *Engine) track(procedure string, start time.Time, emitted int) {
	elapsed := time.Since(start)
	metrics.ObserveAnalysis(procedure, elapsed, emitted)
	e.logger.Debug("analysis finished",
		zap.String("procedure", procedure),
		zap.Int("emitted", emitted),
		zap.Duration("elapsed", elapsed))
}

// IdentifyRecurringWorkPatterns returns daily, weekly, app-usage and peak-hour
// patterns whose confidence reaches the engine's threshold.
func (e *Engine) IdentifyRecurringWorkPatterns(records []activity.Record) []WorkPattern {
	start := time.Now()
	now := e.now()

	var all []WorkPattern
	all = append(all, DailyPatterns(records, now)...)
	all = append(all, WeeklyPatterns(records, now)...)
	all = append(all, AppUsagePatterns(records, now)...)
	all = append(all, PeakHoursPattern(records, now)...)

	patterns := filterPatterns(all, e.minConfidence)
	e.track("work_patterns", start, len(patterns))
	return patterns
}

// DetectFocusBlocks asks the detector for focus sessions and returns the
// sustained blocks among them.
func (e *Engine) DetectFocusBlocks(ctx context.Context, records []activity.Record) ([]activity.FocusSession, error) {
	start := time.Now()
	sessions, err := e.sessions(ctx, records)
	if err != nil {
		return nil, err
	}
	blocks := FocusBlocks(sessions)
	e.track("focus_blocks", start, len(blocks))
	return blocks, nil
}

// AnalyzeBreakPatterns returns break timing, micro-break and frequency patterns.
func (e *Engine) AnalyzeBreakPatterns(records []activity.Record) []BreakPattern {
	start := time.Now()
	patterns := BreakPatterns(records)
	e.track("break_patterns", start, len(patterns))
	return patterns
}

// FindWorkHabits runs the five habit heuristics and keeps habits whose
// confidence reaches the engine's threshold.
func (e *Engine) FindWorkHabits(ctx context.Context, records []activity.Record) ([]WorkHabit, error) {
	start := time.Now()
	now := e.now()

	sessions, err := e.sessions(ctx, records)
	if err != nil {
		return nil, err
	}

	var all []WorkHabit
	all = append(all, AppUsageHabits(records, now)...)
	all = append(all, TimePreferenceHabit(records, now)...)
	all = append(all, BreakTimingHabit(records, now)...)
	all = append(all, FocusDurationHabit(sessions, now)...)
	all = append(all, MultitaskingHabit(records, now)...)

	habits := filterHabits(all, e.minConfidence)
	e.track("habits", start, len(habits))
	return habits, nil
}

// DetectProductivityCycles returns peak, moderate and low hour-of-day runs.
func (e *Engine) DetectProductivityCycles(records []activity.Record) []ProductivityCycle {
	start := time.Now()
	cycles := ProductivityCycles(records)
	e.track("cycles", start, len(cycles))
	return cycles
}

// AnalyzeContextSwitchingPatterns returns recurring app-to-app switches.
func (e *Engine) AnalyzeContextSwitchingPatterns(records []activity.Record) []ContextSwitchPattern {
	start := time.Now()
	patterns := ContextSwitchPatterns(records)
	e.track("context_switches", start, len(patterns))
	return patterns
}

// Analyze runs every analysis over records and bundles the results.
func (e *Engine) Analyze(ctx context.Context, records []activity.Record) (*Report, error) {
	report := &Report{
		GeneratedAt: e.now(),
		RecordCount: len(records),
	}

	report.WorkPatterns = e.IdentifyRecurringWorkPatterns(records)

	blocks, err := e.DetectFocusBlocks(ctx, records)
	if err != nil {
		return nil, err
	}
	report.FocusBlocks = blocks

	report.BreakPatterns = e.AnalyzeBreakPatterns(records)

	habits, err := e.FindWorkHabits(ctx, records)
	if err != nil {
		return nil, err
	}
	report.Habits = habits

	report.Cycles = e.DetectProductivityCycles(records)
	report.Switches = e.AnalyzeContextSwitchingPatterns(records)

	e.logger.Info("analysis complete",
		zap.Int("records", len(records)),
		zap.Int("patterns", len(report.WorkPatterns)),
		zap.Int("focus_blocks", len(report.FocusBlocks)),
		zap.Int("habits", len(report.Habits)))
	return report, nil
}

func (e *Engine) sessions(ctx context.Context, records []activity.Record) ([]activity.FocusSession, error) {
	if e.detector == nil {
		return nil, nil
	}
	sessions, err := e.detector.DetectSessions(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("detect focus sessions: %w", err)
	}
	return sessions, nil
}
