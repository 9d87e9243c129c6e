// Package insights mines activity history for work patterns, habits,
// productivity cycles, break behaviour and context switching.
//
// Every miner is a pure function of an ascending, non-overlapping slice of
// activity.Record. Results are recomputed on each call and never stored.
package insights

import (
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

// Shared thresholds.
const (
	MinPatternOccurrences    = 3
	MinConfidenceThreshold   = 0.6
	FocusBlockMinDuration    = 15 * time.Minute
	BreakThreshold           = 5 * time.Minute
	SustainedGapThreshold    = 5 * time.Minute
	ProductivityCycleMinDays = 5 // reported only; no live day count backs it

	highFocus = 0.7
	lowFocus  = 0.3
)

// PatternType distinguishes daily from weekly work patterns.
type PatternType string

const (
	PatternDaily  PatternType = "daily"
	PatternWeekly PatternType = "weekly"
)

// Impact describes whether a pattern or habit helps productivity.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// WorkPattern is a recurring work pattern backed by an occurrence count.
type WorkPattern struct {
	ID                 string      `json:"id"`
	Type               PatternType `json:"type"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Frequency          int         `json:"frequency"`
	Confidence         float64     `json:"confidence"`
	AssociatedApps     []string    `json:"associated_apps"`
	ProductivityImpact Impact      `json:"productivity_impact"`
	DetectedAt         time.Time   `json:"detected_at"`
	LastSeen           time.Time   `json:"last_seen"`
}

// BreakType classifies break patterns by length.
type BreakType string

const (
	BreakMicro BreakType = "micro"
	BreakShort BreakType = "short"
	BreakLong  BreakType = "long"
)

// Break is one gap between consecutive records of at least BreakThreshold.
type Break struct {
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Before   string        `json:"before"`
	After    string        `json:"after"`
}

// End returns when the break finished.
func (b Break) End() time.Time {
	return b.Start.Add(b.Duration)
}

// BreakPattern summarises recurring break behaviour. Timing-only patterns
// leave BeforeActivity and AfterActivity empty.
type BreakPattern struct {
	Timestamp      time.Time     `json:"timestamp"`
	Duration       time.Duration `json:"duration"`
	Type           BreakType     `json:"type"`
	BeforeActivity string        `json:"before_activity"`
	AfterActivity  string        `json:"after_activity"`
	Frequency      int           `json:"frequency"`
	Interval       time.Duration `json:"interval,omitempty"` // mean work time between breaks
}

// HabitType names the heuristic that produced a WorkHabit.
type HabitType string

const (
	HabitAppUsage       HabitType = "app_usage"
	HabitTimePreference HabitType = "time_preference"
	HabitBreakTiming    HabitType = "break_timing"
	HabitFocusDuration  HabitType = "focus_duration"
	HabitMultitasking   HabitType = "multitasking"
)

// WorkHabit is a behavioural habit with an optional recommendation.
type WorkHabit struct {
	ID             string    `json:"id"`
	Type           HabitType `json:"type"`
	Pattern        string    `json:"pattern"`
	Frequency      int       `json:"frequency"`
	Confidence     float64   `json:"confidence"`
	Description    string    `json:"description"`
	Impact         Impact    `json:"impact"`
	Recommendation string    `json:"recommendation,omitempty"`
	DetectedAt     time.Time `json:"detected_at"`
}

// CycleType classifies hours of the day by average focus.
type CycleType string

const (
	CyclePeak     CycleType = "peak"
	CycleModerate CycleType = "moderate"
	CycleLow      CycleType = "low"
)

// ProductivityCycle is a run of consecutive hours sharing a CycleType.
// StartHour and EndHour are inclusive.
type ProductivityCycle struct {
	ID                  string    `json:"id"`
	StartHour           int       `json:"start_hour"`
	EndHour             int       `json:"end_hour"`
	Type                CycleType `json:"type"`
	AverageProductivity float64   `json:"average_productivity"`
	Consistency         float64   `json:"consistency"`
	DaysObserved        int       `json:"days_observed"`
	Confidence          float64   `json:"confidence"`
}

// SwitchImpact describes how a context switch affects work.
type SwitchImpact string

const (
	SwitchDisruptive SwitchImpact = "disruptive"
	SwitchNeutral    SwitchImpact = "neutral"
	SwitchBeneficial SwitchImpact = "beneficial"
)

// SwitchKind classifies how deliberate a recurring switch looks.
type SwitchKind string

const (
	SwitchHabitual SwitchKind = "habitual"
	SwitchReactive SwitchKind = "reactive"
	SwitchPlanned  SwitchKind = "planned"
)

// ContextSwitch is one transition between consecutive records on different apps.
type ContextSwitch struct {
	From     string        `json:"from"`
	To       string        `json:"to"`
	At       time.Time     `json:"at"`
	Duration time.Duration `json:"duration"` // gap between the two records, never negative
}

// ContextSwitchPattern aggregates switches for one ordered app pair.
type ContextSwitchPattern struct {
	ID              string        `json:"id"`
	FromApp         string        `json:"from_app"`
	ToApp           string        `json:"to_app"`
	Frequency       int           `json:"frequency"`
	AverageDuration time.Duration `json:"average_duration"`
	TimeOfDay       []int         `json:"time_of_day"` // one hour per occurrence
	Impact          SwitchImpact  `json:"impact"`
	Pattern         SwitchKind    `json:"pattern"`
}

// Report bundles the output of every analysis over one history.
type Report struct {
	GeneratedAt   time.Time               `json:"generated_at"`
	RecordCount   int                     `json:"record_count"`
	WorkPatterns  []WorkPattern           `json:"work_patterns"`
	FocusBlocks   []activity.FocusSession `json:"focus_blocks"`
	BreakPatterns []BreakPattern          `json:"break_patterns"`
	Habits        []WorkHabit             `json:"habits"`
	Cycles        []ProductivityCycle     `json:"cycles"`
	Switches      []ContextSwitchPattern  `json:"switches"`
}
