package activity

import (
	"math"
	"time"
)

// DefaultTick is the sampling interval observations are assumed to arrive at.
const DefaultTick = time.Second

// focusSaturation is the span length at which DefaultFocusScore stops
// rewarding duration.
const focusSaturation = 15 * time.Minute

// FocusScorer assigns a focus score to a completed span.
type FocusScorer func(Record) float64

// DefaultFocusScore scores a span by how long it lasted and whether the user
// was interacting with it. Idle spans score 0.
func DefaultFocusScore(r Record) float64 {
	if r.IsIdle || r.Duration <= 0 {
		return 0
	}
	score := 0.8 * math.Min(1, float64(r.Duration)/float64(focusSaturation))
	if r.Keystrokes+r.MouseClicks > 0 {
		score += 0.2
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// SegmenterOption configures a Segmenter.
type SegmenterOption func(*Segmenter)

// WithFocusScorer replaces DefaultFocusScore.
func WithFocusScorer(f FocusScorer) SegmenterOption {
	return func(s *Segmenter) {
		if f != nil {
			s.scorer = f
		}
	}
}

// Segmenter coalesces per-tick observations into Records.
//
// It has two states: idle (no open span) and tracking (current != nil).
// A span is extended by one tick for each observation with the same app and
// window title; any other observation flushes it and opens a new span.
// Spans that never grew past zero duration are dropped on flush.
//
// A Segmenter is not safe for concurrent use.
type Segmenter struct {
	tick    time.Duration
	scorer  FocusScorer
	current *Record

	ticks   int     // observations folded into current
	cpuSum  float64 // for the running CPU mean
	allIdle bool
}

// NewSegmenter creates a Segmenter for observations arriving every tick.
func NewSegmenter(tick time.Duration, opts ...SegmenterOption) *Segmenter {
	if tick <= 0 {
		tick = DefaultTick
	}
	s := &Segmenter{
		tick:   tick,
		scorer: DefaultFocusScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tracking reports whether a span is currently open.
func (s *Segmenter) Tracking() bool {
	return s.current != nil
}

// Observe folds one observation into the current span. When the observation
// starts a new span, the previous one is returned with ok set.
func (s *Segmenter) Observe(o Observation) (rec Record, ok bool) {
	if s.current == nil {
		s.open(o)
		return Record{}, false
	}

	if o.AppName == s.current.AppName && o.WindowTitle == s.current.WindowTitle {
		s.extend(o)
		return Record{}, false
	}

	rec, ok = s.flush()
	s.open(o)
	return rec, ok
}

// Stop flushes the open span, if any, and returns to the idle state.
func (s *Segmenter) Stop() (Record, bool) {
	return s.flush()
}

func (s *Segmenter) open(o Observation) {
	s.current = &Record{
		Timestamp:   o.Timestamp,
		AppName:     o.AppName,
		WindowTitle: o.WindowTitle,
		URL:         o.URL,
		IsIdle:      o.IsIdle,
		CPUUsage:    o.CPUUsage,
		Keystrokes:  o.Keystrokes,
		MouseClicks: o.MouseClicks,
	}
	s.ticks = 1
	s.cpuSum = o.CPUUsage
	s.allIdle = o.IsIdle
}

func (s *Segmenter) extend(o Observation) {
	c := s.current
	c.Duration += s.tick
	c.Keystrokes += o.Keystrokes
	c.MouseClicks += o.MouseClicks
	if c.URL == "" {
		c.URL = o.URL
	}

	s.ticks++
	s.cpuSum += o.CPUUsage
	c.CPUUsage = s.cpuSum / float64(s.ticks)

	s.allIdle = s.allIdle && o.IsIdle
	c.IsIdle = s.allIdle
}

func (s *Segmenter) flush() (Record, bool) {
	if s.current == nil {
		return Record{}, false
	}
	rec := *s.current
	s.current = nil
	s.ticks = 0
	s.cpuSum = 0

	if rec.Duration == 0 {
		return Record{}, false
	}
	rec.FocusScore = clamp01(s.scorer(rec))
	return rec, true
}

// Segment runs a whole observation slice through a fresh Segmenter and
// returns the resulting records, including the final flush.
func Segment(tick time.Duration, observations []Observation, opts ...SegmenterOption) []Record {
	s := NewSegmenter(tick, opts...)
	var records []Record
	for _, o := range observations {
		if rec, ok := s.Observe(o); ok {
			records = append(records, rec)
		}
	}
	if rec, ok := s.Stop(); ok {
		records = append(records, rec)
	}
	return records
}
