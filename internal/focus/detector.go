// Package focus groups activity records into focus sessions.
package focus

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

// Defaults used when a Config field is zero.
const (
	DefaultMaxGap        = 60 * time.Second
	DefaultShortVisit    = 30 * time.Second
	DefaultMinFocusScore = 0.5
)

// Config tunes session detection.
type Config struct {
	MaxGap        time.Duration // longest pause inside one session
	ShortVisit    time.Duration // visits to other apps shorter than this are interruptions
	MinFocusScore float64       // sessions averaging below this are dropped
}

// Detector implements insights.SessionDetector.
//
// Consecutive non-idle records on one app form a session while the pause
// since the last activity stays within MaxGap. A brief visit to another app
// counts as an interruption if the user comes back; otherwise the session
// ends where it was last active and the visit starts the next session.
type Detector struct {
	maxGap        time.Duration
	shortVisit    time.Duration
	minFocusScore float64
	logger        *zap.Logger
}

// NewDetector creates a detector, filling zero fields of cfg with defaults.
func NewDetector(cfg Config, logger *zap.Logger) *Detector {
	d := &Detector{
		maxGap:        cfg.MaxGap,
		shortVisit:    cfg.ShortVisit,
		minFocusScore: cfg.MinFocusScore,
		logger:        logger,
	}
	if d.maxGap <= 0 {
		d.maxGap = DefaultMaxGap
	}
	if d.shortVisit <= 0 {
		d.shortVisit = DefaultShortVisit
	}
	if d.minFocusScore <= 0 {
		d.minFocusScore = DefaultMinFocusScore
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// builder accumulates one session.
type builder struct {
	session    activity.FocusSession
	lastActive time.Time
	weighted   float64 // focus * seconds
	seconds    float64
	focusSum   float64
	records    int
}

func newBuilder(r activity.Record) *builder {
	b := &builder{session: activity.FocusSession{
		Start:    r.Timestamp,
		AppName:  r.AppName,
		Category: activity.Categorize(r.AppName),
	}}
	b.add(r)
	return b
}

func (b *builder) add(r activity.Record) {
	if end := r.End(); end.After(b.session.End) {
		b.session.End = end
	}
	b.lastActive = b.session.End
	b.session.Keystrokes += r.Keystrokes
	b.session.MouseClicks += r.MouseClicks
	b.weighted += r.FocusScore * r.Duration.Seconds()
	b.seconds += r.Duration.Seconds()
	b.focusSum += r.FocusScore
	b.records++
}

func (b *builder) finish() activity.FocusSession {
	s := b.session
	s.Duration = s.End.Sub(s.Start)
	if b.seconds > 0 {
		s.FocusScore = b.weighted / b.seconds
	} else {
		s.FocusScore = b.focusSum / float64(b.records)
	}
	return s
}

// DetectSessions groups ascending records into focus sessions sorted by start.
func (d *Detector) DetectSessions(ctx context.Context, records []activity.Record) ([]activity.FocusSession, error) {
	var (
		sessions []activity.FocusSession
		cur      *builder
		pending  int // interruptions since the session was last on its app
		visitAt  = -1
	)

	closeSession := func() {
		if cur == nil {
			return
		}
		if s := cur.finish(); s.FocusScore >= d.minFocusScore {
			sessions = append(sessions, s)
		}
		cur = nil
		pending = 0
		visitAt = -1
	}

	// i == len(records) acts as an end marker that closes the last session.
	for i := 0; i <= len(records); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == len(records) && cur == nil {
			break
		}

		var continues, visit bool
		if i < len(records) {
			r := records[i]
			if cur == nil {
				if !r.IsIdle {
					cur = newBuilder(r)
				}
				continue
			}
			lastActive := cur.lastActive
			if visitAt >= 0 {
				lastActive = records[i-1].End()
			}
			withinGap := !r.IsIdle && r.Timestamp.Sub(lastActive) <= d.maxGap
			continues = withinGap && r.AppName == cur.session.AppName
			visit = withinGap && !continues && r.Duration < d.shortVisit
		}

		switch {
		case continues:
			cur.add(records[i])
			cur.session.Interruptions += pending
			pending = 0
			visitAt = -1
		case visit:
			if visitAt < 0 {
				visitAt = i
			}
			pending++
		default:
			// The session ends at its last activity on its own app. Visits
			// it never came back from are replayed as the next session.
			restart := i
			if visitAt >= 0 {
				restart = visitAt
			}
			closeSession()
			i = restart - 1
		}
	}

	d.logger.Debug("focus sessions detected",
		zap.Int("records", len(records)),
		zap.Int("sessions", len(sessions)))
	return sessions, nil
}
