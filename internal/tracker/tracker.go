// Package tracker samples the active window on a fixed tick, folds the
// samples into activity records and hands finished records to a sink.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
	"github.com/Atharva-Kanherkar/cadence/internal/capture"
	"github.com/Atharva-Kanherkar/cadence/internal/config"
	"github.com/Atharva-Kanherkar/cadence/internal/metrics"
)

// flushTimeout bounds the final save after the run context is cancelled.
const flushTimeout = 5 * time.Second

// Skip reasons reported to metrics.
const (
	skipPaused       = "paused"
	skipBlockedApp   = "blocked_app"
	skipNoWindow     = "no_window"
	skipCaptureError = "capture_error"
)

// RecordSink persists finished records. *storage.Store satisfies it.
type RecordSink interface {
	SaveRecords(ctx context.Context, records []activity.Record) error
}

// Tracker owns the segmenter and runs the capture loop.
type Tracker struct {
	cfg       *config.Config
	window    capture.Capturer
	idle      capture.Capturer // optional
	input     capture.Capturer // optional
	sink      RecordSink
	segmenter *activity.Segmenter
	tick      time.Duration
	logger    *zap.Logger
}

// Option customises a Tracker.
type Option func(*Tracker)

// WithIdle adds an idle capturer; without one every tick counts as active.
func WithIdle(c capture.Capturer) Option {
	return func(t *Tracker) { t.idle = c }
}

// WithInput adds a keystroke and click counter.
func WithInput(c capture.Capturer) Option {
	return func(t *Tracker) { t.input = c }
}

// WithTick overrides the configured tick interval.
func WithTick(d time.Duration) Option {
	return func(t *Tracker) { t.tick = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New creates a Tracker.
func New(cfg *config.Config, window capture.Capturer, sink RecordSink, opts ...Option) *Tracker {
	t := &Tracker{
		cfg:    cfg,
		window: window,
		sink:   sink,
		tick:   cfg.TickInterval(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("tracker")
	t.segmenter = activity.NewSegmenter(t.tick)
	return t
}

// Run captures on every tick until ctx is cancelled, then flushes the open
// record. Capture errors are logged and the tick skipped; only a failure to
// save the final record is returned.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	t.logger.Info("tracker started",
		zap.Duration("tick", t.tick),
		zap.String("window", t.window.Name()),
		zap.Bool("idle_detection", t.idle != nil),
		zap.Bool("input_counting", t.input != nil))

	t.step(ctx)
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
			defer cancel()
			err := t.Flush(flushCtx)
			t.logger.Info("tracker stopped")
			return err
		case <-ticker.C:
			t.step(ctx)
		}
	}
}

func (t *Tracker) step(ctx context.Context) {
	if err := t.Tick(ctx); err != nil && ctx.Err() == nil {
		t.logger.Warn("tick failed", zap.Error(err))
	}
}

// Tick takes one sample and feeds it to the segmenter, saving the record it
// completes, if any.
func (t *Tracker) Tick(ctx context.Context) error {
	if t.cfg.Paused {
		metrics.RecordSkipped(skipPaused)
		return t.Flush(ctx)
	}

	// A skipped tick is a gap: close the open record so activity after it
	// starts a new one.
	obs, ok, err := t.observe(ctx)
	if err != nil {
		return errors.Join(err, t.Flush(ctx))
	}
	if !ok {
		return t.Flush(ctx)
	}

	metrics.RecordObservation()
	if rec, done := t.segmenter.Observe(obs); done {
		return t.save(ctx, rec)
	}
	return nil
}

// Flush closes the open record and saves it.
func (t *Tracker) Flush(ctx context.Context) error {
	rec, ok := t.segmenter.Stop()
	if !ok {
		return nil
	}
	return t.save(ctx, rec)
}

// observe captures the window and idle state and applies the privacy
// filters. ok is false when the tick should be skipped.
func (t *Tracker) observe(ctx context.Context) (obs activity.Observation, ok bool, err error) {
	result, err := t.window.Capture(ctx)
	if err != nil {
		metrics.RecordCaptureError(t.window.Name())
		metrics.RecordSkipped(skipCaptureError)
		return obs, false, fmt.Errorf("failed to capture window: %w", err)
	}

	app := result.Metadata["app_class"]
	if app == "" {
		metrics.RecordSkipped(skipNoWindow)
		return obs, false, nil
	}
	if t.cfg.IsAppBlocked(app) {
		metrics.RecordSkipped(skipBlockedApp)
		return obs, false, nil
	}

	title := result.Metadata["window_title"]
	if t.cfg.ContainsBlockedKeyword(title) {
		title = ""
	}
	url := result.Metadata["url"]
	if url != "" && t.cfg.IsURLBlocked(url) {
		url = ""
	}

	obs = activity.Observation{
		AppName:     app,
		WindowTitle: title,
		Timestamp:   result.Timestamp,
		URL:         url,
		IsIdle:      t.isIdle(ctx),
	}
	obs.Keystrokes, obs.MouseClicks = t.inputCounts(ctx)
	return obs, true, nil
}

// inputCounts returns keystrokes and clicks since the previous tick.
func (t *Tracker) inputCounts(ctx context.Context) (keystrokes, clicks int) {
	if t.input == nil {
		return 0, 0
	}
	result, err := t.input.Capture(ctx)
	if err != nil {
		metrics.RecordCaptureError(t.input.Name())
		t.logger.Debug("input capture failed", zap.Error(err))
		return 0, 0
	}
	keystrokes, _ = strconv.Atoi(result.Metadata["keystrokes"])
	clicks, _ = strconv.Atoi(result.Metadata["mouse_clicks"])
	return keystrokes, clicks
}

// isIdle reports the idle capturer's verdict; a failed probe counts as active.
func (t *Tracker) isIdle(ctx context.Context) bool {
	if t.idle == nil {
		return false
	}
	result, err := t.idle.Capture(ctx)
	if err != nil {
		metrics.RecordCaptureError(t.idle.Name())
		t.logger.Debug("idle capture failed", zap.Error(err))
		return false
	}
	return result.Metadata["is_idle"] == "true"
}

func (t *Tracker) save(ctx context.Context, rec activity.Record) error {
	if err := t.sink.SaveRecords(ctx, []activity.Record{rec}); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	metrics.RecordFlushed(rec.End())
	t.logger.Debug("record saved",
		zap.String("app", rec.AppName),
		zap.Duration("duration", rec.Duration),
		zap.Bool("idle", rec.IsIdle),
		zap.Float64("focus", rec.FocusScore))
	return nil
}
