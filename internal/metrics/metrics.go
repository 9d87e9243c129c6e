// Package metrics exposes Prometheus collectors for the tracker and the
// insight engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cadence"

var (
	observationsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "observations_total",
		Help:      "Number of window observations fed to the segmenter.",
	})

	skippedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "observations_skipped_total",
		Help:      "Number of ticks skipped, grouped by reason.",
	}, []string{"reason"})

	recordsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "records_flushed_total",
		Help:      "Number of activity records flushed by the segmenter.",
	})

	captureErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "capture_errors_total",
		Help:      "Number of failed captures grouped by source.",
	}, []string{"source"})

	lastRecordGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "last_record_timestamp_seconds",
		Help:      "Unix timestamp of the most recently persisted record.",
	})

	analysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "insights",
		Name:      "analysis_duration_seconds",
		Help:      "Time spent in each analysis procedure.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"procedure"})

	emittedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "insights",
		Name:      "emitted_total",
		Help:      "Number of patterns, habits, cycles and blocks emitted per procedure.",
	}, []string{"procedure"})
)

func init() {
	prometheus.MustRegister(
		observationsCounter,
		skippedCounter,
		recordsCounter,
		captureErrorCounter,
		lastRecordGauge,
		analysisDuration,
		emittedCounter,
	)
}

// RecordObservation counts one observation fed to the segmenter.
func RecordObservation() {
	observationsCounter.Inc()
}

// RecordSkipped counts a tick that produced no observation.
func RecordSkipped(reason string) {
	skippedCounter.WithLabelValues(reason).Inc()
}

// RecordFlushed counts a persisted record and advances the watermark gauge.
func RecordFlushed(ts time.Time) {
	recordsCounter.Inc()
	if !ts.IsZero() {
		lastRecordGauge.Set(float64(ts.Unix()))
	}
}

// RecordCaptureError counts a failed capture from source.
func RecordCaptureError(source string) {
	captureErrorCounter.WithLabelValues(source).Inc()
}

// ObserveAnalysis records the latency and output size of one procedure.
func ObserveAnalysis(procedure string, elapsed time.Duration, emitted int) {
	analysisDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
	emittedCounter.WithLabelValues(procedure).Add(float64(emitted))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
