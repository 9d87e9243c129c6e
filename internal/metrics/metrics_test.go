package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFlushed(t *testing.T) {
	before := testutil.ToFloat64(recordsCounter)
	ts := time.Unix(1_700_000_000, 0)

	RecordFlushed(ts)

	assert.Equal(t, before+1, testutil.ToFloat64(recordsCounter))
	assert.Equal(t, float64(ts.Unix()), testutil.ToFloat64(lastRecordGauge))
}

func TestObserveAnalysis(t *testing.T) {
	before := testutil.ToFloat64(emittedCounter.WithLabelValues("habits"))

	ObserveAnalysis("habits", 3*time.Millisecond, 4)

	assert.Equal(t, before+4, testutil.ToFloat64(emittedCounter.WithLabelValues("habits")))
}

func TestRecordSkipped(t *testing.T) {
	RecordSkipped("blocked")
	RecordSkipped("blocked")

	assert.GreaterOrEqual(t, testutil.ToFloat64(skippedCounter.WithLabelValues("blocked")), 2.0)
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordObservation()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cadence_tracker_observations_total")
}
