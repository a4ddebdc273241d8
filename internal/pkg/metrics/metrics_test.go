package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCounters(t *testing.T) {
	m := New()

	m.ImportCompleted(2, 1, 150*time.Millisecond)
	m.ImportCompleted(5, 0, time.Second)
	m.ImportRejected()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.importRuns.WithLabelValues("completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.importRuns.WithLabelValues("rejected")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.importRows.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.importRows.WithLabelValues("failed")))
}

func TestRequestMetricsAndHandler(t *testing.T) {
	m := New()
	m.RequestStarted()
	m.RequestFinished(http.MethodGet, "/api/donors/:codigo", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.httpInFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/donors/:codigo", "200")))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RequestStarted()
	m.RequestFinished("GET", "/", 200, time.Millisecond)
	m.ImportCompleted(1, 1, time.Millisecond)
	m.ImportRejected()
	assert.Nil(t, m.Registry())
}
