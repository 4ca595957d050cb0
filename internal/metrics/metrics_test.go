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

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveDecision(true, "")
	m.ObserveDecision(false, "MONTHLY_LIMIT_REACHED")
	m.ObserveDecision(false, "MONTHLY_LIMIT_REACHED")
	m.AddGiftGranted(5)
	m.AddGiftConsumed(2)
	m.AddGiftConsumed(-1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("allowed", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("denied", "MONTHLY_LIMIT_REACHED")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.giftGranted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.giftConsumed))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveStoreRequest("count_videos", 30*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/subscription/plans", http.StatusOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ugcgo_store_request_duration_seconds_count{op="count_videos"} 1`)
	assert.Contains(t, body, `ugcgo_http_requests_total{method="GET",route="/api/subscription/plans",status="200"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDecision(true, "")
		m.AddGiftGranted(1)
		m.AddGiftConsumed(1)
		m.ObserveStoreRequest("x", time.Second)
		m.ObserveHTTPRequest("GET", "/", 200)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
