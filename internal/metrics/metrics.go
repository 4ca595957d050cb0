package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ugcgo"

// Metrics holds the service collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry      *prometheus.Registry
	decisions     *prometheus.CounterVec
	giftGranted   prometheus.Counter
	giftConsumed  prometheus.Counter
	storeDuration *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_decisions_total",
			Help:      "Video creation decisions by result and reason code.",
		}, []string{"result", "code"}),
		giftGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gift_credits_granted_total",
			Help:      "Gift credits granted by administrators.",
		}),
		giftConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gift_credits_consumed_total",
			Help:      "Gift credits consumed by video creation.",
		}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_request_duration_seconds",
			Help:      "Latency of data store calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.decisions,
		m.giftGranted,
		m.giftConsumed,
		m.storeDuration,
		m.httpRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveDecision counts an allow/deny decision. code is empty for grants.
func (m *Metrics) ObserveDecision(allowed bool, code string) {
	if m == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.decisions.WithLabelValues(result, code).Inc()
}

func (m *Metrics) AddGiftGranted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.giftGranted.Add(float64(n))
}

func (m *Metrics) AddGiftConsumed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.giftConsumed.Add(float64(n))
}

func (m *Metrics) ObserveStoreRequest(op string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
