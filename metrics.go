package shapewaysbridge

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus metrics for dispatched requests and
// authentication. A nil *Metrics records nothing. It is safe for concurrent use.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	rateLimitedTotal *prometheus.CounterVec
	transportErrors  *prometheus.CounterVec
	quotaRemaining   prometheus.Gauge
	authTotal        *prometheus.CounterVec
}

// NewMetrics creates a collector on the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a collector using the supplied registerer.
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	return &Metrics{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "shapeways_requests_total",
				Help: "Total number of dispatched API requests by outcome",
			},
			[]string{"method", "status_code", "outcome"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shapeways_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		rateLimitedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "shapeways_rate_limited_total",
				Help: "Total number of 429 responses by limiting authority",
			},
			[]string{"authority"},
		),
		transportErrors: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "shapeways_transport_errors_total",
				Help: "Total number of requests that failed below HTTP",
			},
			[]string{"method"},
		),
		quotaRemaining: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "shapeways_rate_limit_remaining",
				Help: "Remaining request quota reported by the last response",
			},
		),
		authTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "shapeways_authentications_total",
				Help: "Total number of client-credentials exchanges by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) observeResult(method string, res *Result, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(res.StatusCode), res.Outcome.String()).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
	if res.RateLimit.IsRateLimited {
		m.rateLimitedTotal.WithLabelValues(string(res.RateLimit.Authority)).Inc()
	}
	if res.RateLimit.Remaining != nil {
		m.quotaRemaining.Set(float64(*res.RateLimit.Remaining))
	}
}

func (m *Metrics) observeTransportError(method string) {
	if m == nil {
		return
	}
	m.transportErrors.WithLabelValues(method).Inc()
}

func (m *Metrics) observeAuth(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.authTotal.WithLabelValues(result).Inc()
}
