package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metricsはアプリ全体のPrometheusコレクタ
type Metrics struct {
	HTTPRequestsTotal         *prometheus.CounterVec
	HTTPRequestDuration       *prometheus.HistogramVec
	AuthEventsTotal           *prometheus.CounterVec
	RefreshTokensCleanedTotal prometheus.Counter
}

// regにはテストで新しいRegistryを渡す
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_events_total",
				Help: "Authentication events by type and outcome.",
			},
			[]string{"event", "outcome"},
		),
		RefreshTokensCleanedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "refresh_tokens_cleanup_deleted_total",
				Help: "Expired refresh tokens removed by the cleanup worker.",
			},
		),
	}
}

// login/refresh/logoutなどの結果を数える。mがnilなら何もしない
func (m *Metrics) AuthEvent(event string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}
