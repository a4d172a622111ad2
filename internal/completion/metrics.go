package completion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments Engine.Suggest.
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	returned prometheus.Histogram
}

// NewMetrics registers the engine metrics with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "esqlc",
			Name:      "suggest_requests_total",
			Help:      "Total number of suggestion requests by classified cursor position.",
		}, []string{"position"}),
		duration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "esqlc",
			Name:      "suggest_duration_seconds",
			Help:      "Time spent computing suggestions.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		returned: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "esqlc",
			Name:      "suggestions_returned",
			Help:      "Number of suggestions returned per request.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

func (m *Metrics) observe(kind string, seconds float64, count int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind).Inc()
	m.duration.Observe(seconds)
	m.returned.Observe(float64(count))
}
