package resources

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Metrics counts lookups served by Cached.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics registers the cache metrics with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "esqlc",
			Name:      "resource_requests_total",
			Help:      "Total number of resource lookups by resource and cache result.",
		}, []string{"resource", "result"}),
	}
}

func (m *Metrics) observe(resource, result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, result).Inc()
}
