package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSuggestMetrics() {
	r.SuggestRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmapr_suggest_requests_total",
			Help: "Total number of AI suggestion requests",
		},
		[]string{"provider", "status"},
	)

	r.SuggestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindmapr_suggest_duration_seconds",
			Help:    "AI suggestion request latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)
}
