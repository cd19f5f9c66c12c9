package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEventMetrics() {
	r.EventSubscribers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mindmapr_event_subscribers",
			Help: "Current number of event stream subscribers",
		},
	)

	r.EventsPublishedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmapr_events_published_total",
			Help: "Total number of map change events published",
		},
		[]string{"kind"},
	)
}
