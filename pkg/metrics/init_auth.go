package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAuthMetrics() {
	r.AuthAttemptsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmapr_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"kind", "status"},
	)

	r.AuthFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mindmapr_auth_failures_total",
			Help: "Total number of failed authentication attempts",
		},
	)

	r.RegisteredUsers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mindmapr_registered_users",
			Help: "Current number of registered users",
		},
	)

	r.TokensIssuedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmapr_tokens_issued_total",
			Help: "Total number of JWT tokens issued",
		},
		[]string{"kind"},
	)
}
