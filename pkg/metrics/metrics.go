package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

// IncHTTPRequestsInFlight increments the in-flight request gauge
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight request gauge
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordStoreOperation records a store operation
func (r *Registry) RecordStoreOperation(operation, status string, duration time.Duration) {
	r.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	r.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateStoreCounts updates the map/node/edge gauges
func (r *Registry) UpdateStoreCounts(maps, nodes, edges int) {
	r.StoreMapsTotal.Set(float64(maps))
	r.StoreNodesTotal.Set(float64(nodes))
	r.StoreEdgesTotal.Set(float64(edges))
}

// RecordAuthAttempt records an authentication attempt
func (r *Registry) RecordAuthAttempt(kind string, success bool) {
	status := "success"
	if !success {
		status = "failure"
		r.AuthFailuresTotal.Inc()
	}
	r.AuthAttemptsTotal.WithLabelValues(kind, status).Inc()
}

// RecordTokenIssued records a JWT token issuance
func (r *Registry) RecordTokenIssued(kind string) {
	r.TokensIssuedTotal.WithLabelValues(kind).Inc()
}

// RecordSuggestRequest records an AI suggestion request
func (r *Registry) RecordSuggestRequest(provider, status string, duration time.Duration) {
	r.SuggestRequestsTotal.WithLabelValues(provider, status).Inc()
	r.SuggestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordEventPublished records a published map change event
func (r *Registry) RecordEventPublished(kind string) {
	r.EventsPublishedTotal.WithLabelValues(kind).Inc()
}

// UpdateSystemMetrics refreshes runtime gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}
