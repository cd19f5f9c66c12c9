package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Store Metrics
	StoreMapsTotal         prometheus.Gauge
	StoreNodesTotal        prometheus.Gauge
	StoreEdgesTotal        prometheus.Gauge
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	StoreSnapshotsTotal    *prometheus.CounterVec

	// Auth Metrics
	AuthAttemptsTotal *prometheus.CounterVec
	AuthFailuresTotal prometheus.Counter
	RegisteredUsers   prometheus.Gauge
	TokensIssuedTotal *prometheus.CounterVec

	// Suggestion Metrics
	SuggestRequestsTotal *prometheus.CounterVec
	SuggestDuration      *prometheus.HistogramVec

	// Event Stream Metrics
	EventSubscribers     prometheus.Gauge
	EventsPublishedTotal *prometheus.CounterVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initStoreMetrics()
	r.initAuthMetrics()
	r.initSuggestMetrics()
	r.initEventMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
