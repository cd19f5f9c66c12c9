package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStoreMetrics() {
	r.StoreMapsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mindmapr_store_maps_total",
			Help: "Current number of mind maps in the store",
		},
	)

	r.StoreNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mindmapr_store_nodes_total",
			Help: "Current number of nodes across all maps",
		},
	)

	r.StoreEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mindmapr_store_edges_total",
			Help: "Current number of edges across all maps",
		},
	)

	r.StoreOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmapr_store_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "status"},
	)

	r.StoreOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindmapr_store_operation_duration_seconds",
			Help:    "Store operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	r.StoreSnapshotsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmapr_store_snapshots_total",
			Help: "Total number of map snapshots written",
		},
		[]string{"status"},
	)
}
