package health

import (
	"context"
	"time"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// Common health check functions

// SimpleCheck creates a health check that always returns healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// StoreCheck reports whether the map store responds to a stats query
func StoreCheck(store mindmap.Store) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "store",
			Details: make(map[string]any),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		stats, err := store.Stats(ctx)
		if err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}

		check.Status = StatusHealthy
		check.Message = "Store responding"
		check.Details["maps"] = stats.Maps
		check.Details["nodes"] = stats.Nodes
		check.Details["edges"] = stats.Edges
		return check
	}
}

// DatabaseCheck creates a health check for database connectivity
func DatabaseCheck(pingFunc func() error) CheckFunc {
	return func() Check {
		check := Check{
			Name: "database",
		}

		if err := pingFunc(); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "Connected"
		}

		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		usagePercent := float64(alloc) / float64(sys) * 100

		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}
