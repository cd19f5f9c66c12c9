package health

import (
	"encoding/json"
	"net/http"
)

// HTTPHandler serves the full health report. Degraded still answers
// 200 so load balancers keep routing while operators investigate.
func (hc *HealthChecker) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := hc.Check()

		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeResponse(w, status, response)
	}
}

// ReadinessHandler answers 200 only when every readiness check is
// fully healthy; anything less and the instance should get no traffic
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return binaryHandler(hc.CheckReadiness)
}

// LivenessHandler answers 200 only when the process itself is sound
func (hc *HealthChecker) LivenessHandler() http.HandlerFunc {
	return binaryHandler(hc.CheckLiveness)
}

func binaryHandler(run func() Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := run()

		status := http.StatusServiceUnavailable
		if response.Status == StatusHealthy {
			status = http.StatusOK
		}
		writeResponse(w, status, response)
	}
}

func writeResponse(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
