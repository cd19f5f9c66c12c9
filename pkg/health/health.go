package health

import (
	"time"
)

// NewHealthChecker returns a checker with empty registries
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks:      make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		liveChecks:  make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a check to the /health set
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
}

// RegisterReadinessCheck adds a check that gates traffic admission
func (hc *HealthChecker) RegisterReadinessCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.readyChecks[name] = check
}

// RegisterLivenessCheck adds a check that gates process restarts
func (hc *HealthChecker) RegisterLivenessCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.liveChecks[name] = check
}

// Check runs the full health set
func (hc *HealthChecker) Check() Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return runChecks(hc.checks)
}

// CheckReadiness runs only the readiness set
func (hc *HealthChecker) CheckReadiness() Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return runChecks(hc.readyChecks)
}

// CheckLiveness runs only the liveness set
func (hc *HealthChecker) CheckLiveness() Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return runChecks(hc.liveChecks)
}

func runChecks(set map[string]CheckFunc) Response {
	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(set)),
	}

	for name, probe := range set {
		start := time.Now()
		check := probe()
		check.Duration = time.Since(start)
		check.LastChecked = start

		response.Checks[name] = check
		if check.Status.rank() > response.Status.rank() {
			response.Status = check.Status
		}
	}

	return response
}
