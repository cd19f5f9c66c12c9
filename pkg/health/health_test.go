package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

func TestCheckAllHealthy(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("store", func() Check {
		return Check{Name: "store", Status: StatusHealthy}
	})
	hc.RegisterCheck("auth", func() Check {
		return Check{Name: "auth", Status: StatusHealthy}
	})

	resp := hc.Check()
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestWorstStatusWins(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("ok", func() Check {
		return Check{Name: "ok", Status: StatusHealthy}
	})
	hc.RegisterCheck("slow", func() Check {
		return Check{Name: "slow", Status: StatusDegraded}
	})

	assert.Equal(t, StatusDegraded, hc.Check().Status)

	hc.RegisterCheck("down", func() Check {
		return Check{Name: "down", Status: StatusUnhealthy}
	})
	assert.Equal(t, StatusUnhealthy, hc.Check().Status)
}

func TestHTTPHandler(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("store", func() Check {
		return Check{Name: "store", Status: StatusHealthy, Message: "Store responding"}
	})

	rec := httptest.NewRecorder()
	hc.HTTPHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "Store responding", resp.Checks["store"].Message)
}

func TestHTTPHandlerUnhealthy(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("store", func() Check {
		return Check{Name: "store", Status: StatusUnhealthy}
	})

	rec := httptest.NewRecorder()
	hc.HTTPHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadinessAndLiveness(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterReadinessCheck("store", func() Check {
		return Check{Name: "store", Status: StatusUnhealthy}
	})
	hc.RegisterLivenessCheck("process", func() Check {
		return SimpleCheck("process")
	})

	rec := httptest.NewRecorder()
	hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	hc.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStoreCheck(t *testing.T) {
	store, err := mindmap.NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	check := StoreCheck(store)()
	assert.Equal(t, StatusHealthy, check.Status)
	assert.Equal(t, 0, check.Details["maps"])
}

func TestDatabaseCheck(t *testing.T) {
	check := DatabaseCheck(func() error { return nil })()
	assert.Equal(t, StatusHealthy, check.Status)

	check = DatabaseCheck(func() error { return errors.New("connection refused") })()
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.Equal(t, "connection refused", check.Message)
}

func TestMemoryCheck(t *testing.T) {
	check := MemoryCheck(func() (uint64, uint64) { return 10, 100 })()
	assert.Equal(t, StatusHealthy, check.Status)

	check = MemoryCheck(func() (uint64, uint64) { return 95, 100 })()
	assert.Equal(t, StatusDegraded, check.Status)
}
