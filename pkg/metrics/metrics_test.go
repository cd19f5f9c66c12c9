package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("GET", "/maps", "200", 10*time.Millisecond)
	r.RecordHTTPRequest("GET", "/maps", "200", 20*time.Millisecond)
	r.RecordHTTPRequest("POST", "/maps", "201", 5*time.Millisecond)

	got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/maps", "200"))
	if got != 2 {
		t.Errorf("Expected 2 GET /maps requests, got %v", got)
	}
}

func TestRecordAuthAttempt(t *testing.T) {
	r := NewRegistry()

	r.RecordAuthAttempt("login", true)
	r.RecordAuthAttempt("login", false)
	r.RecordAuthAttempt("login", false)

	failures := testutil.ToFloat64(r.AuthFailuresTotal)
	if failures != 2 {
		t.Errorf("Expected 2 auth failures, got %v", failures)
	}
}

func TestUpdateStoreCounts(t *testing.T) {
	r := NewRegistry()

	r.UpdateStoreCounts(3, 40, 39)

	if got := testutil.ToFloat64(r.StoreMapsTotal); got != 3 {
		t.Errorf("Expected 3 maps, got %v", got)
	}
	if got := testutil.ToFloat64(r.StoreNodesTotal); got != 40 {
		t.Errorf("Expected 40 nodes, got %v", got)
	}
	if got := testutil.ToFloat64(r.StoreEdgesTotal); got != 39 {
		t.Errorf("Expected 39 edges, got %v", got)
	}
}

func TestDefaultRegistrySingleton(t *testing.T) {
	a := DefaultRegistry()
	b := DefaultRegistry()
	if a != b {
		t.Error("DefaultRegistry should return the same instance")
	}
}
