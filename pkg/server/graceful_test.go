package server

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *GracefulServer {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return NewGracefulServer(&http.Server{Addr: ":0", Handler: handler}, nil)
}

func TestGracefulServer_ShutdownIdempotent(t *testing.T) {
	gs := testServer()

	go func() {
		_ = gs.Start()
	}()
	time.Sleep(50 * time.Millisecond)

	require.False(t, gs.IsShuttingDown())
	require.NoError(t, gs.Shutdown(time.Second))
	assert.True(t, gs.IsShuttingDown())

	// Second call is a no-op
	require.NoError(t, gs.Shutdown(time.Second))

	select {
	case <-gs.ShutdownChannel():
	default:
		t.Fatal("shutdown channel should be closed")
	}
}

func TestGracefulServer_ShutdownHooksRunInOrder(t *testing.T) {
	gs := testServer()

	var order []string
	gs.OnShutdown(func() { order = append(order, "broker") })
	gs.OnShutdown(func() { order = append(order, "store") })

	require.NoError(t, gs.Shutdown(time.Second))
	assert.Equal(t, []string{"broker", "store"}, order)

	// Hooks do not run twice
	require.NoError(t, gs.Shutdown(time.Second))
	assert.Len(t, order, 2)
}

func TestGracefulServer_ReloadConfig(t *testing.T) {
	gs := testServer()

	reloadCalled := false
	gs.SetConfigReloadFunc(func() error {
		reloadCalled = true
		return nil
	})

	require.NoError(t, gs.ReloadConfig())
	assert.True(t, reloadCalled)
}

func TestGracefulServer_ReloadConfigError(t *testing.T) {
	gs := testServer()

	wantErr := errors.New("bad config")
	gs.SetConfigReloadFunc(func() error { return wantErr })

	assert.ErrorIs(t, gs.ReloadConfig(), wantErr)
}

func TestGracefulServer_ReloadConfigWithoutFunc(t *testing.T) {
	gs := testServer()
	assert.NoError(t, gs.ReloadConfig())
}
