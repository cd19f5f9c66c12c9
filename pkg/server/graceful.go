package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/mindmapr/pkg/logging"
)

// ConfigReloadFunc is called when a SIGHUP requests a config reload
type ConfigReloadFunc func() error

// ShutdownHook runs after the HTTP server has drained, in
// registration order
type ShutdownHook func()

// GracefulServer wraps an HTTP server with signal-driven graceful
// shutdown and config reload
type GracefulServer struct {
	server         *http.Server
	logger         logging.Logger
	shutdownCh     chan struct{}
	shutdownOnce   sync.Once
	configReloadFn ConfigReloadFunc
	hooks          []ShutdownHook
	configMu       sync.RWMutex
}

// NewGracefulServer wraps an existing http.Server. The caller keeps
// control of timeouts; streaming endpoints need WriteTimeout zero.
func NewGracefulServer(srv *http.Server, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &GracefulServer{
		server:     srv,
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Start runs the server until it is shut down. Blocks.
func (gs *GracefulServer) Start() error {
	go gs.handleSignals()

	gs.logger.Info("starting HTTP server", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then runs the shutdown hooks
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown",
			logging.String("timeout", timeout.String()))

		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			gs.logger.Error("shutdown error", logging.Error(shutdownErr))
		}

		for _, hook := range gs.hooks {
			hook()
		}

		gs.logger.Info("server shutdown complete")
	})
	return err
}

// OnShutdown registers a hook to run after the listener has drained.
// Not safe to call after Start.
func (gs *GracefulServer) OnShutdown(hook ShutdownHook) {
	gs.hooks = append(gs.hooks, hook)
}

func (gs *GracefulServer) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGINT, syscall.SIGTERM:
			gs.logger.Info("received shutdown signal",
				logging.String("signal", sig.String()))
			if err := gs.Shutdown(30 * time.Second); err != nil {
				os.Exit(1)
			}
			os.Exit(0)

		case syscall.SIGHUP:
			gs.logger.Info("received SIGHUP, reloading configuration")
			if err := gs.ReloadConfig(); err != nil {
				gs.logger.Error("configuration reload failed", logging.Error(err))
			}
		}
	}
}

// IsShuttingDown reports whether shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetConfigReloadFunc sets the function invoked on SIGHUP
func (gs *GracefulServer) SetConfigReloadFunc(fn ConfigReloadFunc) {
	gs.configMu.Lock()
	defer gs.configMu.Unlock()
	gs.configReloadFn = fn
}

// ReloadConfig triggers a configuration reload
func (gs *GracefulServer) ReloadConfig() error {
	gs.configMu.RLock()
	reloadFn := gs.configReloadFn
	gs.configMu.RUnlock()

	if reloadFn == nil {
		gs.logger.Warn("config reload requested but no reload function configured")
		return nil
	}
	return reloadFn()
}
