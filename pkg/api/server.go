package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/mindmapr/pkg/api/middleware"
	"github.com/dd0wney/mindmapr/pkg/auth"
	"github.com/dd0wney/mindmapr/pkg/events"
	gql "github.com/dd0wney/mindmapr/pkg/graphql"
	"github.com/dd0wney/mindmapr/pkg/health"
	"github.com/dd0wney/mindmapr/pkg/logging"
	"github.com/dd0wney/mindmapr/pkg/metrics"
	"github.com/dd0wney/mindmapr/pkg/mindmap"
	"github.com/dd0wney/mindmapr/pkg/search"
	"github.com/dd0wney/mindmapr/pkg/suggest"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Options configures the API server
type Options struct {
	Port            int
	DataDir         string // Directory for users.json persistence
	Version         string
	CORS            *middleware.CORSConfig
	RateLimit       *middleware.RateLimitConfig // nil disables general limiting
	SuggestProvider suggest.Provider
	Metrics         *metrics.Registry
	Logger          logging.Logger
}

// Server is the HTTP API server
type Server struct {
	store           mindmap.Store
	userStore       *auth.UserStore
	jwtManager      *auth.JWTManager
	authHandler     *auth.Handler
	broker          *events.Broker
	searchIndex     *search.Index
	suggestProvider suggest.Provider
	graphqlHandler  *gql.Handler
	healthChecker   *health.HealthChecker
	metrics         *metrics.Registry
	rateLimiter     *middleware.RateLimiter
	authRateLimiter *middleware.RateLimiter
	corsConfig      *middleware.CORSConfig
	logger          logging.Logger
	startTime       time.Time
	version         string
	port            int
}

// NewServer wires the API server. The search index is warmed lazily:
// maps are indexed as they are read or mutated.
func NewServer(store mindmap.Store, userStore *auth.UserStore, jwtManager *auth.JWTManager, opts Options) (*Server, error) {
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logging.DefaultLogger()
	}
	if opts.SuggestProvider == nil {
		opts.SuggestProvider = suggest.NewOfflineProvider()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	schema, err := gql.NewSchema(store)
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql schema: %w", err)
	}

	s := &Server{
		store:           store,
		userStore:       userStore,
		jwtManager:      jwtManager,
		authHandler:     auth.NewHandler(userStore, jwtManager, opts.DataDir, opts.Metrics),
		broker:          events.NewBroker(opts.Metrics),
		searchIndex:     search.NewIndex(),
		suggestProvider: opts.SuggestProvider,
		graphqlHandler:  gql.NewHandler(schema),
		healthChecker:   health.NewHealthChecker(),
		metrics:         opts.Metrics,
		authRateLimiter: middleware.NewRateLimiter(middleware.AuthRateLimitConfig()),
		corsConfig:      opts.CORS,
		logger:          opts.Logger,
		startTime:       time.Now(),
		version:         opts.Version,
		port:            opts.Port,
	}

	if opts.RateLimit != nil {
		s.rateLimiter = middleware.NewRateLimiter(opts.RateLimit)
	}
	if opts.CORS == nil {
		s.corsConfig = middleware.DefaultCORSConfig()
	}

	s.healthChecker.RegisterCheck("store", health.StoreCheck(store))
	s.healthChecker.RegisterReadinessCheck("store", health.StoreCheck(store))
	s.healthChecker.RegisterLivenessCheck("process", func() health.Check {
		return health.SimpleCheck("process")
	})

	return s, nil
}

// Handler builds the routed and middleware-wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/auth/", s.authRateLimit(s.authHandler))

	mux.HandleFunc("/maps", s.requireAuth(s.handleMaps))
	mux.HandleFunc("/maps/", s.requireAuth(s.handleMapSubtree))
	mux.HandleFunc("/search", s.requireAuth(s.handleSearch))
	mux.HandleFunc("/graphql", s.requireAuth(s.handleGraphQL))
	mux.HandleFunc("/stats", s.requireAuth(s.handleStats))

	mux.HandleFunc("/health", s.healthChecker.HTTPHandler())
	mux.HandleFunc("/health/ready", s.healthChecker.ReadinessHandler())
	mux.HandleFunc("/health/live", s.healthChecker.LivenessHandler())
	// Runtime gauges are refreshed at scrape time
	metricsHandler := promhttp.HandlerFor(
		s.metrics.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	)
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		s.metrics.UpdateSystemMetrics(s.startTime)
		metricsHandler.ServeHTTP(w, r)
	})

	var handler http.Handler = mux
	handler = middleware.BodyLimit(maxRequestBody)(handler)
	handler = s.generalRateLimit(handler)
	handler = middleware.Metrics(s.metrics)(handler)
	handler = middleware.CORS(s.corsConfig)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.PanicRecovery(s.logger)(handler)
	return handler
}

// HTTPServer builds the http.Server with production timeouts
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
		IdleTimeout:  60 * time.Second,
	}
}

// Close releases server resources
func (s *Server) Close() {
	s.broker.Shutdown()
	s.authRateLimiter.Stop()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// Broker exposes the event broker for components that publish outside
// the HTTP path
func (s *Server) Broker() *events.Broker {
	return s.broker
}
