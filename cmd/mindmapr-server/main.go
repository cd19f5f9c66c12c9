package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/mindmapr/pkg/api"
	"github.com/dd0wney/mindmapr/pkg/api/middleware"
	"github.com/dd0wney/mindmapr/pkg/auth"
	"github.com/dd0wney/mindmapr/pkg/config"
	"github.com/dd0wney/mindmapr/pkg/logging"
	"github.com/dd0wney/mindmapr/pkg/metrics"
	"github.com/dd0wney/mindmapr/pkg/mindmap"
	"github.com/dd0wney/mindmapr/pkg/server"
	"github.com/dd0wney/mindmapr/pkg/suggest"
)

var version = "dev" // Set via -ldflags at build time

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "Override server port")
	dataDir := flag.String("data", "", "Override data directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	if err := run(cfg, *configPath, logger); err != nil {
		logger.Error("server exited", logging.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, logger logging.Logger) error {
	logger.Info("starting mindmapr",
		logging.String("version", version),
		logging.String("backend", cfg.Storage.Backend),
		logging.Int("port", cfg.Server.Port))

	store, cleanup, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer cleanup()

	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret,
		cfg.Auth.TokenDuration, cfg.Auth.RefreshDuration)
	if err != nil {
		return fmt.Errorf("failed to build jwt manager: %w", err)
	}

	userStore := auth.NewUserStore()
	if cfg.Storage.DataDir != "" {
		if err := userStore.LoadUsers(cfg.Storage.DataDir); err != nil {
			logger.Warn("could not load users, starting fresh", logging.Error(err))
		}
	}

	apiServer, err := api.NewServer(store, userStore, jwtManager, api.Options{
		Port:    cfg.Server.Port,
		DataDir: cfg.Storage.DataDir,
		Version: version,
		CORS: &middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		RateLimit: &middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Server.RateLimitRPS,
			BurstSize:         cfg.Server.RateLimitBurst,
			CleanupInterval:   5 * time.Minute,
			ClientExpiration:  10 * time.Minute,
			MaxClients:        100000,
		},
		SuggestProvider: buildSuggestProvider(cfg),
		Metrics:         metrics.DefaultRegistry(),
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build api server: %w", err)
	}

	gs := server.NewGracefulServer(apiServer.HTTPServer(), logger)
	gs.OnShutdown(apiServer.Close)
	gs.SetConfigReloadFunc(func() error {
		reloaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if l, ok := logger.(*logging.JSONLogger); ok {
			l.SetLevel(logging.ParseLevel(reloaded.Logging.Level))
		}
		return nil
	})

	return gs.Start()
}

func openStore(cfg *config.Config) (mindmap.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := mindmap.NewPGStore(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		store, err := mindmap.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func buildSuggestProvider(cfg *config.Config) suggest.Provider {
	if cfg.Suggest.Provider == "openai" {
		return suggest.NewOpenAIProvider(suggest.OpenAIConfig{
			APIKey:  cfg.Suggest.OpenAIKey,
			Model:   cfg.Suggest.OpenAIModel,
			BaseURL: cfg.Suggest.OpenAIURL,
		})
	}
	return suggest.NewOfflineProvider()
}
