package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration, loaded from YAML with
// MINDMAPR_* environment overrides applied on top
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Suggest SuggestConfig `yaml:"suggest"`
	CORS    CORSConfig    `yaml:"cors"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
}

type StorageConfig struct {
	// Backend selects the store: "file" or "postgres"
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir"`
	DatabaseURL string `yaml:"database_url"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenDuration   time.Duration `yaml:"token_duration"`
	RefreshDuration time.Duration `yaml:"refresh_duration"`
}

type SuggestConfig struct {
	// Provider is "offline" or "openai"
	Provider    string `yaml:"provider"`
	OpenAIKey   string `yaml:"openai_key"`
	OpenAIModel string `yaml:"openai_model"`
	OpenAIURL   string `yaml:"openai_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  200,
		},
		Storage: StorageConfig{
			Backend: "file",
			DataDir: "./data/mindmapr",
		},
		Auth: AuthConfig{
			TokenDuration:   15 * time.Minute,
			RefreshDuration: 7 * 24 * time.Hour,
		},
		Suggest: SuggestConfig{
			Provider: "offline",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path (if non-empty), then applies
// environment overrides, then validates
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MINDMAPR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MINDMAPR_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("MINDMAPR_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("MINDMAPR_DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
	}
	if v := os.Getenv("MINDMAPR_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("MINDMAPR_SUGGEST_PROVIDER"); v != "" {
		c.Suggest.Provider = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Suggest.OpenAIKey == "" {
		c.Suggest.OpenAIKey = v
	}
	if v := os.Getenv("MINDMAPR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks cross-field constraints before the server starts
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.DataDir == "" {
			return fmt.Errorf("file storage requires data_dir")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("postgres storage requires database_url")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required (set MINDMAPR_JWT_SECRET)")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters")
	}
	if c.Auth.TokenDuration <= 0 || c.Auth.RefreshDuration <= 0 {
		return fmt.Errorf("token durations must be positive")
	}

	switch c.Suggest.Provider {
	case "offline":
	case "openai":
		if c.Suggest.OpenAIKey == "" {
			return fmt.Errorf("openai provider requires openai_key (or OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown suggest provider: %q", c.Suggest.Provider)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Logging.Level)
	}

	return nil
}
