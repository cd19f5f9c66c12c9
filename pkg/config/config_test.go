package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "config-test-secret-with-32-chars!!!"

func validConfig() *Config {
	cfg := Default()
	cfg.Auth.JWTSecret = testSecret
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "offline", cfg.Suggest.Provider)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenDuration)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
  rate_limit_rps: 50
storage:
  backend: file
  data_dir: /var/lib/mindmapr
auth:
  jwt_secret: ` + testSecret + `
  token_duration: 2h
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, float64(50), cfg.Server.RateLimitRPS)
	assert.Equal(t, "/var/lib/mindmapr", cfg.Storage.DataDir)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields keep their defaults
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshDuration)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MINDMAPR_PORT", "7070")
	t.Setenv("MINDMAPR_JWT_SECRET", testSecret)
	t.Setenv("MINDMAPR_DATA_DIR", "/tmp/env-data")
	t.Setenv("MINDMAPR_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/env-data", cfg.Storage.DataDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid port"},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret is required"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "at least 32 characters"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }, "unknown storage backend"},
		{"postgres without url", func(c *Config) {
			c.Storage.Backend = "postgres"
			c.Storage.DatabaseURL = ""
		}, "requires database_url"},
		{"file without dir", func(c *Config) { c.Storage.DataDir = "" }, "requires data_dir"},
		{"openai without key", func(c *Config) { c.Suggest.Provider = "openai" }, "requires openai_key"},
		{"unknown provider", func(c *Config) { c.Suggest.Provider = "oracle" }, "unknown suggest provider"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "unknown log level"},
		{"negative duration", func(c *Config) { c.Auth.TokenDuration = -time.Hour }, "must be positive"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
