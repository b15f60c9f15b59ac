package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfigFile(t, `
app_name: pos-test
environment: production
host: 127.0.0.1
port: 8080
logger:
  level: debug
  format: json
data:
  mongodb:
    uri: mongodb://db:27017
    database: pos_test
auth:
  jwt:
    secret: file-secret
    expire: 30m
  limiter:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pos-test", cfg.AppName)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "mongodb://db:27017", cfg.Data.MongoDB.URI)
	assert.Equal(t, "pos_test", cfg.Data.MongoDB.Database)
	assert.Equal(t, "file-secret", cfg.Auth.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.JWT.Expire)
	assert.False(t, cfg.Auth.Limiter.Enabled)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  jwt:
    secret: minimal-secret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pos-system", cfg.AppName)
	assert.False(t, cfg.IsProd())
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Data.MongoDB.URI)
	assert.Equal(t, time.Hour, cfg.Auth.JWT.Expire)
	assert.True(t, cfg.Auth.Limiter.Enabled)
	assert.Equal(t, 0.2, cfg.Auth.Limiter.RPS)
	assert.Equal(t, 10, cfg.Auth.Limiter.Burst)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_JWT_SECRET", "env-secret")

	path := writeConfigFile(t, `
port: 8080
auth:
  jwt:
    secret: file-secret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port, "environment beats the file")
	assert.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
}

func TestLoadConfig_SecretRequired(t *testing.T) {
	path := writeConfigFile(t, `
port: 8080
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt.secret")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}
