package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.True(t, cfg.IsStaging)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, BackendHTTP, cfg.AIBackend)
	assert.Equal(t, "http://localhost:8000/ai", cfg.AIServiceURL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 120*time.Second, cfg.AITimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, int64(2<<20), cfg.MaxTextBytes)
	assert.Equal(t, 5, cfg.RateLimitCapacity)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Contains(t, cfg.CORSOrigins, "http://localhost:5173")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("PORT", "8080")
	t.Setenv("AI_BACKEND", "mock")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_CAPACITY", "9")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMock, cfg.AIBackend)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, 9, cfg.RateLimitCapacity)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	path := filepath.Join(t.TempDir(), "neuraflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\ndb_driver: mysql\n"), 0o600))

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad app env", env: map[string]string{"APP_ENV": "dev"}},
		{name: "production without secret", env: map[string]string{"APP_ENV": "production"}},
		{name: "unknown driver", env: map[string]string{"APP_ENV": "staging", "DB_DRIVER": "oracle"}},
		{name: "unknown backend", env: map[string]string{"APP_ENV": "staging", "AI_BACKEND": "openai"}},
		{name: "gemini without key", env: map[string]string{"APP_ENV": "staging", "AI_BACKEND": "gemini"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(nil, "")
			assert.Error(t, err)
		})
	}
}
