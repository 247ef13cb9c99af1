package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_DSN", "DB_DEBUG", "HTTP_PORT", "JWT_SECRET_KEY", "JWT_ACCESS_TTL", "REDIS_ADDR", "CACHE_TTL", "BCRYPT_COST"} {
		t.Setenv(key, "")
	}

	cfg := loadConfig()
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "tasks.db", cfg.Storage.DSN)
	assert.False(t, cfg.Storage.Debug)
	assert.Equal(t, 3000, cfg.API.Port)
	assert.Equal(t, devSecretKey, cfg.API.Tokens.SecretKey)
	assert.Equal(t, 168*time.Hour, cfg.API.Tokens.AccessTTL)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "host=localhost dbname=tasks")
	t.Setenv("DB_DEBUG", "true")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("BCRYPT_COST", "10")

	cfg := loadConfig()
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "host=localhost dbname=tasks", cfg.Storage.DSN)
	assert.True(t, cfg.Storage.Debug)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, time.Hour, cfg.API.Tokens.AccessTTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestGetEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "soon")

	assert.Equal(t, 7, getEnvInt("TEST_INT", 7))
	assert.True(t, getEnvBool("TEST_BOOL", true))
	assert.Equal(t, time.Minute, getEnvDuration("TEST_DURATION", time.Minute))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TASK_TRACKER_DOTENV_TEST=from-file\nHTTP_PORT=9999\n"), 0o600))
	t.Setenv("HTTP_PORT", "4000")
	t.Setenv("TASK_TRACKER_DOTENV_TEST", "")
	os.Unsetenv("TASK_TRACKER_DOTENV_TEST")

	loadDotEnv(path)
	t.Cleanup(func() { os.Unsetenv("TASK_TRACKER_DOTENV_TEST") })

	assert.Equal(t, "from-file", os.Getenv("TASK_TRACKER_DOTENV_TEST"))
	assert.Equal(t, "4000", os.Getenv("HTTP_PORT"))

	// A missing file is not an error.
	loadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}
