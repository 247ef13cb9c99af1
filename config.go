package main

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/task-tracker/modules/account"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/storage"
	"github.com/example/task-tracker/modules/timetracking"
	"github.com/joho/godotenv"
)

const devSecretKey = "dev-secret-change-in-production"

// Config is the process configuration, read from the environment.
type Config struct {
	Storage      storage.Config
	API          api.Config
	Cache        timetracking.CacheConfig
	BcryptCost   int
	ActivityCap  int
	ShutdownWait time.Duration
}

// loadDotEnv loads .env into the environment when the file exists.
// Variables already set win over the file.
func loadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}
}

func loadConfig() Config {
	cfg := Config{
		Storage: storage.Config{
			Driver: getEnv("DB_DRIVER", storage.DriverSQLite),
			DSN:    getEnv("DB_DSN", "tasks.db"),
			Debug:  getEnvBool("DB_DEBUG", false),
		},
		API: api.Config{
			Port:        getEnvInt("HTTP_PORT", 3000),
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
			Tokens: api.TokenConfig{
				SecretKey: getEnv("JWT_SECRET_KEY", devSecretKey),
				Issuer:    getEnv("JWT_ISSUER", "task-tracker"),
				AccessTTL: getEnvDuration("JWT_ACCESS_TTL", 7*24*time.Hour),
			},
		},
		Cache: timetracking.CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			Prefix:    getEnv("CACHE_PREFIX", "summary:"),
			TTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		BcryptCost:   getEnvInt("BCRYPT_COST", account.DefaultBcryptCost),
		ActivityCap:  getEnvInt("ACTIVITY_CAPACITY", 100),
		ShutdownWait: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
	if cfg.API.Tokens.SecretKey == devSecretKey {
		log.Println("Warning: JWT_SECRET_KEY not set, using the development secret")
	}
	return cfg
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
