package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vytor/mathadventures/internal/logger"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	HistoryBackend     string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RulesPath          string
	PersistWorkerCount int
	PersistQueueSize   int
	CORSAllowedOrigins []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:mathadventures.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		HistoryBackend:     strings.ToLower(envOr("HISTORY_BACKEND", BackendSQLite)),
		RedisAddr:          envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envIntOr("REDIS_DB", 0),
		RulesPath:          os.Getenv("RULES_PATH"),
		PersistWorkerCount: envIntOr("PERSIST_WORKER_COUNT", 1),
		PersistQueueSize:   envIntOr("PERSIST_QUEUE_SIZE", 64),
		CORSAllowedOrigins: envListOr("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	switch c.HistoryBackend {
	case BackendSQLite:
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			problems = append(problems, "REDIS_ADDR cannot be empty when HISTORY_BACKEND=redis")
		}
		if c.RedisDB < 0 {
			problems = append(problems, "REDIS_DB must be >= 0")
		}
	default:
		problems = append(problems, fmt.Sprintf("HISTORY_BACKEND must be %q or %q (got %q)", BackendSQLite, BackendRedis, c.HistoryBackend))
	}
	if c.PersistWorkerCount < 1 {
		problems = append(problems, "PERSIST_WORKER_COUNT must be at least 1")
	}
	if c.PersistQueueSize < 1 {
		problems = append(problems, "PERSIST_QUEUE_SIZE must be at least 1")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
