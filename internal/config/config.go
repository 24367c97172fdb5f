package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMongo    = "mongo"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort        string
	TerminalID      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	APIURL          string
	BackendTimeout  time.Duration
	DefaultWaiterID string
	JWTSecret       string

	StorageDriver  string
	PersistTimeout time.Duration
	SQLitePath     string
	Postgres       PostgresConfig
	RedisAddr      string
	RedisPassword  string
	MongoURI       string
	MongoDBName    string
	MongoStateTTL  time.Duration

	KafkaBrokers []string
	OrdersTopic  string
	ResetTopic   string

	LogLevel       string
	LogDevelopment bool
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Load reads the environment, after merging an optional .env file into it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		TerminalID:      getEnv("TERMINAL_ID", "terminal-1"),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),

		APIURL:          strings.TrimRight(getEnv("API_URL", "http://localhost:8000/api"), "/"),
		BackendTimeout:  getDurationEnv("BACKEND_TIMEOUT", 10*time.Second),
		DefaultWaiterID: getEnv("DEFAULT_WAITER_ID", "Admin Kasir"),
		JWTSecret:       getEnv("JWT_SECRET", ""),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", StorageSQLite)),
		PersistTimeout: getDurationEnv("PERSIST_TIMEOUT", time.Second),
		SQLitePath:     getEnv("SQLITE_PATH", "pos-terminal.db"),
		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "pos"),
		},
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "pos"),
		MongoStateTTL: getDurationEnv("MONGO_STATE_TTL", 0),

		KafkaBrokers: getListEnv("KAFKA_BROKERS"),
		OrdersTopic:  getEnv("KAFKA_ORDERS_TOPIC", "pos-orders"),
		ResetTopic:   getEnv("KAFKA_RESET_TOPIC", "pos-order-resets"),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDevelopment: getEnv("LOG_DEVELOPMENT", "false") == "true",
	}

	switch cfg.StorageDriver {
	case StorageSQLite, StoragePostgres, StorageRedis, StorageMongo, StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("5s") and falls back on anything unparsable or non-positive.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
