package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Підтримувані драйвери сховища.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config містить налаштування сервісу, зібрані з оточення.
type Config struct {
	Env      string
	HTTPAddr string
	GinMode  string
	LogLevel string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RelayEnabled     bool
	RelayTopicPrefix string
	RelayQueueSize   int
	RelayBackoff     time.Duration
	RelayMaxAttempts int

	JWTSecret string
	JWTTTL    time.Duration

	RateLimitRPS int
}

// Load reads .env (if present) and the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool, error) {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", DriverPgx)),
		DBDSN:    os.Getenv("DB_DSN"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		RelayEnabled:     getEnvAsBool("RELAY_ENABLED", true),
		RelayTopicPrefix: os.Getenv("RELAY_TOPIC_PREFIX"),
		RelayQueueSize:   getEnvAsInt("RELAY_QUEUE_SIZE", 1024),
		RelayBackoff:     getEnvAsDuration("RELAY_BACKOFF", DefaultRelayBackoff),
		RelayMaxAttempts: getEnvAsInt("RELAY_MAX_ATTEMPTS", 3),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvAsDuration("JWT_TTL", 72*time.Hour),

		RateLimitRPS: getEnvAsInt("RATE_LIMIT_RPS", 0),
	}

	switch cfg.DBDriver {
	case DriverPgx, DriverPostgres:
		if cfg.DBDSN == "" {
			cfg.DBDSN = postgresDSN()
		}
	case DriverSQLite:
		if cfg.DBDSN == "" {
			cfg.DBDSN = "file:talk2me.db?_pragma=foreign_keys(1)"
		}
	default:
		return nil, envLoaded, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			return nil, envLoaded, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.RelayQueueSize <= 0 {
		return nil, envLoaded, fmt.Errorf("RELAY_QUEUE_SIZE must be positive")
	}
	if cfg.RelayMaxAttempts <= 0 {
		cfg.RelayMaxAttempts = 1
	}

	return cfg, envLoaded, nil
}

func postgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("DB_USER", "user"), getEnv("DB_PASSWORD", "password")),
		Host:     fmt.Sprintf("%s:%s", getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432")),
		Path:     getEnv("DB_NAME", "talk2me"),
		RawQuery: "sslmode=" + getEnv("DB_SSLMODE", "disable"),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
