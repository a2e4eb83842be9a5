package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Analytics AnalyticsConfig
	Cleanup   CleanupConfig
	Bloom     BloomConfig
}

type ServerConfig struct {
	Port    string
	BaseURL string
}

type DatabaseConfig struct {
	PrimaryDSN      string
	ReplicaDSNs     []string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	StreamName string
}

type CacheConfig struct {
	TTL     time.Duration
	Timeout time.Duration
}

// RateLimitConfig scopes limiting to the write endpoints; redirects and
// reads are never limited.
type RateLimitConfig struct {
	ShortenRequests    int
	ShortenWindow      time.Duration
	UserCreateRequests int
	UserCreateWindow   time.Duration
}

type AnalyticsConfig struct {
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int
	PollInterval  time.Duration
	BlockTime     time.Duration
}

type CleanupConfig struct {
	Interval time.Duration
	LockTTL  time.Duration
}

type BloomConfig struct {
	Enabled           bool
	Capacity          uint
	FalsePositiveRate float64
}

func Load() (*Config, error) {
	// Load .env if it exists (local dev); deployments inject real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("SERVER_PORT", "8080"),
			BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			PrimaryDSN:      getEnv("DATABASE_URL", ""),
			ReplicaDSNs:     getEnvAsList("DATABASE_REPLICA_URLS"),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			StreamName: getEnv("REDIS_STREAM_NAME", "clicks:stream"),
		},
		Cache: CacheConfig{
			TTL:     getEnvAsDuration("CACHE_TTL", time.Hour),
			Timeout: getEnvAsDuration("CACHE_TIMEOUT", 200*time.Millisecond),
		},
		RateLimit: RateLimitConfig{
			ShortenRequests:    getEnvAsInt("RATE_LIMIT_SHORTEN_REQUESTS", 10),
			ShortenWindow:      getEnvAsDuration("RATE_LIMIT_SHORTEN_WINDOW", time.Minute),
			UserCreateRequests: getEnvAsInt("RATE_LIMIT_USER_CREATE_REQUESTS", 5),
			UserCreateWindow:   getEnvAsDuration("RATE_LIMIT_USER_CREATE_WINDOW", time.Hour),
		},
		Analytics: AnalyticsConfig{
			ConsumerGroup: getEnv("ANALYTICS_CONSUMER_GROUP", "analytics-group"),
			ConsumerName:  getEnv("ANALYTICS_CONSUMER_NAME", "worker-1"),
			BatchSize:     getEnvAsInt("ANALYTICS_BATCH_SIZE", 100),
			PollInterval:  getEnvAsDuration("ANALYTICS_POLL_INTERVAL", time.Second),
			BlockTime:     getEnvAsDuration("ANALYTICS_BLOCK_TIME", 5*time.Second),
		},
		Cleanup: CleanupConfig{
			Interval: getEnvAsDuration("CLEANUP_INTERVAL", time.Hour),
			LockTTL:  getEnvAsDuration("CLEANUP_LOCK_TTL", 5*time.Minute),
		},
		Bloom: BloomConfig{
			Enabled:           getEnvAsBool("BLOOM_FILTER_ENABLED", false),
			Capacity:          uint(getEnvAsInt("BLOOM_FILTER_CAPACITY", 1000000)),
			FalsePositiveRate: getEnvAsFloat("BLOOM_FILTER_FPR", 0.01),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
