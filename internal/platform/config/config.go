package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration for the console server.
type Config struct {
	Addr string

	// Upstream registry endpoints.
	RegistryBaseURL string
	TokenURL        string
	UpstreamTimeout time.Duration

	Redis RedisConfig

	// SessionSealKey is the hex-encoded 32-byte key used to seal the
	// persisted credential token. Empty disables durable sessions.
	SessionSealKey string

	// CitizenCacheTTL bounds retention of cached registry responses.
	CitizenCacheTTL time.Duration

	LogLevel string
}

// RedisConfig holds connection settings for the optional Redis backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("CONSOLE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	base := os.Getenv("REGISTRY_BASE_URL")
	if base == "" {
		base = "http://localhost:3000/api"
	}

	tokenURL := os.Getenv("OAUTH_TOKEN_URL")
	if tokenURL == "" {
		tokenURL = "http://localhost:3000/oauth/token"
	}

	return Config{
		Addr:            addr,
		RegistryBaseURL: base,
		TokenURL:        tokenURL,
		UpstreamTimeout: durationMSFromEnv("UPSTREAM_TIMEOUT_MS", 30*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intFromEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intFromEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationMSFromEnv("REDIS_DIAL_TIMEOUT_MS", 5*time.Second),
			ReadTimeout:  durationMSFromEnv("REDIS_READ_TIMEOUT_MS", 3*time.Second),
			WriteTimeout: durationMSFromEnv("REDIS_WRITE_TIMEOUT_MS", 3*time.Second),
		},
		SessionSealKey:  os.Getenv("SESSION_SEAL_KEY"),
		CitizenCacheTTL: durationMSFromEnv("CITIZEN_CACHE_TTL_MS", 5*time.Minute),
		LogLevel:        os.Getenv("LOG_LEVEL"),
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationMSFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
