// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides redis connection settings shared by the result cache
// and the background job queue.
type RedisConfig interface {
	GetRedisURL() string
}

// CacheConfig provides TTL settings for the result cache categories.
type CacheConfig interface {
	RedisConfig
	GetCacheTTLSearch() time.Duration
	GetCacheTTLDetail() time.Duration
	GetCacheTTLAggregate() time.Duration
}

// RateLimitConfig provides admission controller settings.
type RateLimitConfig interface {
	GetRateLimitInterval() time.Duration
	GetRateLimitCapacityDefault() int
	GetRateLimitCapacitySearch() int
	GetRateLimitCapacityStrict() int
	GetRateLimitMaxBuckets() int
}

// SchedulerConfig provides settings for the background job worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetListingExpiryAge() time.Duration
	GetListingExpiryCadence() time.Duration
}

// ListingsConfig provides tunables for the listings search layer.
type ListingsConfig interface {
	GetSimilarMaxResults() int
	GetSimilarYearWindow() int
	GetSimilarPriceBandPct() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	JWTAccessSecret          string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	RedisURL                 string
	CacheTTLSearch           time.Duration
	CacheTTLDetail           time.Duration
	CacheTTLAggregate        time.Duration
	RateLimitInterval        time.Duration
	RateLimitCapacityDefault int
	RateLimitCapacitySearch  int
	RateLimitCapacityStrict  int
	RateLimitMaxBuckets      int
	AsynqQueueName           string
	AsynqConcurrency         int
	ListingExpiryAge         time.Duration
	ListingExpiryCadence     time.Duration
	SimilarMaxResults        int
	SimilarYearWindow        int
	SimilarPriceBandPct      int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisURL() string { return c.RedisURL }

// CacheConfig implementation
func (c *Config) GetCacheTTLSearch() time.Duration    { return c.CacheTTLSearch }
func (c *Config) GetCacheTTLDetail() time.Duration    { return c.CacheTTLDetail }
func (c *Config) GetCacheTTLAggregate() time.Duration { return c.CacheTTLAggregate }

// RateLimitConfig implementation
func (c *Config) GetRateLimitInterval() time.Duration { return c.RateLimitInterval }
func (c *Config) GetRateLimitCapacityDefault() int    { return c.RateLimitCapacityDefault }
func (c *Config) GetRateLimitCapacitySearch() int     { return c.RateLimitCapacitySearch }
func (c *Config) GetRateLimitCapacityStrict() int     { return c.RateLimitCapacityStrict }
func (c *Config) GetRateLimitMaxBuckets() int         { return c.RateLimitMaxBuckets }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string              { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int               { return c.AsynqConcurrency }
func (c *Config) GetListingExpiryAge() time.Duration     { return c.ListingExpiryAge }
func (c *Config) GetListingExpiryCadence() time.Duration { return c.ListingExpiryCadence }

// ListingsConfig implementation
func (c *Config) GetSimilarMaxResults() int   { return c.SimilarMaxResults }
func (c *Config) GetSimilarYearWindow() int   { return c.SimilarYearWindow }
func (c *Config) GetSimilarPriceBandPct() int { return c.SimilarPriceBandPct }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTAccessSecret:          getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:                 getEnv("REDIS_URL", ""),
		CacheTTLSearch:           mustDuration(getEnv("CACHE_TTL_SEARCH", "60s")),
		CacheTTLDetail:           mustDuration(getEnv("CACHE_TTL_DETAIL", "5m")),
		CacheTTLAggregate:        mustDuration(getEnv("CACHE_TTL_AGGREGATE", "1h")),
		RateLimitInterval:        mustDuration(getEnv("RATE_LIMIT_INTERVAL", "60s")),
		RateLimitCapacityDefault: mustInt(getEnv("RATE_LIMIT_CAPACITY_DEFAULT", "120")),
		RateLimitCapacitySearch:  mustInt(getEnv("RATE_LIMIT_CAPACITY_SEARCH", "60")),
		RateLimitCapacityStrict:  mustInt(getEnv("RATE_LIMIT_CAPACITY_STRICT", "20")),
		RateLimitMaxBuckets:      mustInt(getEnv("RATE_LIMIT_MAX_BUCKETS", "10000")),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		ListingExpiryAge:         mustDuration(getEnv("LISTING_EXPIRY_AGE", "2160h")),
		ListingExpiryCadence:     mustDuration(getEnv("LISTING_EXPIRY_CADENCE", "6h")),
		SimilarMaxResults:        mustInt(getEnv("SIMILAR_MAX_RESULTS", "6")),
		SimilarYearWindow:        mustInt(getEnv("SIMILAR_YEAR_WINDOW", "5")),
		SimilarPriceBandPct:      mustInt(getEnv("SIMILAR_PRICE_BAND_PCT", "50")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.RateLimitCapacityStrict < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_CAPACITY_STRICT must be at least 1")
	}
	if cfg.RateLimitCapacityDefault <= cfg.RateLimitCapacitySearch ||
		cfg.RateLimitCapacitySearch <= cfg.RateLimitCapacityStrict {
		return nil, fmt.Errorf("rate limit capacities must order default > search > strict")
	}
	if cfg.RateLimitInterval <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_INTERVAL must be a positive duration")
	}
	if cfg.CacheTTLSearch <= 0 || cfg.CacheTTLDetail <= 0 || cfg.CacheTTLAggregate <= 0 {
		return nil, fmt.Errorf("cache TTLs must be positive durations")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
