package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/carmarket")
	t.Setenv("JWT_ACCESS_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RateLimitInterval != time.Minute {
		t.Fatalf("expected 60s default interval, got %s", cfg.RateLimitInterval)
	}
	if cfg.CacheTTLSearch != time.Minute || cfg.CacheTTLDetail != 5*time.Minute || cfg.CacheTTLAggregate != time.Hour {
		t.Fatalf("unexpected cache TTL defaults: %s %s %s",
			cfg.CacheTTLSearch, cfg.CacheTTLDetail, cfg.CacheTTLAggregate)
	}
}

func TestLoadRejectsMalformedRateLimitInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_INTERVAL", "not-a-duration")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "RATE_LIMIT_INTERVAL") {
		t.Fatalf("expected interval validation error, got %v", err)
	}
}

func TestLoadRejectsNonPositiveCacheTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CACHE_TTL_DETAIL", "0s")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "cache TTLs") {
		t.Fatalf("expected cache TTL validation error, got %v", err)
	}
}

func TestLoadRejectsUnorderedCapacities(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_CAPACITY_SEARCH", "200")

	if _, err := Load(); err == nil {
		t.Fatal("expected capacity ordering error")
	}
}
