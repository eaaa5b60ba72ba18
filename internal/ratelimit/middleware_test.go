package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestEngine(l *Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(l.Middleware())
	engine.GET("/api/v1/listings/search", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/listings/:id/similar", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/listings/stats", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/listings/makes", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func doRequest(engine *gin.Engine, path, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestClassify(t *testing.T) {
	cases := map[string]Category{
		"/api/v1/listings/search":      CategorySearch,
		"/api/v1/listings/abc/similar": CategoryStrict,
		"/api/v1/listings/stats":       CategoryStrict,
		"/api/v1/listings/makes":       CategoryDefault,
		"/api/v1/listings/abc":         CategoryDefault,
		"/api/v1/dealers/abc":          CategoryDefault,
	}
	for path, want := range cases {
		if got := Classify(path); got != want {
			t.Fatalf("Classify(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestClientIdentityPriority(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.2")
	req.Header.Set("X-Real-IP", "198.51.100.9")
	if got := ClientIdentity(req); got != "203.0.113.7" {
		t.Fatalf("forwarded-for should win, got %q", got)
	}

	req.Header.Del("X-Forwarded-For")
	if got := ClientIdentity(req); got != "198.51.100.9" {
		t.Fatalf("real-ip should be next, got %q", got)
	}

	req.Header.Del("X-Real-IP")
	if got := ClientIdentity(req); got != "10.0.0.1" {
		t.Fatalf("connection address host should be the fallback, got %q", got)
	}
}

func TestMiddlewareSetsHeadersOnEveryGatedRequest(t *testing.T) {
	l, _ := newTestLimiter(100)
	engine := newTestEngine(l)

	rec := doRequest(engine, "/api/v1/listings/search", "1.2.3.4:1000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	remaining, err := strconv.Atoi(rec.Header().Get("X-RateLimit-Remaining"))
	if err != nil {
		t.Fatalf("missing or malformed remaining header: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 remaining after first search, got %d", remaining)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("retry-after header must be present on admitted requests too")
	}
}

func TestMiddlewareRejectsWithStructuredPayload(t *testing.T) {
	l, _ := newTestLimiter(100)
	engine := newTestEngine(l)

	for i := 0; i < 3; i++ {
		doRequest(engine, "/api/v1/listings/search", "1.2.3.4:1000", nil)
	}
	rec := doRequest(engine, "/api/v1/listings/search", "1.2.3.4:1000", nil)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected zero remaining, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}

	var payload RejectionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode rejection payload: %v", err)
	}
	if payload.Error != "RATE_LIMIT_EXCEEDED" {
		t.Fatalf("unexpected error code %q", payload.Error)
	}
	if payload.Message == "" {
		t.Fatal("rejection payload must carry a message")
	}
	if payload.RetryAfterSeconds < 1 {
		t.Fatalf("retryAfterSeconds must be at least 1, got %d", payload.RetryAfterSeconds)
	}
}

func TestMiddlewareBypassesNonPublicRoutes(t *testing.T) {
	l, _ := newTestLimiter(100)
	engine := newTestEngine(l)

	for i := 0; i < 50; i++ {
		rec := doRequest(engine, "/healthz", "1.2.3.4:1000", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("health checks must never be rate limited, got %d", rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Remaining") != "" {
			t.Fatal("bypassed routes must not carry rate limit headers")
		}
	}
	if l.Size() != 0 {
		t.Fatalf("bypassed routes must not create buckets, size %d", l.Size())
	}
}

func TestMiddlewareIsolatesClientsByForwardedFor(t *testing.T) {
	l, _ := newTestLimiter(100)
	engine := newTestEngine(l)

	for i := 0; i < 3; i++ {
		doRequest(engine, "/api/v1/listings/search", "10.0.0.1:1000",
			map[string]string{"X-Forwarded-For": "203.0.113.7"})
	}
	rec := doRequest(engine, "/api/v1/listings/search", "10.0.0.1:1000",
		map[string]string{"X-Forwarded-For": "203.0.113.7"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected exhausted client to get 429, got %d", rec.Code)
	}

	rec = doRequest(engine, "/api/v1/listings/search", "10.0.0.1:1000",
		map[string]string{"X-Forwarded-For": "203.0.113.8"})
	if rec.Code != http.StatusOK {
		t.Fatalf("different forwarded identity must have its own budget, got %d", rec.Code)
	}
}

func TestMiddlewareCategoriesHaveSeparateBudgets(t *testing.T) {
	l, _ := newTestLimiter(100)
	engine := newTestEngine(l)

	for i := 0; i < 2; i++ {
		doRequest(engine, "/api/v1/listings/stats", "1.2.3.4:1000", nil)
	}
	rec := doRequest(engine, "/api/v1/listings/stats", "1.2.3.4:1000", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("strict budget should be exhausted, got %d", rec.Code)
	}

	rec = doRequest(engine, "/api/v1/listings/makes", "1.2.3.4:1000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("default category must still admit, got %d", rec.Code)
	}
}

func TestRejectedRetryAfterNeverExceedsInterval(t *testing.T) {
	l, clock := newTestLimiter(100)
	engine := newTestEngine(l)

	for i := 0; i < 4; i++ {
		doRequest(engine, "/api/v1/listings/search", "1.2.3.4:1000", nil)
	}
	clock.Advance(10 * time.Second)
	rec := doRequest(engine, "/api/v1/listings/search", "1.2.3.4:1000", nil)

	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil {
		t.Fatalf("malformed retry-after: %v", err)
	}
	if retryAfter < 1 || retryAfter > 60 {
		t.Fatalf("retry-after %ds outside (0, interval]", retryAfter)
	}
}
