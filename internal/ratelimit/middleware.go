package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// PublicPrefix marks the route space the admission controller gates.
// Requests outside it bypass admission entirely.
const PublicPrefix = "/api/v1"

const (
	headerRemaining  = "X-RateLimit-Remaining"
	headerRetryAfter = "Retry-After"

	rejectionCode    = "RATE_LIMIT_EXCEEDED"
	rejectionMessage = "request rate limit exceeded, retry later"
)

// RejectionPayload is the structured 429 response body.
type RejectionPayload struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
}

// Classify maps a request path to its admission category. Similarity and
// statistics endpoints are the most expensive, search next, everything else
// gets the default budget.
func Classify(path string) Category {
	switch {
	case strings.Contains(path, "/similar") || strings.Contains(path, "/stats"):
		return CategoryStrict
	case strings.Contains(path, "/search"):
		return CategorySearch
	default:
		return CategoryDefault
	}
}

// ClientIdentity derives the rate-limit identity for a request: the first
// forwarded-for entry, else the real-IP header, else the connection address.
func ClientIdentity(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware gates requests under PublicPrefix. On every gated request it
// attaches the remaining-token and retry-after headers; on rejection it
// responds 429 with a structured payload and never reaches the handler.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, PublicPrefix) {
			c.Next()
			return
		}

		category := Classify(path)
		identity := ClientIdentity(c.Request)
		decision := l.Allow(identity, category)

		retryAfterSeconds := int(decision.RetryAfter.Seconds())
		if decision.RetryAfter > 0 && retryAfterSeconds == 0 {
			retryAfterSeconds = 1
		}

		c.Header(headerRemaining, strconv.Itoa(decision.Remaining))
		c.Header(headerRetryAfter, strconv.Itoa(retryAfterSeconds))

		if !decision.Allowed {
			if l.log != nil {
				l.log.RateLimitExceeded(identity, string(category), path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, RejectionPayload{
				Error:             rejectionCode,
				Message:           rejectionMessage,
				RetryAfterSeconds: retryAfterSeconds,
			})
			return
		}

		c.Next()
	}
}
