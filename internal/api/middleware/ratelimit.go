package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Rohangit/ilab-test/internal/api/response"
	"github.com/Rohangit/ilab-test/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

// RateLimitMiddleware applies per-minute burst limiting keyed by user ID.
// Independent of the daily prompt quota, which the prompt service enforces.
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting based on the authenticated user
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			response.Unauthorized(w, unauthorizedMessage)
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), strconv.FormatInt(userID, 10))
		if err != nil {
			// Rate limiting is best effort, fail open on limiter errors.
			log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.UTC().Format(time.RFC3339))

		if !allowed {
			response.TooManyRequests(w, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
