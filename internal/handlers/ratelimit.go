package handlers

import (
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"freelance-rate-engine/internal/utils"
)

// RateLimiter throttles requests per client address and path using a
// fixed one-hour window counted in Redis.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter connects to Redis and returns a limiter allowing
// limit requests per client per hour.
func NewRateLimiter(redisURL string, limit int) (*RateLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		client: redis.NewClient(opts),
		limit:  int64(limit),
		window: time.Hour,
	}, nil
}

// Close releases the Redis connection.
func (rl *RateLimiter) Close() error {
	return rl.client.Close()
}

// Middleware rejects callers that exceed the window limit with 429.
// Redis failures fail open so a cache outage never takes the API down.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		key := "ratelimit:" + host + ":" + r.URL.Path

		count, err := rl.client.Incr(r.Context(), key).Result()
		if err != nil {
			utils.GetLogger().Warn("Rate limiter unavailable", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			rl.client.Expire(r.Context(), key, rl.window)
		}
		if count > rl.limit {
			writeJSON(w, http.StatusTooManyRequests, Response{
				Success: false,
				Error:   "rate limit exceeded, try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
