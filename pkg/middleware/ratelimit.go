package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimit allows limit requests per window for each actor, or each remote address before authentication.
// The window starts with the first request and is tracked with INCR and EXPIRE NX in one MULTI block,
// so a counter is never left without an expiry.
func RateLimit(rdb redis.Cmdable, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	if window < time.Second {
		window = time.Second
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			subject := r.RemoteAddr
			if actor, ok := ActorFromContext(ctx); ok {
				subject = actor.ID
			}
			key := "rate_limit:" + subject

			var incr *redis.IntCmd
			_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(ctx, key)
				pipe.ExpireNX(ctx, key, window)
				return nil
			})
			if err != nil {
				// Fail open when Redis is unavailable.
				logger.WarnContext(ctx, "rate limiter unavailable", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			current := incr.Val()

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			if current > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-current, 10))

			next.ServeHTTP(w, r)
		})
	}
}
