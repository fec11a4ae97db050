package http

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const rateLimitMessage = "Too many requests. Please try again later."

func RateLimitMiddleware(
	limiter *RateLimiter,
	logger *zap.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ip := ClientIP(r)
		d := limiter.Allow(r.Context(), ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			retry := int(math.Ceil(time.Until(d.ResetAt).Seconds()))
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			logger.Info("rate limit exceeded", zap.String("client", ip), zap.String("path", r.URL.Path))
			writeError(w, logger, http.StatusTooManyRequests, rateLimitMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}
