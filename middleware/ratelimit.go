package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cardfolio/backend/services/ratelimit"
	"github.com/cardfolio/backend/utils"
	"go.uber.org/zap"
)

// RateLimitMiddleware gates request volume per client address per route
type RateLimitMiddleware struct {
	svc    *ratelimit.Service
	logger *zap.Logger
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware
func NewRateLimitMiddleware(svc *ratelimit.Service, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		svc:    svc,
		logger: logger,
	}
}

// tooManyRequestsBody is the 429 payload
type tooManyRequestsBody struct {
	Message string `json:"message"`
}

// Limit admits up to cfg.Limit requests per cfg.Window per client for the
// named route bucket. Runs after ResolveClientIP. Standard rate-limit
// headers are set on every response; a rejection short-circuits the chain
// with 429 and a human-readable retry-after message.
func (m *RateLimitMiddleware) Limit(bucket string, cfg ratelimit.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := GetClientIPFromContext(r.Context())
			if clientIP == "" {
				clientIP = r.RemoteAddr
			}

			res := m.svc.Admit(clientIP+":"+bucket, cfg)

			w.Header().Set("RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(time.Until(res.ResetAt))))

			if !res.Allowed {
				m.logger.Warn("rate limit exceeded",
					zap.String("client_ip", clientIP),
					zap.String("bucket", bucket),
					zap.Duration("retry_after", res.RetryAfter))

				w.Header().Set("Retry-After", strconv.Itoa(ceilSeconds(res.RetryAfter)))
				_ = utils.WriteJSON(w, http.StatusTooManyRequests, tooManyRequestsBody{
					Message: fmt.Sprintf("Too many requests, please try again later after %s",
						ratelimit.FormatWindow(cfg.Window)),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ceilSeconds rounds a duration up to whole seconds, with a floor of 1
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	return int((d + time.Second - 1) / time.Second)
}
