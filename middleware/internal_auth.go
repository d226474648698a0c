package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/cardfolio/backend/utils"
	"go.uber.org/zap"
)

// internalSecretHeader carries the shared secret on service-to-service calls
const internalSecretHeader = "x-internal-secret"

// InternalAuthMiddleware gates service-to-service routes on a shared secret
type InternalAuthMiddleware struct {
	secret []byte
	logger *zap.Logger
}

// NewInternalAuthMiddleware creates a new InternalAuthMiddleware
func NewInternalAuthMiddleware(secret string, logger *zap.Logger) *InternalAuthMiddleware {
	return &InternalAuthMiddleware{
		secret: []byte(secret),
		logger: logger,
	}
}

// RequireSecret rejects requests whose x-internal-secret header does not
// match the configured secret. The comparison is fixed-time so response
// timing leaks nothing about the secret. An unconfigured secret rejects
// everything rather than letting every caller through.
func (m *InternalAuthMiddleware) RequireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := r.Header.Get(internalSecretHeader)

		if len(m.secret) == 0 || presented == "" ||
			subtle.ConstantTimeCompare([]byte(presented), m.secret) != 1 {
			m.logger.Warn("internal secret mismatch", zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}
