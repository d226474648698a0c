package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cardfolio/backend/services/tokens"
	"github.com/cardfolio/backend/utils"
	"go.uber.org/zap"
)

// TokenVerifier decides whether a bearer token is live
type TokenVerifier interface {
	// Verify checks a non-empty bearer token against cache and store
	Verify(ctx context.Context, token string) tokens.Outcome
}

// AuthMiddleware gates routes on a valid bearer token
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireToken rejects requests without a live bearer token. A missing or
// malformed Authorization header is rejected before the verifier runs; an
// infrastructure failure (cache and store both unreachable) is surfaced as
// 500, not 401, because access could not be determined either way.
func (m *AuthMiddleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Warn("missing bearer token", zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Unauthorized")
			return
		}

		switch m.verifier.Verify(ctx, token) {
		case tokens.OutcomeValid:
			next.ServeHTTP(w, r.WithContext(WithAccessToken(ctx, token)))

		case tokens.OutcomeInvalid:
			m.logger.Warn("invalid bearer token", zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Invalid token")

		default:
			m.logger.Error("token verification unavailable", zap.String("path", r.URL.Path))
			_ = utils.WriteInternalServerError(w, "")
		}
	})
}

// extractBearerToken extracts the token from an "Authorization: Bearer x" header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
