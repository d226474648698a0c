package middleware

import (
	"context"
)

// Context key type to avoid collisions
type contextKey string

const (
	// AccessTokenKey is the context key for the verified bearer token
	AccessTokenKey contextKey = "access_token"

	// ClientIPKey is the context key for the resolved client address
	ClientIPKey contextKey = "client_ip"

	// RequestIDKey is the context key for the request correlation id
	RequestIDKey contextKey = "request_id"
)

// GetAccessTokenFromContext retrieves the verified bearer token from context
func GetAccessTokenFromContext(ctx context.Context) string {
	if val := ctx.Value(AccessTokenKey); val != nil {
		if token, ok := val.(string); ok {
			return token
		}
	}
	return ""
}

// WithAccessToken adds a verified bearer token to the context
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, AccessTokenKey, token)
}

// GetClientIPFromContext retrieves the resolved client address from context
func GetClientIPFromContext(ctx context.Context) string {
	if val := ctx.Value(ClientIPKey); val != nil {
		if ip, ok := val.(string); ok {
			return ip
		}
	}
	return ""
}

// WithClientIP adds the resolved client address to the context
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

// GetRequestIDFromContext retrieves the request correlation id from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// WithRequestID adds the request correlation id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
