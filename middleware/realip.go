package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ResolveClientIP resolves the real client address and stores it in the
// request context for the rate limiter.
//
// trustedHops is the number of reverse-proxy hops in front of this service.
// With one trusted hop the client address is the last entry of
// X-Forwarded-For: that entry was appended by our own proxy, so an arbitrary
// client cannot spoof it to evade limiting. With zero hops the socket peer
// address is used and forwarded headers are ignored. Trusting more hops than
// actually exist is an operational misconfiguration this code does not try
// to detect.
func ResolveClientIP(trustedHops int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustedHops)
			next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), ip)))
		})
	}
}

func clientIP(r *http.Request, trustedHops int) string {
	if trustedHops > 0 {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			// Walk back past the trusted hops; everything further left is
			// client-controlled and must not be believed.
			idx := len(parts) - trustedHops
			if idx < 0 {
				idx = 0
			}
			if ip := strings.TrimSpace(parts[idx]); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
