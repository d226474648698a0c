package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader carries the correlation id between services
const requestIDHeader = "X-Request-ID"

// RequestID assigns a correlation id to every request. An id supplied by the
// caller is kept so multi-service traces line up; otherwise a fresh UUID is
// generated. The id is echoed on the response and stored in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
