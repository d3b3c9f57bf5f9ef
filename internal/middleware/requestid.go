package middleware

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

// contextKey is unexported so no other package can collide with our context
// values.
type contextKey string

const requestIDKey contextKey = "requestID"

// maxRequestIDLen caps inbound X-Request-ID values. Anything longer is
// replaced rather than truncated, so a malformed id is never half-echoed.
const maxRequestIDLen = 64

// validRequestID reports whether an inbound id is safe to reuse: bounded
// length, alphanumeric plus '-' and '_'. The value ends up in log lines and
// a response header, so control characters and unbounded input are rejected.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// RequestID assigns each request a globally unique id (an xid, sortable and
// collision-free across processes) and echoes it in the X-Request-ID response
// header. A well-formed id supplied by an upstream proxy is reused so traces
// line up across hops; anything else gets a fresh id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if !validRequestID(id) {
			id = xid.New().String()
		}

		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id set by RequestID, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
