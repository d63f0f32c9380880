package middleware

import "net/http"

// MaxBodySize limits the request body to the given number of bytes.
// Use on JSON API routes to prevent memory exhaustion from oversized payloads.
// The media upload route sets its own http.MaxBytesReader sized for files.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
