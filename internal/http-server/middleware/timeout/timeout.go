package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds the request context, so store writes and exports started by
// a handler are cancelled once the client can no longer get the answer.
func Timeout(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
