package middleware

import "net/http"

// MaxBodySize caps request bodies. Reads past limit fail, so form parsing in
// later middleware and handlers sees an error instead of the rest of the body.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
