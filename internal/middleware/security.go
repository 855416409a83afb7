package middleware

import (
	"fmt"
	"net/http"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
)

// SecurityHeaders sets the CSP (with the request nonce) and the usual
// hardening headers. Must run after RequestContext and NonceMiddleware.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Post pictures may live on any https host; a plain-http MinIO
		// endpoint has to be listed explicitly.
		imgSrc := "'self' data: https:"
		if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.S3Endpoint != "" {
			imgSrc += " " + cfg.S3Endpoint
		}

		csp := fmt.Sprintf(
			"default-src 'self'; script-src 'self' 'nonce-%s'; style-src 'self' 'unsafe-inline'; img-src %s; form-action 'self' https://accounts.google.com; frame-ancestors 'none'; base-uri 'self'",
			GetNonce(r.Context()), imgSrc,
		)

		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
