package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/session"
	"github.com/fanaberia/fanaberia/internal/token"
)

const (
	CSRFSessionKey  = "csrf"
	csrfFormField   = "csrf_token"
	csrfHeader      = "X-CSRF-Token"
	csrfTokenLength = 43
)

// CSRFProtection requires the session's token back on every request that is
// not GET, HEAD or OPTIONS, either in the X-CSRF-Token header (api/v1 calls)
// or in the csrf_token form field. The token is issued only when a page asks
// for it through ctxkeys.CSRFToken, so responses without forms leave the
// session untouched. Must run after Session.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := ctxkeys.Session(r.Context())
		ctx := ctxkeys.WithCSRFToken(r.Context(), func() string {
			t, err := sessionCSRFToken(sess)
			if err != nil {
				slog.Error("failed to generate csrf token", "error", err)
				return ""
			}
			return t
		})

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		submitted := r.Header.Get(csrfHeader)
		if submitted == "" {
			submitted = r.PostFormValue(csrfFormField)
		}
		if !validCSRFToken(sess.Get(CSRFSessionKey), submitted) {
			slog.Warn("csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
				"ip", ctxkeys.ClientIP(r.Context()),
			)
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionCSRFToken returns the session's token, issuing one on first use.
func sessionCSRFToken(sess *session.Session) (string, error) {
	if t := sess.Get(CSRFSessionKey); len(t) == csrfTokenLength {
		return t, nil
	}
	t, err := token.Generate(csrfTokenLength)
	if err != nil {
		return "", err
	}
	sess.Set(CSRFSessionKey, t)
	return t, nil
}

func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
