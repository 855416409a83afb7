package middleware

import (
	"net/http"
	"strings"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/i18n"
)

// Session keys for visitor preferences.
const (
	LocaleSessionKey   = "lng"
	DarkModeSessionKey = "isDarkMode"
)

// Locale resolves the request locale from the path prefix, then the session
// preference, then Accept-Language. Dark mode comes from the session and
// defaults to on. Must run after Session.
func Locale(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := ctxkeys.Session(r.Context())

			locale := pathLocale(r.URL.Path)
			if locale == "" && sess != nil && i18n.IsSupported(sess.Get(LocaleSessionKey)) {
				locale = sess.Get(LocaleSessionKey)
			}
			if locale == "" && r.Header.Get("Accept-Language") != "" {
				locale = i18n.Match(r.Header.Get("Accept-Language"))
			}
			if locale == "" {
				locale = defaultLocale
			}

			dark := true
			if sess != nil && sess.Get(DarkModeSessionKey) == "false" {
				dark = false
			}

			ctx := ctxkeys.WithLocale(r.Context(), locale)
			ctx = ctxkeys.WithDarkMode(ctx, dark)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func pathLocale(path string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if i18n.IsSupported(first) {
		return first
	}
	return ""
}
