package ctxkeys

import (
	"context"

	"github.com/fanaberia/fanaberia/internal/config"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/session"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	PrincipalKey contextKey = "principal"
	SessionKey   contextKey = "session"
	LocaleKey    contextKey = "locale"
	DarkModeKey  contextKey = "dark_mode"
	ClientIPKey  contextKey = "client_ip"
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

func Principal(ctx context.Context) *model.Principal {
	principal, _ := ctx.Value(PrincipalKey).(*model.Principal)
	return principal
}

func WithPrincipal(ctx context.Context, principal *model.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

func Session(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(SessionKey).(*session.Session)
	return sess
}

func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// Locale returns the request locale, "en" when none was resolved.
func Locale(ctx context.Context) string {
	locale, _ := ctx.Value(LocaleKey).(string)
	if locale == "" {
		return "en"
	}
	return locale
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, LocaleKey, locale)
}

func DarkMode(ctx context.Context) bool {
	dark, ok := ctx.Value(DarkModeKey).(bool)
	if !ok {
		return true
	}
	return dark
}

func WithDarkMode(ctx context.Context, dark bool) context.Context {
	return context.WithValue(ctx, DarkModeKey, dark)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPKey).(string)
	return ip
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

// CSRFToken returns the session's CSRF token, issuing it on first use.
func CSRFToken(ctx context.Context) string {
	issue, _ := ctx.Value(CSRFTokenKey).(func() string)
	if issue == nil {
		return ""
	}
	return issue()
}

func WithCSRFToken(ctx context.Context, issue func() string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, issue)
}
