package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/auth"
	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/session"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.1:5000", "10.0.0.1"},
		{"x-client-ip wins", map[string]string{"X-Client-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "10.0.0.1:5000", "1.1.1.1"},
		{"first valid forwarded-for", map[string]string{"X-Forwarded-For": "unknown, 3.3.3.3, 4.4.4.4"}, "10.0.0.1:5000", "3.3.3.3"},
		{"invalid header skipped", map[string]string{"X-Client-IP": "garbage", "X-Real-IP": "5.5.5.5"}, "10.0.0.1:5000", "5.5.5.5"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "6.6.6.6"}, "10.0.0.1:5000", "6.6.6.6"},
		{"forwarded", map[string]string{"Forwarded": `for="[2001:db8::1]:4711";proto=https`}, "10.0.0.1:5000", "2001:db8::1"},
		{"forwarded plain", map[string]string{"Forwarded": "proto=http;for=7.7.7.7"}, "10.0.0.1:5000", "7.7.7.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func newManager() *session.Manager {
	return session.NewManager(session.NewMemoryStore(), session.NewCookieCodec("secret"), time.Hour, false)
}

func TestLocale(t *testing.T) {
	var got string
	var dark bool
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.Locale(r.Context())
		dark = ctxkeys.DarkMode(r.Context())
	}), Session(newManager()), Locale("en"))

	tests := []struct {
		path   string
		accept string
		want   string
	}{
		{"/ru/posts", "es", "ru"},
		{"/de/posts", "es", "es"},
		{"/warp", "ru-RU,ru;q=0.9", "ru"},
		{"/", "", "en"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.accept != "" {
			r.Header.Set("Accept-Language", tt.accept)
		}
		h.ServeHTTP(httptest.NewRecorder(), r)
		assert.Equal(t, tt.want, got, tt.path)
		assert.True(t, dark)
	}
}

func TestSessionCommitsBeforeBody(t *testing.T) {
	m := newManager()
	h := Session(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxkeys.Session(r.Context()).Set(LocaleSessionKey, "es")
		_, _ = w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)

	// The stored preference drives the next request's locale.
	var locale string
	next := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = ctxkeys.Locale(r.Context())
	}), Session(m), Locale("en"))
	r := httptest.NewRequest(http.MethodGet, "/warp", nil)
	r.AddCookie(cookies[0])
	next.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "es", locale)
}

func TestSessionWithoutChangesSetsNoCookie(t *testing.T) {
	h := Session(newManager())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Result().Cookies())
}

func TestLoadPrincipalAndRequireRole(t *testing.T) {
	m := newManager()
	authenticator := auth.NewAuthenticator(m)

	signIn := Session(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := authenticator.Login(r.Context(), ctxkeys.Session(r.Context()), &model.Principal{Kind: model.RoleAdmin, ID: 1})
		require.NoError(t, err)
	}))
	w := httptest.NewRecorder()
	signIn.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/warp/sign-in", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	protected := func(role model.Role) http.Handler {
		return Chain(RequireRole(role)(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}), Session(m), LoadPrincipal(authenticator))
	}

	tests := []struct {
		name     string
		role     model.Role
		cookie   bool
		status   int
		location string
	}{
		{"admin on warp", model.RoleAdmin, true, http.StatusTeapot, ""},
		{"admin on user route", model.RoleUser, true, http.StatusSeeOther, "/warp"},
		{"anonymous on warp", model.RoleAdmin, false, http.StatusSeeOther, "/warp/sign-in"},
		{"anonymous on user route", model.RoleUser, false, http.StatusSeeOther, "/auth/sign-in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie {
				r.AddCookie(cookies[0])
			}
			w := httptest.NewRecorder()
			protected(tt.role).ServeHTTP(w, r)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestRequireGuest(t *testing.T) {
	h := RequireGuest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/auth/sign-in", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/auth/sign-in", nil)
	r = r.WithContext(ctxkeys.WithPrincipal(r.Context(), &model.Principal{Kind: model.RoleUser, ID: 3}))
	w = httptest.NewRecorder()
	h(w, r)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for range 2 {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok, "keys are limited independently")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok)

	now = now.Add(5 * time.Minute)
	l.Cleanup()
	assert.Empty(t, l.requests)
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRedisLimiter(rdb, "test", 3, 3*time.Minute)
	l.now = func() time.Time { return now }

	for range 3 {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	// One token comes back per minute.
	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	assert.True(t, mr.Exists("test:ratelimit:1.2.3.4"))
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(NewMemoryLimiter(1, time.Minute), time.Minute, "")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil)
		r.RemoteAddr = "8.8.8.8:4000"
		w := httptest.NewRecorder()
		h(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, request().Code)
	w := request()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimitIgnoresClientHeaders(t *testing.T) {
	h := Chain(RateLimit(NewMemoryLimiter(1, time.Minute), time.Minute, "")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), ClientIP)

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil)
		r.RemoteAddr = "9.9.9.9:4000"
		r.Header.Set("X-Client-IP", spoofed)
		r.Header.Set("X-Forwarded-For", spoofed)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRateLimitTrustedHeader(t *testing.T) {
	h := RateLimit(NewMemoryLimiter(1, time.Minute), time.Minute, "CF-Connecting-IP")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func(ip string) int {
		r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil)
		r.RemoteAddr = "10.0.0.1:4000"
		r.Header.Set("X-Client-IP", "1.1.1.1")
		r.Header.Set("CF-Connecting-IP", ip)
		w := httptest.NewRecorder()
		h(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("5.5.5.5"))
	assert.Equal(t, http.StatusTooManyRequests, request("5.5.5.5"))
	// Visitors behind the same proxy keep separate buckets.
	assert.Equal(t, http.StatusOK, request("6.6.6.6"))
}

func TestCSRFProtection(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ctxkeys.CSRFToken(r.Context())))
	}), Session(newManager()), CSRFProtection)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	token := w.Body.String()
	require.Len(t, token, csrfTokenLength)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)

	send := func(form url.Values, header string, withSession bool) int {
		r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			r.Header.Set(csrfHeader, header)
		}
		if withSession {
			r.AddCookie(cookies[0])
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, send(url.Values{}, "", true))
	assert.Equal(t, http.StatusForbidden, send(url.Values{"csrf_token": {"wrong"}}, "", true))
	assert.Equal(t, http.StatusForbidden, send(url.Values{"csrf_token": {token}}, "", false))
	assert.Equal(t, http.StatusOK, send(url.Values{"csrf_token": {token}}, "", true))
	assert.Equal(t, http.StatusOK, send(nil, token, true))
}

func TestCSRFTokenIsIssuedOnDemand(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *"))
	}), Session(newManager()), CSRFProtection)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())

	// Without an issued token every unsafe request is refused.
	r := httptest.NewRequest(http.MethodPost, "/api/v1/darkmode", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), NonceMiddleware, SecurityHeaders)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'nonce-")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRequestLoggingLevels(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/boom":
			http.Error(w, "internal server error", http.StatusInternalServerError)
		case "/missing":
			http.NotFound(w, r)
		default:
			_, _ = w.Write([]byte("ok"))
		}
	}))

	tests := []struct {
		path  string
		level string
	}{
		{"/en/posts", "INFO"},
		{"/missing", "WARN"},
		{"/boom", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, tt.path, entry["path"])
		})
	}

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/assets/css/app.css", nil))
	assert.Zero(t, buf.Len())
}
