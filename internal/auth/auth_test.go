package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/session"
)

type fakeUsers struct {
	err      error
	gotIP    string
	oauthHit string
}

func (f *fakeUsers) ValidateCredentials(email, password, ip string) (*model.User, error) {
	f.gotIP = ip
	if f.err != nil {
		return nil, f.err
	}
	return &model.User{ID: 7, Email: email}, nil
}

func (f *fakeUsers) FindOrCreateOAuthUser(email, provider, ip string) (*model.User, error) {
	f.oauthHit = email
	f.gotIP = ip
	if f.err != nil {
		return nil, f.err
	}
	return &model.User{ID: 8, Email: email}, nil
}

type fakeAdmins struct {
	err error
}

func (f *fakeAdmins) ValidateCredentials(email, password string) (*model.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Admin{ID: 1, Email: email}, nil
}

func newManager() *session.Manager {
	return session.NewManager(session.NewMemoryStore(), session.NewCookieCodec("secret"), time.Hour, false)
}

func newSession(t *testing.T, m *session.Manager) *session.Session {
	t.Helper()
	sess, err := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return sess
}

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.WithContext(ctxkeys.WithClientIP(r.Context(), "9.9.9.9"))
}

func TestRequireRole(t *testing.T) {
	user := &model.Principal{Kind: model.RoleUser, ID: 1}
	admin := &model.Principal{Kind: model.RoleAdmin, ID: 1}
	crafted := &model.Principal{ID: 1, Email: "x@test.dev"}
	unknown := &model.Principal{Kind: "superuser", ID: 1}

	tests := []struct {
		name      string
		principal *model.Principal
		role      model.Role
		redirect  string
		ok        bool
	}{
		{"anonymous on user route", nil, model.RoleUser, "/auth/sign-in", false},
		{"anonymous on admin route", nil, model.RoleAdmin, "/warp/sign-in", false},
		{"user on user route", user, model.RoleUser, "", true},
		{"admin on admin route", admin, model.RoleAdmin, "", true},
		{"admin on user route", admin, model.RoleUser, "/warp", false},
		{"user on admin route", user, model.RoleAdmin, "/", false},
		{"missing kind on admin route", crafted, model.RoleAdmin, "/", false},
		{"unknown kind on admin route", unknown, model.RoleAdmin, "/", false},
		{"missing kind on user route", crafted, model.RoleUser, "/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redirect, ok := RequireRole(tt.principal, tt.role)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.redirect, redirect)
		})
	}
}

func TestFormStrategyRejectsInvalidForm(t *testing.T) {
	users := &fakeUsers{}
	s := NewFormStrategy(users)

	_, err := s.Authenticate(formRequest(url.Values{"email": {"not-an-email"}, "password": {"x"}}), nil)

	var authErr *AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Contains(t, authErr.Errors, "email")
	assert.Contains(t, authErr.Errors, "password")
	assert.Equal(t, "not-an-email", authErr.Fields["email"])
	assert.NotContains(t, authErr.Fields, "password")
	assert.Empty(t, users.gotIP, "credentials are not checked when the form is invalid")
}

func TestFormStrategyMapsRejections(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{service.ErrInvalidCredentials, MessageCommon},
		{service.ErrEmailNotConfirmed, MessageConfirm},
		{errors.New("db down"), MessageCommon},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			s := NewFormStrategy(&fakeUsers{err: tt.err})
			_, err := s.Authenticate(formRequest(url.Values{"email": {"u@test.dev"}, "password": {"Secret1"}}), nil)

			var authErr *AuthorizationError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.message, authErr.Errors["common"])
		})
	}
}

func TestFormStrategyPassesClientIP(t *testing.T) {
	users := &fakeUsers{}
	principal, err := NewFormStrategy(users).Authenticate(formRequest(url.Values{"email": {"u@test.dev"}, "password": {"Secret1"}}), nil)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, principal.Kind)
	assert.Equal(t, "9.9.9.9", users.gotIP)
}

func TestAdminFormStrategy(t *testing.T) {
	principal, err := NewAdminFormStrategy(&fakeAdmins{}).Authenticate(formRequest(url.Values{"email": {"root@test.dev"}, "password": {"secret-pass"}}), nil)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, principal.Kind)

	_, err = NewAdminFormStrategy(&fakeAdmins{err: service.ErrInvalidCredentials}).Authenticate(formRequest(url.Values{"email": {"root@test.dev"}, "password": {"secret-pass"}}), nil)
	var authErr *AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, MessageCommon, authErr.Errors["common"])
}

func TestAuthenticatorStoresPrincipal(t *testing.T) {
	m := newManager()
	a := NewAuthenticator(m, NewFormStrategy(&fakeUsers{}), NewAdminFormStrategy(&fakeAdmins{}))
	sess := newSession(t, m)
	before := sess.ID()

	principal, err := a.Authenticate(StrategyForm, formRequest(url.Values{"email": {"u@test.dev"}, "password": {"Secret1"}}), sess)
	require.NoError(t, err)
	assert.NotEqual(t, before, sess.ID(), "session id is regenerated on sign-in")

	got := a.IsAuthenticated(sess)
	require.NotNil(t, got)
	assert.Equal(t, *principal, *got)

	w := httptest.NewRecorder()
	require.NoError(t, a.Logout(context.Background(), w, sess))
	assert.Nil(t, a.IsAuthenticated(sess))
}

func TestAuthenticatorFlashesErrorOnce(t *testing.T) {
	m := newManager()
	a := NewAuthenticator(m, NewFormStrategy(&fakeUsers{err: service.ErrInvalidCredentials}))
	sess := newSession(t, m)
	ctx := context.Background()

	_, err := a.Authenticate(StrategyForm, formRequest(url.Values{"email": {"u@test.dev"}, "password": {"Secret1"}}), sess)
	require.Error(t, err)
	assert.Nil(t, a.IsAuthenticated(sess))

	flashed := a.TakeError(ctx, sess)
	require.NotNil(t, flashed)
	assert.Equal(t, MessageCommon, flashed.Errors["common"])
	assert.Equal(t, "u@test.dev", flashed.Fields["email"])

	assert.Nil(t, a.TakeError(ctx, sess), "the error is read once")
}

func TestAuthenticatorUnknownStrategy(t *testing.T) {
	m := newManager()
	a := NewAuthenticator(m, NewFormStrategy(&fakeUsers{}))

	_, err := a.Authenticate("github", formRequest(url.Values{}), newSession(t, m))
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = a.Begin(StrategyForm, newSession(t, m))
	assert.ErrorIs(t, err, ErrNotRedirecting)

	assert.True(t, a.Has(StrategyForm))
	assert.False(t, a.Has(StrategyGoogle))
}

func fakeGoogle(t *testing.T, profile map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newGoogle(srv *httptest.Server, users OAuthUsers) *GoogleStrategy {
	return NewGoogleStrategy("client", "secret", "http://app.test", users).WithEndpoint(oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}, srv.URL+"/userinfo")
}

func callback(query url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/auth/google/callback?"+query.Encode(), nil)
	return r.WithContext(ctxkeys.WithClientIP(r.Context(), "1.2.3.4"))
}

func TestGoogleStrategy(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"email": "g@test.dev", "verified_email": true})
	users := &fakeUsers{}
	m := newManager()
	a := NewAuthenticator(m, newGoogle(srv, users))
	sess := newSession(t, m)

	consent, err := a.Begin(StrategyGoogle, sess)
	require.NoError(t, err)
	consentURL, err := url.Parse(consent)
	require.NoError(t, err)
	state := consentURL.Query().Get("state")
	require.NotEmpty(t, state)
	assert.Equal(t, "http://app.test/auth/google/callback", consentURL.Query().Get("redirect_uri"))

	principal, err := a.Authenticate(StrategyGoogle, callback(url.Values{"state": {state}, "code": {"good-code"}}), sess)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, principal.Kind)
	assert.Equal(t, "g@test.dev", users.oauthHit)
	assert.Equal(t, "1.2.3.4", users.gotIP)
}

func TestGoogleStrategyRejects(t *testing.T) {
	tests := []struct {
		name    string
		profile map[string]any
		query   func(state string) url.Values
	}{
		{
			name:    "state mismatch",
			profile: map[string]any{"email": "g@test.dev"},
			query:   func(string) url.Values { return url.Values{"state": {"forged"}, "code": {"good-code"}} },
		},
		{
			name:    "provider error",
			profile: map[string]any{"email": "g@test.dev"},
			query:   func(s string) url.Values { return url.Values{"state": {s}, "error": {"access_denied"}} },
		},
		{
			name:    "bad code",
			profile: map[string]any{"email": "g@test.dev"},
			query:   func(s string) url.Values { return url.Values{"state": {s}, "code": {"bad"}} },
		},
		{
			name:    "missing email",
			profile: map[string]any{"name": "No Email"},
			query:   func(s string) url.Values { return url.Values{"state": {s}, "code": {"good-code"}} },
		},
		{
			name:    "unverified email",
			profile: map[string]any{"email": "g@test.dev", "verified_email": false},
			query:   func(s string) url.Values { return url.Values{"state": {s}, "code": {"good-code"}} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeGoogle(t, tt.profile)
			users := &fakeUsers{}
			m := newManager()
			a := NewAuthenticator(m, newGoogle(srv, users))
			sess := newSession(t, m)

			consent, err := a.Begin(StrategyGoogle, sess)
			require.NoError(t, err)
			consentURL, err := url.Parse(consent)
			require.NoError(t, err)

			_, err = a.Authenticate(StrategyGoogle, callback(tt.query(consentURL.Query().Get("state"))), sess)
			var authErr *AuthorizationError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, MessageSocial, authErr.Errors["common"])
			assert.Empty(t, users.oauthHit)
		})
	}
}
