package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/auth"
	"github.com/fanaberia/fanaberia/internal/dbtest"
	"github.com/fanaberia/fanaberia/internal/i18n"
	"github.com/fanaberia/fanaberia/internal/markdown"
	"github.com/fanaberia/fanaberia/internal/middleware"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/session"
)

type mailbox struct {
	mu     sync.Mutex
	tokens map[string]string // kind:email -> token
}

func (m *mailbox) SendConfirmationEmail(email, token string) error {
	m.put("confirmation:"+email, token)
	return nil
}

func (m *mailbox) SendRecoveryEmail(email, token string) error {
	m.put("recovery:"+email, token)
	return nil
}

func (m *mailbox) put(key, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
}

func (m *mailbox) token(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[key]
}

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *memoryStorage) Save(path string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *memoryStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *memoryStorage) URL(path string) string {
	return "/uploads/" + path
}

func (s *memoryStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type harness struct {
	server  *httptest.Server
	mail    *mailbox
	storage *memoryStorage
	authSvc *service.AuthService
	admins  *service.AdminService
}

func newHarness(t *testing.T, strategies ...func(*service.AuthService) auth.Strategy) *harness {
	t.Helper()

	database := dbtest.Open(t)
	users := repository.NewUserRepository(database)
	categoryRepository := repository.NewCategoryRepository(database)
	parser := markdown.NewParser()

	h := &harness{
		mail:    &mailbox{tokens: map[string]string{}},
		storage: &memoryStorage{files: map[string][]byte{}},
	}
	h.authSvc = service.NewAuthService(users, h.mail, time.Hour)
	h.admins = service.NewAdminService(repository.NewAdminRepository(database))
	categories := service.NewCategoryService(categoryRepository)
	posts := service.NewPostService(repository.NewPostRepository(database), categoryRepository, parser, 9)
	pages := service.NewPageService(repository.NewPageRepository(database), parser)
	files := service.NewFileService(repository.NewFileRepository(database), h.storage)

	sessions := session.NewManager(session.NewMemoryStore(), session.NewCookieCodec("test-secret"), time.Hour, false)
	enabled := []auth.Strategy{auth.NewFormStrategy(h.authSvc), auth.NewAdminFormStrategy(h.admins)}
	for _, strategy := range strategies {
		enabled = append(enabled, strategy(h.authSvc))
	}
	authenticator := auth.NewAuthenticator(sessions, enabled...)

	public := NewPublicHandler(posts, pages)
	authHandler := NewAuthHandler(authenticator, h.authSvc)
	api := NewAPIHandler()
	warp := NewWarpHandler(authenticator, posts, categories, pages, files, service.NewUserService(users), h.admins)
	admin := middleware.RequireRole(model.RoleAdmin)
	guest := middleware.RequireGuest

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", public.Home)
	for _, l := range i18n.Locales() {
		mux.HandleFunc("GET /"+l+"/posts", public.Posts)
		mux.HandleFunc("GET /"+l+"/posts/{slug}", public.Post)
		mux.HandleFunc("GET /"+l+"/posts/categories/{slug}", public.Category)
		mux.HandleFunc("GET /"+l+"/pages/{slug}", public.Page)
	}
	mux.HandleFunc("POST /api/v1/locale", api.Locale)
	mux.HandleFunc("GET /api/v1/darkmode", api.DarkMode)
	mux.HandleFunc("POST /api/v1/darkmode", api.SetDarkMode)
	mux.HandleFunc("GET /auth/sign-in", guest(authHandler.SignInPage))
	mux.HandleFunc("POST /auth/sign-in", guest(authHandler.SignIn))
	mux.HandleFunc("POST /auth/sign-up", guest(authHandler.SignUp))
	mux.HandleFunc("POST /auth/sign-out", authHandler.SignOut)
	mux.HandleFunc("POST /auth/recover", guest(authHandler.Recover))
	mux.HandleFunc("GET /auth/recovered/{token}", guest(authHandler.RecoveredPage))
	mux.HandleFunc("POST /auth/recovered/{token}", guest(authHandler.Recovered))
	mux.HandleFunc("GET /auth/recovered-reset", guest(authHandler.RecoveredResetPage))
	mux.HandleFunc("GET /auth/confirm/{token}", authHandler.Confirm)
	mux.HandleFunc("POST /auth/{provider}", guest(authHandler.Provider))
	mux.HandleFunc("GET /warp/sign-in", guest(warp.SignInPage))
	mux.HandleFunc("POST /warp/sign-in", guest(warp.SignIn))
	mux.HandleFunc("GET /warp", admin(warp.Dashboard))
	mux.HandleFunc("POST /warp/categories/new", admin(warp.NewCategory))
	mux.HandleFunc("GET /warp/categories/{id}/show", admin(warp.ShowCategory))
	mux.HandleFunc("GET /warp/posts", admin(warp.Posts))
	mux.HandleFunc("POST /warp/posts/new", admin(warp.NewPost))
	mux.HandleFunc("GET /warp/posts/{id}/show", admin(warp.ShowPost))
	mux.HandleFunc("GET /warp/posts/{id}/edit", admin(warp.EditPostPage))
	mux.HandleFunc("POST /warp/posts/{id}/edit", admin(warp.EditPost))
	mux.HandleFunc("POST /warp/pages/new", admin(warp.NewPage))
	mux.HandleFunc("POST /warp/files/new", admin(warp.NewFile))
	mux.HandleFunc("GET /warp/files/{id}/show", admin(warp.ShowFile))
	mux.HandleFunc("POST /warp/files/{id}/delete", admin(warp.DeleteFile))
	mux.HandleFunc("GET /warp/users/{id}/show", admin(warp.ShowUser))
	mux.HandleFunc("POST /warp/admins/new", admin(warp.NewAdmin))
	mux.HandleFunc("/{path...}", public.NotFound)

	h.server = httptest.NewServer(middleware.Chain(mux,
		middleware.ClientIP,
		middleware.Session(sessions),
		middleware.LoadPrincipal(authenticator),
		middleware.Locale("en"),
	))
	t.Cleanup(h.server.Close)
	return h
}

// client returns a browser with its own cookie jar that does not follow redirects.
func (h *harness) client(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: h.server.URL, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

type page struct {
	status   int
	location string
	body     string
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.http.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return page{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (h *harness) confirmedUser(t *testing.T, email, password string) {
	t.Helper()
	_, err := h.authSvc.SignUp(email, password)
	require.NoError(t, err)
	ok, err := h.authSvc.Confirm(h.mail.token("confirmation:" + email))
	require.NoError(t, err)
	require.True(t, ok)
}

func (h *harness) signedInAdmin(t *testing.T) *browser {
	t.Helper()
	_, err := h.admins.Create("admin@example.com", "warp-secret")
	require.NoError(t, err)

	b := h.client(t)
	p := b.post("/warp/sign-in", url.Values{"email": {"admin@example.com"}, "password": {"warp-secret"}})
	require.Equal(t, http.StatusSeeOther, p.status)
	require.Equal(t, "/warp", p.location)
	return b
}

func TestLocaleRedirect(t *testing.T) {
	tests := []struct {
		referer string
		want    string
	}{
		{"http://app.test/en/posts", "/es/posts"},
		{"http://app.test/en/posts?page=2", "/es/posts"},
		{"http://app.test/ru/pages/about-us", "/es/pages/about-us"},
		{"http://app.test/en", "/es/posts"},
		{"http://app.test/warp/posts", "/warp/posts"},
		{"", "/"},
		{"http://evil.test//evil.test/path", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.referer, func(t *testing.T) {
			assert.Equal(t, tt.want, localeRedirect(tt.referer, "es"))
		})
	}
}

func TestSignUpConfirmAndSignIn(t *testing.T) {
	h := newHarness(t)
	b := h.client(t)

	p := b.post("/auth/sign-up", url.Values{
		"email":                {"reader@example.com"},
		"password":             {"Secret1"},
		"passwordConfirmation": {"Secret1"},
		"terms":                {"checked"},
	})
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/auth/sign-in?registered=true", p.location)

	// Unconfirmed accounts cannot sign in yet.
	p = b.post("/auth/sign-in", url.Values{"email": {"reader@example.com"}, "password": {"Secret1"}})
	assert.Equal(t, "/auth/sign-in", p.location)
	assert.Contains(t, b.get("/auth/sign-in").body, "Please confirm your email first")

	token := h.mail.token("confirmation:reader@example.com")
	require.Len(t, token, 64)
	p = b.get("/auth/confirm/" + token)
	assert.Equal(t, "/auth/sign-in?confirmed=true", p.location)

	p = b.get("/auth/confirm/" + token)
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "invalid or was already used")

	p = b.post("/auth/sign-in", url.Values{"email": {"reader@example.com"}, "password": {"Secret1"}})
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/", p.location)

	// Signed-in users are sent away from guest pages.
	p = b.get("/auth/sign-in")
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/", p.location)

	p = b.get("/warp")
	assert.Equal(t, "/", p.location)
}

func TestSignUpRejectsInvalidForm(t *testing.T) {
	h := newHarness(t)
	b := h.client(t)

	p := b.post("/auth/sign-up", url.Values{
		"email":                {"not-an-email"},
		"password":             {"weak"},
		"passwordConfirmation": {"other"},
	})
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "Email is not valid")
	assert.Contains(t, p.body, "You must accept the terms")
	assert.NotContains(t, p.body, "weak")

	h.confirmedUser(t, "taken@example.com", "Secret1")
	p = b.post("/auth/sign-up", url.Values{
		"email":                {"taken@example.com"},
		"password":             {"Secret1"},
		"passwordConfirmation": {"Secret1"},
		"terms":                {"checked"},
	})
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "An account with this email already exists")
}

func TestSignInErrorIsShownOnce(t *testing.T) {
	h := newHarness(t)
	h.confirmedUser(t, "reader@example.com", "Secret1")
	b := h.client(t)

	p := b.post("/auth/sign-in", url.Values{"email": {"reader@example.com"}, "password": {"Wrong1"}})
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/auth/sign-in", p.location)

	first := b.get("/auth/sign-in")
	assert.Contains(t, first.body, "Invalid email or password")
	assert.Contains(t, first.body, "reader@example.com")
	assert.NotContains(t, first.body, "Wrong1")

	assert.NotContains(t, b.get("/auth/sign-in").body, "Invalid email or password")
}

func TestRecoveryFlow(t *testing.T) {
	h := newHarness(t)
	h.confirmedUser(t, "reader@example.com", "Secret1")
	b := h.client(t)

	known := b.post("/auth/recover", url.Values{"email": {"reader@example.com"}})
	unknown := b.post("/auth/recover", url.Values{"email": {"nobody@example.com"}})
	assert.Equal(t, http.StatusOK, known.status)
	assert.Equal(t, known.status, unknown.status)
	assert.Contains(t, unknown.body, "If the account exists")

	token := h.mail.token("recovery:reader@example.com")
	require.Len(t, token, 20)
	assert.Empty(t, h.mail.token("recovery:nobody@example.com"))

	assert.Equal(t, http.StatusOK, b.get("/auth/recovered/"+token).status)

	p := b.post("/auth/recovered/"+token, url.Values{"password": {"Secret2"}, "passwordConfirmation": {"Other2"}})
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "Passwords do not match")

	p = b.post("/auth/recovered/"+token, url.Values{"password": {"Secret2"}, "passwordConfirmation": {"Secret2"}})
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/auth/sign-in?recovered=true", p.location)

	assert.Equal(t, http.StatusForbidden, b.get("/auth/recovered/"+token).status)
	assert.Equal(t, http.StatusBadRequest, b.get("/auth/recovered-reset?token="+token).status)

	p = b.post("/auth/sign-in", url.Values{"email": {"reader@example.com"}, "password": {"Secret2"}})
	assert.Equal(t, "/", p.location)
}

func TestUnknownProviderIsNotFound(t *testing.T) {
	h := newHarness(t)
	b := h.client(t)

	assert.Equal(t, http.StatusNotFound, b.post("/auth/google", nil).status)
	assert.Equal(t, http.StatusNotFound, b.post("/auth/form", nil).status)
}

func TestGoogleButtonFollowsConfiguration(t *testing.T) {
	withoutGoogle := newHarness(t).client(t)
	assert.NotContains(t, withoutGoogle.get("/auth/sign-in").body, `action="/auth/google"`)

	google := func(users *service.AuthService) auth.Strategy {
		return auth.NewGoogleStrategy("client", "secret", "http://app.test", users)
	}
	withGoogle := newHarness(t, google).client(t)
	assert.Contains(t, withGoogle.get("/auth/sign-in").body, `action="/auth/google"`)
}

func TestWarpRequiresAdmin(t *testing.T) {
	h := newHarness(t)
	b := h.client(t)

	p := b.get("/warp")
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/warp/sign-in", p.location)

	p = b.post("/warp/sign-in", url.Values{"email": {"admin@example.com"}, "password": {"wrong-password"}})
	assert.Equal(t, "/warp/sign-in", p.location)
	assert.Contains(t, b.get("/warp/sign-in").body, "Invalid email or password")

	admin := h.signedInAdmin(t)
	p = admin.get("/warp")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Categories")
}

func categoryFormValues(slug, locale string) url.Values {
	return url.Values{
		"name":        {"Travel"},
		"slug":        {slug},
		"title":       {"Travel notes"},
		"keywords":    {"travel notes"},
		"description": {"Notes from the road"},
		"heading":     {"Travel"},
		"locale":      {locale},
	}
}

func postForm(slug, categoryID string) url.Values {
	return url.Values{
		"slug":        {slug},
		"title":       {"A post title"},
		"keywords":    {"some keywords"},
		"description": {"A description"},
		"heading":     {"Crossing the Andes"},
		"summary":     {"A summary"},
		"content":     {"# Heading\n\n" + strings.Repeat("Body text. ", 10)},
		"picture":     {"https://example.com/picture.png"},
		"category_id": {categoryID},
	}
}

// idFrom extracts the record id from a /warp/{kind}/{id}/show location.
func idFrom(t *testing.T, location string) string {
	t.Helper()
	parts := strings.Split(strings.Trim(location, "/"), "/")
	require.Len(t, parts, 4, location)
	return parts[2]
}

func TestWarpContentIsPublished(t *testing.T) {
	h := newHarness(t)
	admin := h.signedInAdmin(t)

	p := admin.post("/warp/categories/new", categoryFormValues("travel", "en"))
	require.Equal(t, http.StatusSeeOther, p.status)
	categoryID := idFrom(t, p.location)
	assert.Equal(t, http.StatusOK, admin.get(p.location).status)

	invalid := postForm("Bad Slug", categoryID)
	p = admin.post("/warp/posts/new", invalid)
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "Only lowercase letters, numbers and hyphens")

	p = admin.post("/warp/posts/new", postForm("andes-trip", categoryID))
	require.Equal(t, http.StatusSeeOther, p.status)
	postPath := p.location

	p = admin.post("/warp/posts/new", postForm("andes-trip", categoryID))
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "This slug is already taken")

	show := admin.get(postPath)
	assert.Equal(t, http.StatusOK, show.status)
	assert.Contains(t, show.body, "Heading</h1>")

	visitor := h.client(t)
	assert.Contains(t, visitor.get("/en/posts").body, "Crossing the Andes")
	assert.Contains(t, visitor.get("/en/posts/categories/travel").body, "Crossing the Andes")
	assert.Equal(t, http.StatusOK, visitor.get("/en/posts/andes-trip").status)
	assert.Equal(t, http.StatusNotFound, visitor.get("/es/posts/andes-trip").status)
	assert.Equal(t, http.StatusNotFound, visitor.get("/de/posts").status)

	edited := postForm("andes-trip", categoryID)
	edited.Set("heading", "Over the Andes")
	p = admin.post("/warp/posts/"+idFrom(t, postPath)+"/edit", edited)
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, postPath, p.location)
	assert.Contains(t, visitor.get("/en/posts").body, "Over the Andes")

	assert.Equal(t, http.StatusNotFound, admin.get("/warp/posts/999/show").status)
	assert.Equal(t, http.StatusNotFound, admin.get("/warp/posts/abc/edit").status)
}

func TestWarpPageValidation(t *testing.T) {
	h := newHarness(t)
	admin := h.signedInAdmin(t)

	p := admin.post("/warp/pages/new", url.Values{"name": {"About"}, "slug": {"about-us"}, "locale": {"de"}, "content": {"Too short"}})
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "Unsupported language")
	assert.Contains(t, p.body, "Content must be at least 50 characters long")
}

func TestWarpFileUploadAndDelete(t *testing.T) {
	h := newHarness(t)
	admin := h.signedInAdmin(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("alt", "A pixel"))
	part, err := form.CreateFormFile("file", "pixel.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, admin.base+"/warp/files/new", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	p := admin.do(req)
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, 1, h.storage.count())

	show := admin.get(p.location)
	assert.Equal(t, http.StatusOK, show.status)
	assert.Contains(t, show.body, "pixel.png")
	assert.Contains(t, show.body, "A pixel")

	p = admin.post("/warp/files/"+idFrom(t, p.location)+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/warp/files", p.location)
	assert.Equal(t, 0, h.storage.count())
}

func TestWarpFileUploadRequiresFile(t *testing.T) {
	h := newHarness(t)
	admin := h.signedInAdmin(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("alt", "Nothing"))
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, admin.base+"/warp/files/new", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	p := admin.do(req)
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "Choose a file")
}

func TestWarpAdmins(t *testing.T) {
	h := newHarness(t)
	admin := h.signedInAdmin(t)

	p := admin.post("/warp/admins/new", url.Values{"email": {"second@example.com"}, "password": {"another-secret"}})
	require.Equal(t, http.StatusSeeOther, p.status)

	p = admin.post("/warp/admins/new", url.Values{"email": {"second@example.com"}, "password": {"another-secret"}})
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "An account with this email already exists")
	assert.NotContains(t, p.body, "another-secret")

	p = admin.post("/warp/admins/new", url.Values{"email": {"third@example.com"}, "password": {"short"}})
	assert.Equal(t, http.StatusBadRequest, p.status)
	assert.Contains(t, p.body, "Password is too short")
}

func TestWarpShowsUserWithoutSecrets(t *testing.T) {
	h := newHarness(t)
	h.confirmedUser(t, "reader@example.com", "Secret1")
	admin := h.signedInAdmin(t)

	p := admin.get("/warp/users/1/show")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "reader@example.com")
	assert.NotContains(t, p.body, "$2a$")
}

func TestPreferences(t *testing.T) {
	h := newHarness(t)
	b := h.client(t)

	assert.JSONEq(t, `{"isDarkMode":true}`, b.get("/api/v1/darkmode").body)
	assert.JSONEq(t, `{"isDarkMode":false}`, b.post("/api/v1/darkmode", url.Values{"isDarkMode": {"false"}}).body)
	assert.JSONEq(t, `{"isDarkMode":false}`, b.get("/api/v1/darkmode").body)

	req, err := http.NewRequest(http.MethodPost, b.base+"/api/v1/locale", strings.NewReader("locale=ru"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", b.base+"/en/posts")
	p := b.do(req)
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/ru/posts", p.location)

	// The stored locale now drives unprefixed pages.
	assert.Equal(t, "/ru/posts", b.get("/").location)

	assert.Equal(t, http.StatusBadRequest, b.post("/api/v1/locale", url.Values{"locale": {"de"}}).status)
}

func TestNotFound(t *testing.T) {
	h := newHarness(t)
	p := h.client(t).get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, p.status)
	assert.Contains(t, p.body, "Page not found")
}
