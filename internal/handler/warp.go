package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fanaberia/fanaberia/internal/auth"
	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/i18n"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/ui"
	"github.com/fanaberia/fanaberia/internal/ui/components"
	"github.com/fanaberia/fanaberia/internal/ui/pages"
)

// WarpHandler serves the admin CMS under /warp.
type WarpHandler struct {
	authenticator   *auth.Authenticator
	postService     *service.PostService
	categoryService *service.CategoryService
	pageService     *service.PageService
	fileService     *service.FileService
	userService     *service.UserService
	adminService    *service.AdminService
}

func NewWarpHandler(
	authenticator *auth.Authenticator,
	postService *service.PostService,
	categoryService *service.CategoryService,
	pageService *service.PageService,
	fileService *service.FileService,
	userService *service.UserService,
	adminService *service.AdminService,
) *WarpHandler {
	return &WarpHandler{
		authenticator:   authenticator,
		postService:     postService,
		categoryService: categoryService,
		pageService:     pageService,
		fileService:     fileService,
		userService:     userService,
		adminService:    adminService,
	}
}

func (h *WarpHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	state := authState(h.authenticator.TakeError(r.Context(), ctxkeys.Session(r.Context())))
	ui.Render(w, r, pages.WarpSignIn(state))
}

func (h *WarpHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	authenticate(h.authenticator, w, r, auth.StrategyFormAdmin, model.RoleAdmin)
}

func (h *WarpHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	signOut(h.authenticator, w, r)
}

func (h *WarpHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts := []struct {
		key   string
		href  string
		count func() (int, error)
	}{
		{"warp.posts", "/warp/posts", func() (int, error) { return count(h.postService.All()) }},
		{"warp.categories", "/warp/categories", func() (int, error) { return count(h.categoryService.All()) }},
		{"warp.pages", "/warp/pages", func() (int, error) { return count(h.pageService.All()) }},
		{"warp.files", "/warp/files", func() (int, error) { return count(h.fileService.All()) }},
		{"warp.users", "/warp/users", func() (int, error) { return count(h.userService.All()) }},
		{"warp.admins", "/warp/admins", func() (int, error) { return count(h.adminService.All()) }},
	}

	stats := make([]pages.WarpStat, 0, len(counts))
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			slog.Error("failed to count records", "error", err, "section", c.key)
		}
		stats = append(stats, pages.WarpStat{Key: c.key, Href: c.href, Count: n})
	}

	ui.Render(w, r, pages.WarpDashboard(stats))
}

func count[E any](items []E, err error) (int, error) {
	return len(items), err
}

// warpRecord loads the {id} record with load, rendering 404 when the id is
// malformed or unknown. ok is false when a response has been written.
func warpRecord[E any](w http.ResponseWriter, r *http.Request, load func(int64) (E, error)) (E, bool) {
	var zero E
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return zero, false
	}

	record, err := load(id)
	if err != nil {
		if !isNotFound(err) {
			slog.Error("failed to load record", "error", err, "path", r.URL.Path)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return zero, false
		}
		notFound(w, r)
		return zero, false
	}
	return record, true
}

func showPath(kind string, id int64) string {
	return "/warp/" + kind + "/" + strconv.FormatInt(id, 10) + "/show"
}

func editPath(kind string, id int64) string {
	return "/warp/" + kind + "/" + strconv.FormatInt(id, 10) + "/edit"
}

func localeOptions() []components.Option {
	locales := i18n.Locales()
	options := make([]components.Option, 0, len(locales))
	for _, l := range locales {
		options = append(options, components.Option{Value: l, Label: l})
	}
	return options
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}
