package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/i18n"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/ui"
	"github.com/fanaberia/fanaberia/internal/ui/pages"
)

type PublicHandler struct {
	postService *service.PostService
	pageService *service.PageService
}

func NewPublicHandler(postService *service.PostService, pageService *service.PageService) *PublicHandler {
	return &PublicHandler{postService: postService, pageService: pageService}
}

// Home sends visitors to the post index of their locale.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+ctxkeys.Locale(r.Context())+"/posts", http.StatusSeeOther)
}

// locale returns the locale prefix of the path, or false when it is
// missing or unsupported.
func locale(r *http.Request) (string, bool) {
	l, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	return l, i18n.IsSupported(l)
}

func (h *PublicHandler) Posts(w http.ResponseWriter, r *http.Request) {
	l, ok := locale(r)
	if !ok {
		notFound(w, r)
		return
	}

	page, err := h.postService.ByLocale(l, pageParam(r))
	if err != nil {
		slog.Error("failed to list posts", "error", err, "locale", l)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.PostsIndex(l, page))
}

func (h *PublicHandler) Post(w http.ResponseWriter, r *http.Request) {
	l, ok := locale(r)
	if !ok {
		notFound(w, r)
		return
	}

	post, err := h.postService.BySlug(r.PathValue("slug"), l)
	if err != nil {
		if !isNotFound(err) {
			slog.Error("failed to get post", "error", err, "slug", r.PathValue("slug"))
		}
		notFound(w, r)
		return
	}

	ui.Render(w, r, pages.PostShow(post))
}

func (h *PublicHandler) Category(w http.ResponseWriter, r *http.Request) {
	l, ok := locale(r)
	if !ok {
		notFound(w, r)
		return
	}

	category, page, err := h.postService.ByCategory(r.PathValue("slug"), l, pageParam(r))
	if err != nil {
		if !isNotFound(err) {
			slog.Error("failed to list category posts", "error", err, "slug", r.PathValue("slug"))
		}
		notFound(w, r)
		return
	}

	ui.Render(w, r, pages.CategoryShow(l, category, page))
}

func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	l, ok := locale(r)
	if !ok {
		notFound(w, r)
		return
	}

	page, err := h.pageService.BySlug(r.PathValue("slug"), l)
	if err != nil {
		if !isNotFound(err) {
			slog.Error("failed to get page", "error", err, "slug", r.PathValue("slug"))
		}
		notFound(w, r)
		return
	}

	ui.Render(w, r, pages.PageShow(page))
}

func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	notFound(w, r)
}
