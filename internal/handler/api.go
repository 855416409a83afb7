package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/i18n"
	"github.com/fanaberia/fanaberia/internal/middleware"
)

// APIHandler serves /api/v1: visitor preferences kept in the session.
type APIHandler struct{}

func NewAPIHandler() *APIHandler {
	return &APIHandler{}
}

// Locale stores the chosen locale and sends the visitor back to the page
// they came from, rewritten to the new locale where the path carries one.
func (h *APIHandler) Locale(w http.ResponseWriter, r *http.Request) {
	locale := r.PostFormValue("locale")
	if !i18n.IsSupported(locale) {
		http.Error(w, "unsupported locale", http.StatusBadRequest)
		return
	}
	ctxkeys.Session(r.Context()).Set(middleware.LocaleSessionKey, locale)

	http.Redirect(w, r, localeRedirect(r.Header.Get("Referer"), locale), http.StatusSeeOther)
}

// localeRedirect keeps only the referer path, never its host.
func localeRedirect(referer, locale string) string {
	path := "/"
	if u, err := url.Parse(referer); err == nil && u.Path != "" {
		path = u.Path
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		path = "/"
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if !i18n.IsSupported(segments[0]) {
		return path
	}
	switch {
	case len(segments) >= 2 && segments[1] == "posts":
		return "/" + locale + "/posts"
	case len(segments) >= 3 && segments[1] == "pages":
		return "/" + locale + "/pages/" + segments[2]
	default:
		return "/" + locale + "/posts"
	}
}

type darkModeResponse struct {
	IsDarkMode bool `json:"isDarkMode"`
}

func (h *APIHandler) DarkMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, darkModeResponse{IsDarkMode: ctxkeys.DarkMode(r.Context())})
}

// SetDarkMode stores isDarkMode. Missing or unparsable values fall back to on.
func (h *APIHandler) SetDarkMode(w http.ResponseWriter, r *http.Request) {
	dark, err := strconv.ParseBool(r.PostFormValue("isDarkMode"))
	if err != nil {
		dark = true
	}
	ctxkeys.Session(r.Context()).Set(middleware.DarkModeSessionKey, strconv.FormatBool(dark))
	writeJSON(w, darkModeResponse{IsDarkMode: dark})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write json", "error", err)
	}
}
