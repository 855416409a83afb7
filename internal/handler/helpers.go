package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fanaberia/fanaberia/internal/auth"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/ui"
	"github.com/fanaberia/fanaberia/internal/ui/pages"
	"github.com/fanaberia/fanaberia/internal/validation"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrPostNotFound) ||
		errors.Is(err, repository.ErrCategoryNotFound) ||
		errors.Is(err, repository.ErrPageNotFound) ||
		errors.Is(err, repository.ErrFileNotFound) ||
		errors.Is(err, repository.ErrUserNotFound) ||
		errors.Is(err, repository.ErrAdminNotFound)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

// pathID parses the {id} path value. ok is false for anything but a
// positive integer.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// authState turns a flashed rejection into form state.
func authState(authErr *auth.AuthorizationError) pages.FormState {
	if authErr == nil {
		return pages.FormState{}
	}
	return pages.FormState{Errors: authErr.Errors, Fields: authErr.Fields}
}

// validationState extracts field errors from err, or reports false when err
// is not a validation failure.
func validationState(err error, fields map[string]string) (pages.FormState, bool) {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return pages.FormState{}, false
	}
	return pages.FormState{Errors: errs, Fields: fields}, true
}

// dbErrorState is shown when a write fails for reasons the user can't fix.
func dbErrorState(fields map[string]string) pages.FormState {
	return pages.FormState{Errors: map[string]string{"common": "error.db"}, Fields: fields}
}
