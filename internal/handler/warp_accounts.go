package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/ui"
	c "github.com/fanaberia/fanaberia/internal/ui/components"
	"github.com/fanaberia/fanaberia/internal/ui/pages"
	"github.com/fanaberia/fanaberia/internal/validation"
)

func (h *WarpHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.All()
	if err != nil {
		slog.Error("failed to list users", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows := make([][]string, 0, len(users))
	hrefs := make([]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Email, formatOptionalTime(u.ConfirmedAt), strconv.Itoa(u.SignInCount), formatTime(u.CreatedAt)})
		hrefs = append(hrefs, showPath("users", u.ID))
	}
	headers := []string{"field.email", "field.confirmed_at", "field.sign_in_count", "field.created_at"}
	ui.Render(w, r, pages.WarpIndex("warp.users", "", headers, rows, hrefs))
}

func (h *WarpHandler) ShowUser(w http.ResponseWriter, r *http.Request) {
	user, ok := warpRecord(w, r, h.userService.ByID)
	if !ok {
		return
	}

	provider := "-"
	if user.OAuthProvider != nil {
		provider = *user.OAuthProvider
	}
	ip := func(v *string) string {
		if v == nil {
			return "-"
		}
		return *v
	}

	details := c.Details(
		"field.email", user.Email,
		"field.provider", provider,
		"field.confirmed_at", formatOptionalTime(user.ConfirmedAt),
		"field.sign_in_count", strconv.Itoa(user.SignInCount),
		"field.current_sign_in_at", formatOptionalTime(user.CurrentSignInAt),
		"field.current_sign_in_ip", ip(user.CurrentSignInIP),
		"field.last_sign_in_at", formatOptionalTime(user.LastSignInAt),
		"field.last_sign_in_ip", ip(user.LastSignInIP),
		"field.created_at", formatTime(user.CreatedAt),
	)
	ui.Render(w, r, pages.WarpShow("warp.users", "", "", details))
}

func adminForm(action string) func(pages.FormState) templ.Component {
	return func(state pages.FormState) templ.Component {
		return pages.WarpForm("warp.admins", action, false, state, []c.Field{
			{Name: "email", Label: "field.email", Type: "email", Value: state.Value("email"), Error: state.Err("email"), Required: true},
			{Name: "password", Label: "form.password", Type: "password", Error: state.Err("password"), Required: true},
		})
	}
}

func (h *WarpHandler) Admins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.All()
	if err != nil {
		slog.Error("failed to list admins", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows := make([][]string, 0, len(admins))
	hrefs := make([]string, 0, len(admins))
	for _, a := range admins {
		rows = append(rows, []string{a.Email, formatTime(a.CreatedAt)})
		hrefs = append(hrefs, showPath("admins", a.ID))
	}
	headers := []string{"field.email", "field.created_at"}
	ui.Render(w, r, pages.WarpIndex("warp.admins", "/warp/admins/new", headers, rows, hrefs))
}

func (h *WarpHandler) NewAdminPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, adminForm("/warp/admins/new")(pages.FormState{}))
}

// adminSaveFailed maps a failed create or update onto the admin form.
// Passwords are never sent back.
func adminSaveFailed(w http.ResponseWriter, r *http.Request, err error, email, action string) {
	fields := map[string]string{"email": email}
	if errors.Is(err, service.ErrEmailAlreadyExists) {
		state := pages.FormState{Errors: map[string]string{"email": "auth.error.exists"}, Fields: fields}
		ui.RenderStatus(w, r, http.StatusBadRequest, adminForm(action)(state))
		return
	}
	saveFailed(w, r, err, fields, adminForm(action))
}

func (h *WarpHandler) NewAdmin(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")
	password := r.PostFormValue("password")

	errs := validation.Admin(email, password)
	if errs.Any() {
		adminSaveFailed(w, r, errs, email, "/warp/admins/new")
		return
	}

	admin, err := h.adminService.Create(email, password)
	if err != nil {
		adminSaveFailed(w, r, err, email, "/warp/admins/new")
		return
	}
	http.Redirect(w, r, showPath("admins", admin.ID), http.StatusSeeOther)
}

func (h *WarpHandler) ShowAdmin(w http.ResponseWriter, r *http.Request) {
	admin, ok := warpRecord(w, r, h.adminService.ByID)
	if !ok {
		return
	}

	details := c.Details(
		"field.email", admin.Email,
		"field.created_at", formatTime(admin.CreatedAt),
		"field.updated_at", formatTime(admin.UpdatedAt),
	)
	ui.Render(w, r, pages.WarpShow("warp.admins", editPath("admins", admin.ID), "", details))
}

func (h *WarpHandler) EditAdminPage(w http.ResponseWriter, r *http.Request) {
	admin, ok := warpRecord(w, r, h.adminService.ByID)
	if !ok {
		return
	}
	state := pages.FormState{Fields: map[string]string{"email": admin.Email}}
	ui.Render(w, r, adminForm(editPath("admins", admin.ID))(state))
}

func (h *WarpHandler) EditAdmin(w http.ResponseWriter, r *http.Request) {
	admin, ok := warpRecord(w, r, h.adminService.ByID)
	if !ok {
		return
	}

	email := formValue(r, "email")
	password := r.PostFormValue("password")
	action := editPath("admins", admin.ID)

	errs := validation.Admin(email, password)
	if errs.Any() {
		adminSaveFailed(w, r, errs, email, action)
		return
	}

	_, err := h.adminService.Update(admin.ID, email, password)
	if err != nil {
		adminSaveFailed(w, r, err, email, action)
		return
	}
	http.Redirect(w, r, showPath("admins", admin.ID), http.StatusSeeOther)
}
