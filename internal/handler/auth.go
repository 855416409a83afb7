package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fanaberia/fanaberia/internal/auth"
	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/ui"
	"github.com/fanaberia/fanaberia/internal/ui/pages"
	"github.com/fanaberia/fanaberia/internal/validation"
)

type AuthHandler struct {
	authenticator *auth.Authenticator
	authService   *service.AuthService
}

func NewAuthHandler(authenticator *auth.Authenticator, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, authService: authService}
}

var signInNotices = map[string]string{
	"confirmed":  "auth.notice.confirmed",
	"recovered":  "auth.notice.recovered",
	"registered": "auth.notice.registered",
}

// SignInPage shows the form with the last rejection, which is consumed.
func (h *AuthHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	state := authState(h.authenticator.TakeError(r.Context(), ctxkeys.Session(r.Context())))
	for param, notice := range signInNotices {
		if r.URL.Query().Get(param) == "true" {
			state.Notice = notice
		}
	}
	ui.Render(w, r, pages.SignIn(state, h.google()))
}

func (h *AuthHandler) google() bool {
	return h.authenticator.Has(auth.StrategyGoogle)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	authenticate(h.authenticator, w, r, auth.StrategyForm, model.RoleUser)
}

// authenticate runs a strategy and redirects to the role's index on success
// or back to its sign-in page, where the flashed error is shown.
func authenticate(a *auth.Authenticator, w http.ResponseWriter, r *http.Request, strategy string, role model.Role) {
	_, err := a.Authenticate(strategy, r, ctxkeys.Session(r.Context()))
	if err != nil {
		var authErr *auth.AuthorizationError
		if !errors.As(err, &authErr) {
			slog.Error("failed to authenticate", "error", err, "strategy", strategy)
		}
		http.Redirect(w, r, auth.SignInPath(role), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, auth.IndexPath(role), http.StatusSeeOther)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	signOut(h.authenticator, w, r)
}

func signOut(a *auth.Authenticator, w http.ResponseWriter, r *http.Request) {
	err := a.Logout(r.Context(), w, ctxkeys.Session(r.Context()))
	if err != nil {
		slog.Error("failed to sign out", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.SignUp(pages.FormState{}, h.google()))
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")
	password := r.PostFormValue("password")
	terms := r.PostFormValue("terms")
	fields := map[string]string{"email": email, "terms": terms}

	errs := validation.SignUp(email, password, r.PostFormValue("passwordConfirmation"), terms)
	if errs.Any() {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.SignUp(pages.FormState{Errors: errs, Fields: fields}, h.google()))
		return
	}

	_, err := h.authService.SignUp(email, password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			state := pages.FormState{Errors: map[string]string{"email": "auth.error.exists"}, Fields: fields}
			ui.RenderStatus(w, r, http.StatusBadRequest, pages.SignUp(state, h.google()))
			return
		}
		slog.Error("failed to sign up", "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.SignUp(dbErrorState(fields), h.google()))
		return
	}

	http.Redirect(w, r, "/auth/sign-in?registered=true", http.StatusSeeOther)
}

func (h *AuthHandler) RecoverPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Recover(pages.FormState{}))
}

// Recover answers the same way whether or not the email has an account.
func (h *AuthHandler) Recover(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")

	errs := validation.Recovery(email)
	if errs.Any() {
		state := pages.FormState{Errors: errs, Fields: map[string]string{"email": email}}
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Recover(state))
		return
	}

	h.authService.RequestRecovery(email)
	ui.Render(w, r, pages.Recover(pages.FormState{Notice: "auth.notice.recover"}))
}

// RecoveredPage serves /auth/recovered/{token}, the link sent by email.
func (h *AuthHandler) RecoveredPage(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	h.recoveredPage(w, r, token, "/auth/recovered/"+url.PathEscape(token), http.StatusForbidden)
}

func (h *AuthHandler) Recovered(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	h.recovered(w, r, token, "/auth/recovered/"+url.PathEscape(token), http.StatusForbidden)
}

// RecoveredResetPage serves /auth/recovered-reset?token=.
func (h *AuthHandler) RecoveredResetPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	h.recoveredPage(w, r, token, "/auth/recovered-reset?token="+url.QueryEscape(token), http.StatusBadRequest)
}

func (h *AuthHandler) RecoveredReset(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	h.recovered(w, r, token, "/auth/recovered-reset?token="+url.QueryEscape(token), http.StatusBadRequest)
}

func (h *AuthHandler) isRecovering(token string) bool {
	recovering, err := h.authService.IsRecovering(token)
	if err != nil {
		slog.Error("failed to check recovery token", "error", err)
		return false
	}
	return recovering
}

func (h *AuthHandler) recoveredPage(w http.ResponseWriter, r *http.Request, token, action string, impossibleStatus int) {
	if !h.isRecovering(token) {
		ui.RenderStatus(w, r, impossibleStatus, pages.Recovered(action, pages.FormState{}, true))
		return
	}
	ui.Render(w, r, pages.Recovered(action, pages.FormState{}, false))
}

func (h *AuthHandler) recovered(w http.ResponseWriter, r *http.Request, token, action string, impossibleStatus int) {
	if !h.isRecovering(token) {
		ui.RenderStatus(w, r, impossibleStatus, pages.Recovered(action, pages.FormState{}, true))
		return
	}

	password := r.PostFormValue("password")
	errs := validation.Recovered(password, r.PostFormValue("passwordConfirmation"))
	if errs.Any() {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Recovered(action, pages.FormState{Errors: errs}, false))
		return
	}

	ok, err := h.authService.CompleteRecovery(token, password)
	if err != nil {
		slog.Error("failed to complete recovery", "error", err)
	}
	if !ok {
		ui.RenderStatus(w, r, impossibleStatus, pages.Recovered(action, pages.FormState{}, true))
		return
	}

	http.Redirect(w, r, "/auth/sign-in?recovered=true", http.StatusSeeOther)
}

// Confirm serves /auth/confirm/{token}.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.confirm(w, r, r.PathValue("token"))
}

// ConfirmQuery serves /auth/confirm?token=.
func (h *AuthHandler) ConfirmQuery(w http.ResponseWriter, r *http.Request) {
	h.confirm(w, r, r.URL.Query().Get("token"))
}

func (h *AuthHandler) confirm(w http.ResponseWriter, r *http.Request, token string) {
	confirmed, err := h.authService.Confirm(token)
	if err != nil {
		slog.Error("failed to confirm email", "error", err)
	}
	if !confirmed {
		ui.Render(w, r, pages.ConfirmFailed())
		return
	}
	http.Redirect(w, r, "/auth/sign-in?confirmed=true", http.StatusSeeOther)
}

// Provider starts an OAuth sign-in. Unknown providers are not found.
func (h *AuthHandler) Provider(w http.ResponseWriter, r *http.Request) {
	consentURL, err := h.authenticator.Begin(r.PathValue("provider"), ctxkeys.Session(r.Context()))
	if err != nil {
		if errors.Is(err, auth.ErrUnknownStrategy) || errors.Is(err, auth.ErrNotRedirecting) {
			notFound(w, r)
			return
		}
		slog.Error("failed to start oauth sign in", "error", err)
		http.Redirect(w, r, auth.SignInPath(model.RoleUser), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, consentURL, http.StatusSeeOther)
}

// ProviderPage sends stray GETs back to the sign-in page.
func (h *AuthHandler) ProviderPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, auth.SignInPath(model.RoleUser), http.StatusSeeOther)
}

// GoogleCallback finishes a Google sign-in started by Provider.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	authenticate(h.authenticator, w, r, auth.StrategyGoogle, model.RoleUser)
}
