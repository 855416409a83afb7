package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/session"
	"github.com/fanaberia/fanaberia/internal/validation"
)

const (
	StrategyForm      = "form"
	StrategyFormAdmin = "form-admin"
	StrategyGoogle    = "google"
)

// UserCredentials validates user sign-ins
type UserCredentials interface {
	ValidateCredentials(email, password, ip string) (*model.User, error)
}

// AdminCredentials validates warp sign-ins
type AdminCredentials interface {
	ValidateCredentials(email, password string) (*model.Admin, error)
}

// FormStrategy signs users in with the email/password form.
type FormStrategy struct {
	users UserCredentials
}

func NewFormStrategy(users UserCredentials) *FormStrategy {
	return &FormStrategy{users: users}
}

func (s *FormStrategy) Name() string {
	return StrategyForm
}

func (s *FormStrategy) Authenticate(r *http.Request, _ *session.Session) (*model.Principal, error) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	errs := validation.SignIn(email, password)
	if errs.Any() {
		return nil, formError(errs, email)
	}

	user, err := s.users.ValidateCredentials(email, password, ctxkeys.ClientIP(r.Context()))
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return nil, commonError(MessageCommon, email)
	case errors.Is(err, service.ErrEmailNotConfirmed):
		return nil, commonError(MessageConfirm, email)
	case err != nil:
		slog.Error("failed to validate credentials", "error", err)
		return nil, commonError(MessageCommon, email)
	}

	return model.UserPrincipal(user), nil
}

// AdminFormStrategy signs admins into warp. Admins have no confirmation step.
type AdminFormStrategy struct {
	admins AdminCredentials
}

func NewAdminFormStrategy(admins AdminCredentials) *AdminFormStrategy {
	return &AdminFormStrategy{admins: admins}
}

func (s *AdminFormStrategy) Name() string {
	return StrategyFormAdmin
}

func (s *AdminFormStrategy) Authenticate(r *http.Request, _ *session.Session) (*model.Principal, error) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	errs := validation.Admin(email, password)
	if errs.Any() {
		return nil, formError(errs, email)
	}

	admin, err := s.admins.ValidateCredentials(email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("failed to validate admin credentials", "error", err)
		}
		return nil, commonError(MessageCommon, "")
	}

	return model.AdminPrincipal(admin), nil
}
