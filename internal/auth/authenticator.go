// Package auth signs principals in through a fixed set of strategies and
// decides role-gated access.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/session"
)

const (
	// ErrorKey is the flash slot holding the last rejected sign-in.
	ErrorKey     = "sessionErrorKey"
	principalKey = "principal"
)

// Strategy is one way of proving identity.
type Strategy interface {
	Name() string
	Authenticate(r *http.Request, sess *session.Session) (*model.Principal, error)
}

// Redirector is implemented by strategies that send the browser to a
// provider before Authenticate can run.
type Redirector interface {
	Begin(sess *session.Session) (string, error)
}

type Authenticator struct {
	sessions   *session.Manager
	strategies map[string]Strategy
}

func NewAuthenticator(sessions *session.Manager, strategies ...Strategy) *Authenticator {
	byName := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		byName[s.Name()] = s
	}
	return &Authenticator{sessions: sessions, strategies: byName}
}

// Has reports whether the strategy is configured.
func (a *Authenticator) Has(name string) bool {
	_, ok := a.strategies[name]
	return ok
}

func (a *Authenticator) strategy(name string) (Strategy, error) {
	s, ok := a.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Begin returns the provider URL for a redirecting strategy.
func (a *Authenticator) Begin(name string, sess *session.Session) (string, error) {
	s, err := a.strategy(name)
	if err != nil {
		return "", err
	}
	redirector, ok := s.(Redirector)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotRedirecting, name)
	}
	return redirector.Begin(sess)
}

// Authenticate runs the named strategy. On success the session id is
// regenerated and the principal stored. On rejection the AuthorizationError
// is flashed under ErrorKey for one read and also returned.
func (a *Authenticator) Authenticate(name string, r *http.Request, sess *session.Session) (*model.Principal, error) {
	s, err := a.strategy(name)
	if err != nil {
		return nil, err
	}

	principal, err := s.Authenticate(r, sess)
	if err != nil {
		var authErr *AuthorizationError
		if !errors.As(err, &authErr) {
			slog.Error("authentication strategy failed", "error", err, "strategy", name)
			authErr = commonError(MessageCommon, "")
		}
		a.flashError(r.Context(), sess, authErr)
		return nil, authErr
	}

	err = a.Login(r.Context(), sess, principal)
	if err != nil {
		return nil, err
	}

	slog.Info("signed in", "strategy", name, "kind", principal.Kind, "id", principal.ID)
	return principal, nil
}

func (a *Authenticator) flashError(ctx context.Context, sess *session.Session, authErr *AuthorizationError) {
	value, err := authErr.encode()
	if err == nil {
		err = a.sessions.Flash(ctx, sess, ErrorKey, value)
	}
	if err != nil {
		slog.Error("failed to store authorization error", "error", err)
	}
}

// Login stores principal in a freshly regenerated session.
func (a *Authenticator) Login(ctx context.Context, sess *session.Session, principal *model.Principal) error {
	data, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("failed to encode principal: %w", err)
	}

	err = a.sessions.Regenerate(ctx, sess)
	if err != nil {
		return err
	}
	sess.Set(principalKey, string(data))
	return nil
}

// IsAuthenticated returns the session's principal, or nil.
func (a *Authenticator) IsAuthenticated(sess *session.Session) *model.Principal {
	if sess == nil {
		return nil
	}
	value := sess.Get(principalKey)
	if value == "" {
		return nil
	}

	principal := &model.Principal{}
	err := json.Unmarshal([]byte(value), principal)
	if err != nil {
		slog.Warn("failed to decode session principal", "error", err)
		return nil
	}
	return principal
}

// Logout destroys the session and expires its cookie.
func (a *Authenticator) Logout(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	return a.sessions.Destroy(ctx, w, sess)
}

// TakeError returns the flashed AuthorizationError, clearing it.
func (a *Authenticator) TakeError(ctx context.Context, sess *session.Session) *AuthorizationError {
	value, ok := a.sessions.TakeFlash(ctx, sess, ErrorKey)
	if !ok {
		return nil
	}
	authErr, err := decodeAuthorizationError(value)
	if err != nil {
		slog.Warn("failed to decode authorization error", "error", err)
		return nil
	}
	return authErr
}
