package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fanaberia/fanaberia/internal/token"
)

const (
	CookieName = "fanaberia_session"
	idLength   = 32
	flashTTL   = 10 * time.Minute
)

type Session struct {
	id        string
	values    map[string]string
	dirty     bool
	destroyed bool
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Get(key string) string {
	return s.values[key]
}

func (s *Session) Set(key, value string) {
	if old, ok := s.values[key]; ok && old == value {
		return
	}
	s.values[key] = value
	s.dirty = true
}

func (s *Session) Unset(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// Manager binds sessions to requests through a signed cookie.
type Manager struct {
	store  Store
	codec  *CookieCodec
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, codec *CookieCodec, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, codec: codec, ttl: ttl, secure: secure}
}

func newID() (string, error) {
	return token.Generate(idLength)
}

// Load returns the request's session, or a new unsaved one when the cookie is
// missing, tampered with, or points at an expired session.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		id, err := m.codec.Decode(cookie.Value)
		if err == nil {
			values, err := m.store.Load(r.Context(), id)
			if err == nil {
				return &Session{id: id, values: values}, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
	}

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	return &Session{id: id, values: make(map[string]string)}, nil
}

// Commit persists a modified session and refreshes its cookie.
// Unmodified sessions are left alone, so a response that never touches the
// session (robots.txt, assets, redirects) sets no cookie.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.destroyed || !s.dirty {
		return nil
	}

	err := m.store.Save(ctx, s.id, s.values, m.ttl)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(m.ttl)
	value, err := m.codec.Encode(s.id, expiresAt)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.dirty = false
	return nil
}

// Regenerate moves the session to a fresh id, used on privilege changes.
func (m *Manager) Regenerate(ctx context.Context, s *Session) error {
	oldID := s.id
	id, err := newID()
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}

	err = m.store.Delete(ctx, oldID)
	if err != nil {
		slog.Warn("failed to delete previous session", "error", err)
	}

	s.id = id
	s.dirty = true
	return nil
}

func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	s.destroyed = true
	s.values = make(map[string]string)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return m.store.Delete(ctx, s.id)
}

// Flash parks value under key until the next TakeFlash for this session.
func (m *Manager) Flash(ctx context.Context, s *Session, key, value string) error {
	// The cookie must reach the browser even if nothing else changed.
	s.dirty = true
	return m.store.PushFlash(ctx, s.id, key, value, flashTTL)
}

// TakeFlash returns and clears the flash stored under key.
func (m *Manager) TakeFlash(ctx context.Context, s *Session, key string) (string, bool) {
	value, ok, err := m.store.PopFlash(ctx, s.id, key)
	if err != nil {
		slog.Warn("failed to read flash", "error", err, "key", key)
		return "", false
	}
	return value, ok
}
