package middleware

import (
	"log/slog"
	"net/http"

	"github.com/fanaberia/fanaberia/internal/auth"
	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/session"
)

// sessionWriter commits the session right before the first byte of the
// response, while headers can still carry the cookie.
type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) flush() {
	if !w.committed {
		w.committed = true
		w.commit()
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Session loads the visitor's session into the context and persists changes
// made by the handler.
func Session(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r)
			if err != nil {
				slog.Error("failed to load session", "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			sw := &sessionWriter{ResponseWriter: w}
			sw.commit = func() {
				err := sessions.Commit(r.Context(), w, sess)
				if err != nil {
					slog.Error("failed to save session", "error", err)
				}
			}

			ctx := ctxkeys.WithSession(r.Context(), sess)
			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.flush()
		})
	}
}

// LoadPrincipal adds the signed-in principal, if any, to the context.
// Must run after Session.
func LoadPrincipal(authenticator *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := authenticator.IsAuthenticated(ctxkeys.Session(r.Context()))
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := ctxkeys.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets through only principals of the given kind. Everyone else
// is redirected: anonymous visitors to the role's sign-in page, other
// principals to their own index.
func RequireRole(role model.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			redirect, ok := auth.RequireRole(ctxkeys.Principal(r.Context()), role)
			if !ok {
				http.Redirect(w, r, redirect, http.StatusSeeOther)
				return
			}
			next(w, r)
		}
	}
}

// RequireGuest keeps signed-in principals away from sign-in and sign-up pages.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxkeys.Principal(r.Context())
		if principal != nil {
			http.Redirect(w, r, auth.IndexPath(principal.Kind), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
