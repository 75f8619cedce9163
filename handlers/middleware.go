package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"itbudget/admin"
	"itbudget/internal/apperr"
	"itbudget/selection"
)

type contextKey string

const (
	SessionKey   contextKey = "session"
	PrincipalKey contextKey = "principal"

	// AdminCookie carries the admin sign-in token.
	AdminCookie = "budget_admin"
)

// GetSession extracts the questionnaire state from the request context.
func GetSession(r *http.Request) *selection.State {
	if val, ok := r.Context().Value(SessionKey).(*selection.State); ok {
		return val
	}
	return nil
}

// sessionOrEmpty returns the request's session, or a blank unregistered
// one for reads that arrive before any session exists.
func sessionOrEmpty(r *http.Request) *selection.State {
	if st := GetSession(r); st != nil {
		return st
	}
	return selection.New("")
}

// GetPrincipal extracts the signed-in admin from the request context.
func GetPrincipal(r *http.Request) (admin.Principal, bool) {
	p, ok := r.Context().Value(PrincipalKey).(admin.Principal)
	return p, ok
}

// SessionMiddleware reads the session cookie and stores the matching
// questionnaire state in the request context. A new session, and cookie, is
// only issued for requests that change questionnaire state; reads without a
// session see an empty questionnaire.
func SessionMiddleware(env *Env) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var id string
		if cookie, err := e.Request.Cookie(env.SessionCookie); err == nil {
			id = cookie.Value
		}

		var st *selection.State
		if startsSession(e.Request) {
			var created bool
			st, created = env.Sessions.GetOrCreate(id)
			if created {
				if id != "" {
					env.Logger.Debug("middleware: unknown session, starting a new one", zap.String("session", id))
				}
				env.Logger.Debug("middleware: session started",
					zap.String("session", st.ID()), zap.Int("sessions", env.Sessions.Len()))
				http.SetCookie(e.Response, &http.Cookie{
					Name:     env.SessionCookie,
					Value:    st.ID(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
		} else if id != "" {
			st, _ = env.Sessions.Get(id)
		}

		if st != nil {
			ctx := context.WithValue(e.Request.Context(), SessionKey, st)
			e.Request = e.Request.WithContext(ctx)
		}
		return e.Next()
	}
}

// sessionRoutes are the path prefixes whose writes open a questionnaire.
var sessionRoutes = []string{"/session/", "/import", "/draft", "/submit"}

func startsSession(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	for _, prefix := range sessionRoutes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// RequireAdmin rejects requests without a valid admin sign-in cookie and
// stores the principal in the request context.
func RequireAdmin(env *Env) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cookie, err := e.Request.Cookie(AdminCookie)
		if err != nil || cookie.Value == "" {
			return respondError(env, e, apperr.Unauthorized("admin sign-in required"))
		}
		p, ok := env.principal(cookie.Value)
		if !ok {
			return respondError(env, e, apperr.Unauthorized("admin session expired"))
		}

		ctx := context.WithValue(e.Request.Context(), PrincipalKey, p)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

func newAdminToken() string {
	return uuid.NewString()
}
