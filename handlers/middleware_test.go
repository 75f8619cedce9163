package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itbudget/selection"
	"itbudget/submission"
)

func TestGetSession_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetSession(req); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestSessionMiddleware_CreatesSessionAndCookie(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/session/services", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(env.App, req, rec)

	require.NoError(t, SessionMiddleware(env)(e))

	st := GetSession(e.Request)
	require.NotNil(t, st)
	assert.Equal(t, 1, env.Sessions.Len())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "budget_session", cookies[0].Name)
	assert.Equal(t, st.ID(), cookies[0].Value)
}

func TestSessionMiddleware_ReadsDoNotStartSessions(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{"/api/catalog", "/template", "/session/totals", "/export/summary"} {
		for i := 0; i < 50; i++ {
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(env.App, httptest.NewRequest(http.MethodGet, target, nil), rec)
			require.NoError(t, SessionMiddleware(env)(e))
			assert.Nil(t, GetSession(e.Request))
			assert.Empty(t, rec.Result().Cookies())
		}
	}
	// Admin writes are outside the questionnaire too.
	e := newTestRequestEvent(env.App, httptest.NewRequest(http.MethodPost, "/admin/login", nil), httptest.NewRecorder())
	require.NoError(t, SessionMiddleware(env)(e))

	assert.Equal(t, 0, env.Sessions.Len())
}

func TestStartsSession(t *testing.T) {
	tests := []struct {
		method, path string
		want         bool
	}{
		{http.MethodPost, "/session/company", true},
		{http.MethodDelete, "/session/projects/PRJ-1", true},
		{http.MethodPost, "/import", true},
		{http.MethodPost, "/draft", true},
		{http.MethodPost, "/submit", true},
		{http.MethodGet, "/session/totals", false},
		{http.MethodGet, "/submit/receipt.pdf", false},
		{http.MethodPost, "/admin/support-tiers", false},
		{http.MethodPost, "/sessions", false},
	}
	for _, tt := range tests {
		if got := startsSession(httptest.NewRequest(tt.method, tt.path, nil)); got != tt.want {
			t.Errorf("startsSession(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestEvictedSessionDropsReceipt(t *testing.T) {
	env := newTestEnv(t)
	now := testNow
	env.Sessions = selection.NewRegistry(
		selection.WithIdleTTL(time.Hour),
		selection.WithRegistryClock(func() time.Time { return now }),
		selection.WithEvictHook(env.forgetSession),
	)

	st := env.Sessions.Create()
	env.storeReceipt(st.ID(), &submission.Receipt{ReferenceID: "AIC-1"})

	now = now.Add(2 * time.Hour)
	env.Sessions.Create()

	_, ok := env.lastReceipt(st.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, env.Sessions.Len())
}

func TestSessionMiddleware_ReusesKnownSession(t *testing.T) {
	env := newTestEnv(t)
	existing := env.Sessions.Create()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "budget_session", Value: existing.ID()})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(env.App, req, rec)

	require.NoError(t, SessionMiddleware(env)(e))

	assert.Same(t, existing, GetSession(e.Request))
	assert.Empty(t, rec.Result().Cookies(), "known session should not reissue the cookie")
}

func TestSessionMiddleware_UnknownCookieStartsFresh(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/session/support", nil)
	req.AddCookie(&http.Cookie{Name: "budget_session", Value: "stale"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(env.App, req, rec)

	require.NoError(t, SessionMiddleware(env)(e))

	st := GetSession(e.Request)
	require.NotNil(t, st)
	assert.NotEqual(t, "stale", st.ID())
}

func TestRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.signIn("tok", principalFor(t, "it_admin"))

	tests := []struct {
		name   string
		cookie string
		status int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"unknown token", "nope", http.StatusUnauthorized},
		{"signed in", "tok", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AdminCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(env.App, req, rec)

			require.NoError(t, RequireAdmin(env)(e))
			assert.Equal(t, tt.status, rec.Code)

			p, ok := GetPrincipal(e.Request)
			assert.Equal(t, tt.status == http.StatusOK, ok)
			if ok {
				assert.Equal(t, "IT", p.Claim.Name())
			}
		})
	}
}
