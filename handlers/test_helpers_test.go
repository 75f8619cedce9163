package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"itbudget/admin"
	"itbudget/catalog"
	"itbudget/selection"
	"itbudget/submission"
	"itbudget/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// newTestEnv builds an Env over a fresh PocketBase app and default catalog
// with a fixed clock and random source.
func newTestEnv(t *testing.T, opts ...submission.Option) *Env {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	opts = append([]submission.Option{
		submission.WithClock(func() time.Time { return testNow }),
		submission.WithRandom(strings.NewReader(strings.Repeat("\xde\xad\xbe\xef", 8))),
	}, opts...)
	return NewEnv(app, catalog.NewDefaultStore(), submission.NewSubmitter(nil, opts...), nil)
}

// jsonRequest builds a request carrying body as JSON.
func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// formRequest builds a url-encoded form post.
func formRequest(method, target, form string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withSession(req *http.Request, st *selection.State) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), SessionKey, st))
}

func withPrincipal(req *http.Request, p admin.Principal) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), PrincipalKey, p))
}

// serve runs h for req and returns the recorder.
func serve(t *testing.T, env *Env, h func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := h(newTestRequestEvent(env.App, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// principalFor signs in username with the default credentials.
func principalFor(t *testing.T, username string) admin.Principal {
	t.Helper()
	creds := admin.DefaultCredentials()
	p, err := creds.Authenticate(username, creds[username].Password)
	if err != nil {
		t.Fatalf("authenticate %s: %v", username, err)
	}
	return p
}
