package tests

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/academia/apps/console/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/tests/testutil"
)

const cookieName = "academia_sid"

type env struct {
	app     Server
	api     *testutil.FakeAPI
	backend *session.MemoryBackend
}

func testConfig() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		Server: core.ServerConfig{
			SessionCookie:  cookieName,
			SessionTTL:     time.Hour,
			DisableReqLogs: true,
		},
	}
}

func setup(t *testing.T) *env {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	backend := session.NewMemoryBackend()
	app := NewServer(ServerDeps{
		Conf:     testConfig(),
		Logger:   testutil.NopLogger{},
		API:      api.Client(nil),
		Sessions: backend,
	})
	return &env{app: app, api: api, backend: backend}
}

// browser keeps the session cookie between requests, like a single browser tab.
type browser struct {
	t   *testing.T
	app Server
	sid string
}

func (e *env) browser(t *testing.T) *browser {
	return &browser{t: t, app: e.app}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.sid != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: b.sid})
	}
	rec := httptest.NewRecorder()
	b.app.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cookieName {
			b.sid = ck.Value
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// login signs the browser in and fails the test unless it lands on want.
func (b *browser) login(uname, pwd, want string) {
	b.t.Helper()
	rec := b.post("/login", url.Values{"username": {uname}, "password": {pwd}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != want {
		b.t.Fatalf("login(%s) = %d %q, want 303 %q; body: %s", uname, rec.Code, rec.Header().Get("Location"), want, rec.Body.String())
	}
}

type httpTest struct {
	name         string
	method       string
	path         string
	form         url.Values
	wantCode     int
	wantLocation string
	wantBody     []string
}

func checkResponse(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantLocation != "" {
		assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"), "Location")
	}
	testutil.CheckContains(t, tt.name, rec.Body.String(), tt.wantBody...)
}
