package route

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/guard"
	"github.com/trezcool/academia/core/role"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/tests/testutil"
)

type tab struct {
	api     *testutil.FakeAPI
	backend *session.MemoryBackend
	store   session.Store
	nav     *Navigator
}

func newTab(t *testing.T) *tab {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	backend := session.NewMemoryBackend()
	store := session.Bind(backend, "tab-1")
	client := api.Client(store)
	logger := testutil.NopLogger{}
	nav := NewNavigator(store, auth.NewAuthenticator(client, logger), Guards(client, logger), logger)
	return &tab{api: api, backend: backend, store: store, nav: nav}
}

func TestLoginLandsInAdminShell(t *testing.T) {
	ctx := context.Background()
	tb := newTab(t)
	usr := tb.api.AddUser(t, "admin", "secret", "Quản trị viên", role.Admin)
	tb.api.SetToken("abc", usr)

	v, err := tb.nav.Login(ctx, auth.Credentials{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if v.State != AdminShell || v.Path != role.PathAdmin {
		t.Errorf("view = %v %q, want admin shell at /admin", v.State, v.Path)
	}
	if v.Profile.FullName != "Quản trị viên" {
		t.Errorf("Profile.FullName = %q", v.Profile.FullName)
	}
	sess, _ := tb.store.Get(ctx)
	if sess.Token != "abc" || sess.Role != role.Admin {
		t.Errorf("stored session = %+v, want abc/%s", sess, role.Admin)
	}

	// the guard reused the stored token
	reqs := tb.api.Requests()
	last := reqs[len(reqs)-1]
	if last.Path != "/api/profile/user" || last.Token != "abc" {
		t.Errorf("last request = %+v, want profile fetch with token abc", last)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	tb := newTab(t)
	tb.api.AddUser(t, "admin", "secret", "Admin", role.Admin)

	v, err := tb.nav.Login(ctx, auth.Credentials{Username: "admin", Password: "wrong"})
	lErr, ok := err.(*auth.LoginError)
	if !ok {
		t.Fatalf("Login() error = %T %v, want *auth.LoginError", err, err)
	}
	if lErr.Message != auth.MsgInvalidCredentials {
		t.Errorf("Message = %q, want %q", lErr.Message, auth.MsgInvalidCredentials)
	}
	if v.State != Unauthenticated {
		t.Errorf("view = %v, want login page", v.State)
	}
	if tb.backend.Len() != 0 {
		t.Error("session stored after failed login")
	}
}

func TestLoginTeacherRedirectsToLogin(t *testing.T) {
	tb := newTab(t)
	tb.api.AddUser(t, "gv", "secret", "Giáo viên", role.Teacher)

	v, err := tb.nav.Login(context.Background(), auth.Credentials{Username: "gv", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if v.Path != role.PathLogin {
		t.Errorf("view path = %q, want %q", v.Path, role.PathLogin)
	}
}

func TestGuardFailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		roles  []string
		status int
		path   string
		reason string
	}{
		{"profile 500", []string{role.Admin}, http.StatusInternalServerError, "/admin/teachers", guard.ReasonFetchFailed},
		{"student into admin", []string{role.Student}, 0, "/admin", guard.ReasonRoleMismatch},
		{"admin into support", []string{role.Admin}, 0, "/support", guard.ReasonRoleMismatch},
		{"support into student", []string{role.Support}, 0, "/student/chat", guard.ReasonRoleMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			tb := newTab(t)
			usr := tb.api.AddUser(t, "u", "p", "U", tc.roles...)
			tb.api.SetToken("abc", usr)
			if tc.status != 0 {
				tb.api.Echo.GET("/api/profile/user", func(c echo.Context) error { return c.NoContent(tc.status) })
			}
			_ = tb.store.Set(ctx, "abc", role.PickHint(tc.roles))

			v, err := tb.nav.Navigate(ctx, tc.path)
			if err != nil {
				t.Fatalf("Navigate() error = %v", err)
			}
			if v.Path != role.PathLogin || v.State != Unauthenticated {
				t.Errorf("view = %v %q, want login", v.State, v.Path)
			}
			if v.Denied != tc.reason {
				t.Errorf("Denied = %q, want %q", v.Denied, tc.reason)
			}
			if v.Profile.FullName != "" {
				t.Error("denied view exposes a profile")
			}
			if sess, _ := tb.store.Get(ctx); sess.Token != "abc" {
				t.Error("guard cleared the session")
			}
		})
	}
}

func TestNavigateUnmatched(t *testing.T) {
	tb := newTab(t)
	for _, p := range []string{"/foo/bar", "/", "/teacher"} {
		v, err := tb.nav.Navigate(context.Background(), p)
		if err != nil {
			t.Fatalf("Navigate(%q) error = %v", p, err)
		}
		if v.Path != role.PathLogin {
			t.Errorf("Navigate(%q) lands on %q, want %q", p, v.Path, role.PathLogin)
		}
	}
}

// blockingChecker holds every check until released.
type blockingChecker struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingChecker) Check(context.Context) guard.Decision {
	b.entered <- struct{}{}
	<-b.release
	return guard.Decision{Allowed: true, Profile: apiclient.Profile{FullName: "late"}}
}

func TestStaleGuardResultDiscarded(t *testing.T) {
	ctx := context.Background()
	store := session.Bind(session.NewMemoryBackend(), "tab")
	_ = store.Set(ctx, "abc", role.Admin)
	chk := &blockingChecker{entered: make(chan struct{}), release: make(chan struct{})}
	logger := testutil.NopLogger{}
	authn := auth.NewAuthenticator(apiclient.New("http://127.0.0.1:1", store), logger)
	nav := NewNavigator(store, authn, map[State]Checker{AdminShell: chk}, logger)

	type result struct {
		v   View
		err error
	}
	done := make(chan result)
	go func() {
		v, err := nav.Navigate(ctx, "/admin")
		done <- result{v, err}
	}()

	<-chk.entered
	if _, err := nav.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	close(chk.release)

	res := <-done
	if res.err != ErrSuperseded {
		t.Errorf("Navigate() error = %v, want %v", res.err, ErrSuperseded)
	}
	if cur := nav.Current(); cur.Path != role.PathLogin || cur.Profile.FullName != "" {
		t.Errorf("Current() = %+v, want login page", cur)
	}
}

// blockingLogin holds every login until released.
type blockingLogin struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingLogin) Login(context.Context, string, string) (apiclient.LoginResponse, error) {
	b.entered <- struct{}{}
	<-b.release
	return apiclient.LoginResponse{Token: "late", Roles: []string{role.Admin}}, nil
}

func TestLoginOvertakenByLogout(t *testing.T) {
	ctx := context.Background()
	backend := session.NewMemoryBackend()
	store := session.Bind(backend, "tab")
	api := &blockingLogin{entered: make(chan struct{}, 1), release: make(chan struct{})}
	logger := testutil.NopLogger{}
	nav := NewNavigator(store, auth.NewAuthenticator(api, logger), map[State]Checker{}, logger)

	done := make(chan error)
	go func() {
		_, err := nav.Login(ctx, auth.Credentials{Username: "a", Password: "b"})
		done <- err
	}()

	<-api.entered
	if _, err := nav.Login(ctx, auth.Credentials{Username: "a", Password: "b"}); err != auth.ErrLoginInFlight {
		t.Errorf("second Login() error = %v, want %v", err, auth.ErrLoginInFlight)
	}
	if _, err := nav.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	close(api.release)

	if err := <-done; err != ErrSuperseded {
		t.Errorf("Login() error = %v, want %v", err, ErrSuperseded)
	}
	if backend.Len() != 0 {
		t.Error("late login repopulated the session")
	}
}
