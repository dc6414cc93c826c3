package echoconsole

import (
	"net/http"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/role"
	"github.com/trezcool/academia/core/route"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/tests/testutil"
)

func TestEveryPageIsServed(t *testing.T) {
	s := NewServer(ServerDeps{
		Conf: &core.Config{
			TestMode: true,
			Server:   core.ServerConfig{SessionCookie: "sid", SessionTTL: time.Hour, DisableReqLogs: true},
		},
		Logger:   testutil.NopLogger{},
		API:      apiclient.New("http://127.0.0.1:1/api", nil),
		Sessions: session.NewMemoryBackend(),
	}).(*server)

	served := make(map[string]bool)
	for _, r := range s.app.Routes() {
		if r.Method == http.MethodGet {
			served[r.Path] = true
		}
	}

	for _, sh := range route.Table {
		for _, pg := range sh.Pages {
			if !served[pg.Pattern] {
				t.Errorf("page %s (%s) has no GET handler", pg.Name, pg.Pattern)
			}
			if m := route.Dispatch(pg.Pattern); m.State != sh.State || m.Page != pg.Name {
				t.Errorf("Dispatch(%s) = %v/%s, want %v/%s", pg.Pattern, m.State, m.Page, sh.State, pg.Name)
			}
		}
	}
	if !served[role.PathLogin] {
		t.Errorf("login page has no GET handler")
	}
}

// Signals are the process's concern: a server built in a test must not hold a signal channel.
func TestServerHoldsNoSignalChannel(t *testing.T) {
	sigChan := reflect.TypeOf((chan os.Signal)(nil))
	typ := reflect.TypeOf(server{})
	for i := 0; i < typ.NumField(); i++ {
		if f := typ.Field(i); f.Type.Kind() == reflect.Chan && f.Type.Elem() == sigChan.Elem() {
			t.Errorf("server.%s is a signal channel", f.Name)
		}
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "-"},
		{500, "500 ₫"},
		{1500000, "1.500.000 ₫"},
		{-25000, "-25.000 ₫"},
	}
	for _, tt := range tests {
		if got := money(tt.in); got != tt.want {
			t.Errorf("money(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidationText(t *testing.T) {
	err := validate(apiclient.SupportUserForm{Username: "cskh01"})
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("validate() = %T; want *core.ValidationError", err)
	}
	want := "fullName: this field is required; password: this field is required"
	if got := validationText(vErr); got != want {
		t.Errorf("validationText() = %q; want %q", got, want)
	}
}
