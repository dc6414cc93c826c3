package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/role"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/storage/database"
	"github.com/trezcool/academia/storage/session/filestore"
	"github.com/trezcool/academia/storage/session/sqlstore"
	"github.com/trezcool/academia/tests/testutil"
)

type env struct {
	cli      *commandLine
	api      *testutil.FakeAPI
	sessions *filestore.Backend
	out      *bytes.Buffer
}

func setup(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	api := testutil.NewFakeAPI(t)
	sessions := filestore.New(filepath.Join(dir, "sessions"))
	out := new(bytes.Buffer)
	conf := &core.Config{
		TestMode: true,
		Session: core.SessionConfig{
			Backend:     "file",
			Dir:         sessions.Dir(),
			Profile:     "default",
			DatabaseURL: "sqlite:" + filepath.Join(dir, "sessions.db"),
		},
	}
	return &env{
		cli: &commandLine{
			conf:     conf,
			logger:   testutil.NopLogger{},
			api:      api.Client(nil),
			sessions: sessions,
			out:      out,
		},
		api:      api,
		sessions: sessions,
		out:      out,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
	extra      interface{}
}

type password string

func (e *env) check(t *testing.T, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"cli"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			readPasswordFunc = func(fd int) ([]byte, error) {
				if pwd, ok := tt.extra.(password); ok {
					return []byte(pwd), nil
				}
				return nil, nil
			}
			e.out.Reset()

			err := e.cli.run(args)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
			testutil.CheckContains(t, "output", e.out.String(), tt.wantOut...)
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	e := setup(t)
	e.check(t, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login: no args", args: []string{"login"}, wantErr: errHelp},
		{name: "login: unknown flag", args: []string{"login", "-lol"}, wantErr: errHelp},
		{name: "login: no password", args: []string{"login", "-username", "admin"}, wantErr: errHelp},
		{name: "open: no path", args: []string{"open"}, wantErr: errHelp},
		{name: "open: two paths", args: []string{"open", "/admin", "/support"}, wantErr: errHelp},
		{name: "migrate: no command", args: []string{"migrate"}, wantErr: errHelp},
		{name: "purge: extra args", args: []string{"purge", "now"}, wantErr: errHelp},
	})
}

func Test_commandLine_session(t *testing.T) {
	e := setup(t)
	e.api.AddUser(t, "admin", "secret", "Quản trị viên", role.Admin)
	e.api.AddUser(t, "hv", "secret", "Học viên", role.Student)
	e.api.AddUser(t, "gv", "secret", "Giáo viên", role.Teacher)

	e.check(t, []cliTest{
		{name: "whoami: logged out", args: []string{"whoami"}, wantErr: errNotLoggedIn},
		{name: "open: logged out", args: []string{"open", "/admin"}, wantOut: []string{"redirected to /login"}},
		{name: "login: bad profile", args: []string{"login", "-username", "admin", "-profile", "../x"}, extra: password("secret"), wantErr: filestore.ErrBadProfile},
		{name: "login: wrong password", args: []string{"login", "-username", "admin"}, extra: password("nope"), wantErrStr: auth.MsgInvalidCredentials},
		{name: "login", args: []string{"login", "-username", " admin "}, extra: password("secret"), wantOut: []string{"Logged in as Quản trị viên (/admin)"}},
		{name: "whoami", args: []string{"whoami"}, wantOut: []string{"Quản trị viên (admin)", "roles: " + role.Admin}},
		{name: "open: admin page", args: []string{"open", "/admin/students/"}, wantOut: []string{"admin students (/admin/students)"}},
		{name: "open: support shell", args: []string{"open", "/support"}, wantOut: []string{"redirected to /login: role missing"}},
		{name: "open: unknown path", args: []string{"open", "/reports"}, wantOut: []string{"unauthenticated login (/login)"}},
		{name: "login: student profile", args: []string{"login", "-username", "hv", "-profile", "hv"}, extra: password("secret"), wantOut: []string{"Logged in as Học viên (/student)"}},
		{name: "open: student profile", args: []string{"open", "-profile", "hv", "/student/chat"}, wantOut: []string{"student chat (/student/chat)"}},
		{name: "login: teacher", args: []string{"login", "-username", "gv", "-profile", "gv"}, extra: password("secret"), wantOut: []string{"no console pages (/login)"}},
		{name: "logout", args: []string{"logout"}, wantOut: []string{"Logged out (/login)"}},
		{name: "logout twice", args: []string{"logout"}, wantOut: []string{"Logged out (/login)"}},
		{name: "whoami: after logout", args: []string{"whoami"}, wantErr: errNotLoggedIn},
		{name: "whoami: other profile kept", args: []string{"whoami", "-profile", "hv"}, wantOut: []string{"Học viên (hv)"}},
	})

	profiles, err := e.sessions.Profiles()
	if err != nil {
		t.Fatalf("Profiles() error = %v", err)
	}
	want := map[string]bool{"hv": true, "gv": true}
	for _, p := range profiles {
		if !want[p] {
			t.Errorf("unexpected stored profile %q", p)
		}
	}

	// the teacher's token is kept even though no shell accepts it
	sess, _ := e.sessions.Load(context.Background(), "gv")
	if sess.Token == "" || sess.Role != role.Teacher {
		t.Errorf("gv session = %+v, want a teacher token", sess)
	}
	if sess, _ = e.sessions.Load(context.Background(), "default"); !sess.IsZero() {
		t.Errorf("default session = %+v, want cleared", sess)
	}
}

func Test_commandLine_sessionExpired(t *testing.T) {
	e := setup(t)
	if err := e.sessions.Save(context.Background(), "default", session.Session{Token: "expired", Role: role.Admin}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	e.check(t, []cliTest{
		{name: "whoami", args: []string{"whoami"}, wantErrStr: "api: 401 Unauthorized: Unauthorized"},
		{name: "open", args: []string{"open", "/admin"}, wantOut: []string{"redirected to /login: profile fetch failed"}},
	})

	// a rejected token is not cleared by the guard
	if sess, _ := e.sessions.Load(context.Background(), "default"); sess.Token != "expired" {
		t.Errorf("session = %+v, want it untouched", sess)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	e := setup(t)
	defer func() { migrateFunc = database.Migrate }()

	migrateFunc = func(_ context.Context, _ *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	e.check(t, []cliTest{
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	})
}

func Test_commandLine_migrateSQLite(t *testing.T) {
	e := setup(t)
	e.check(t, []cliTest{
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
	})

	e.cli.conf.Session.DatabaseURL = "mysql://localhost/sessions"
	e.check(t, []cliTest{
		{name: "unsupported database", args: []string{"migrate", "up"}, wantErrStr: `unsupported database scheme "mysql"`},
	})
}

func Test_commandLine_purge(t *testing.T) {
	e := setup(t)
	e.check(t, []cliTest{
		{name: "migrate up", args: []string{"migrate", "up"}},
		{name: "nothing expired", args: []string{"purge"}, wantOut: []string{"Purged 0 expired sessions"}},
	})

	ctx := context.Background()
	db, err := database.Open(ctx, e.cli.conf.Session.DatabaseURL)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	expiring := sqlstore.New(db, time.Millisecond)
	for _, id := range []string{"tab-1", "tab-2"} {
		if err = expiring.Save(ctx, id, session.Session{Token: "abc", Role: role.Admin}); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
	if err = sqlstore.New(db, 0).Save(ctx, "tab-3", session.Session{Token: "def", Role: role.Admin}); err != nil {
		t.Fatalf("Save(tab-3) error = %v", err)
	}
	_ = db.Close()
	time.Sleep(10 * time.Millisecond)

	e.check(t, []cliTest{
		{name: "expired sessions", args: []string{"purge"}, wantOut: []string{"Purged 2 expired sessions"}},
		{name: "purge twice", args: []string{"purge"}, wantOut: []string{"Purged 0 expired sessions"}},
	})
}
