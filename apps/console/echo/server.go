// Package echoconsole is the server-rendered web console.
//
// Every browser tab is a console session: a random id kept in a cookie, keying the session backend.
// Shell pages run the shell guard on every request; nothing about the user is cached between requests.
package echoconsole

import (
	"context"
	"net/http"

	"github.com/kat-co/vala"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/route"
	"github.com/trezcool/academia/core/session"
)

type (
	ServerDeps struct {
		Conf     *core.Config
		Logger   core.Logger
		API      *apiclient.Client
		Sessions session.Backend
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
	}

	server struct {
		ServerDeps
		app    *echo.Echo
		authn  *auth.Authenticator
		gate   *auth.Gate
		errors chan error
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	vala.BeginValidation().Validate(
		core.NotNil(deps.Conf, "deps.Conf"),
		core.NotNil(deps.Logger, "deps.Logger"),
		core.NotNil(deps.API, "deps.API"),
		core.NotNil(deps.Sessions, "deps.Sessions"),
	).CheckAndPanic()

	s := &server{
		ServerDeps: deps,
		app:        echo.New(),
		authn:      auth.NewAuthenticator(deps.API, deps.Logger),
		gate:       auth.NewGate(),
		errors:     make(chan error, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.Conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.Conf.Debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger)
	s.app.Renderer = newRenderer()

	s.app.Use(s.tabMiddleware)

	s.app.GET("/health", health)
	registerAuthRoutes(s.app, s)

	admin := s.app.Group(route.Table[0].Prefix, s.shellMiddleware(route.AdminShell))
	registerAdminPages(admin, s)

	student := s.app.Group(route.Table[1].Prefix, s.shellMiddleware(route.StudentShell))
	registerStudentPages(student, s)

	support := s.app.Group(route.Table[2].Prefix, s.shellMiddleware(route.SupportShell))
	registerSupportPages(support, s)
}

func (s *server) Start() {
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "ok")
}
