package echoconsole

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/role"
)

const msgLoginInFlight = "Đang đăng nhập..."

type loginForm struct {
	Username string
	Error    string
	Fields   map[string]string
}

func registerAuthRoutes(app *echo.Echo, s *server) {
	app.GET(role.PathLogin, s.loginPage)
	app.POST(role.PathLogin, s.login)
	app.POST("/logout", s.logout)
}

func (s *server) loginPage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, tmplLogin, &pageData{Title: "Đăng nhập", Data: loginForm{}})
}

// login submits the form once per console session; a second submission while the first is
// still in flight is answered with 409.
func (s *server) login(ctx echo.Context) error {
	var creds auth.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return err
	}
	creds.Username = core.CleanString(creds.Username)

	release, err := s.gate.Enter(contextSID(ctx))
	if err != nil {
		return s.renderLogin(ctx, http.StatusConflict, creds.Username, msgLoginInFlight, nil)
	}
	defer release()

	res, err := s.authn.Submit(ctx.Request().Context(), contextStore(ctx), creds)
	if err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			return s.renderLogin(ctx, http.StatusBadRequest, creds.Username, "", vErr.FieldMap())
		}
		var lErr *auth.LoginError
		if errors.As(err, &lErr) {
			code := http.StatusUnauthorized
			if lErr.Kind != auth.KindInvalidCredentials {
				code = http.StatusBadGateway
			}
			return s.renderLogin(ctx, code, creds.Username, lErr.Message, nil)
		}
		return errors.Wrap(err, "submitting login")
	}
	return ctx.Redirect(http.StatusSeeOther, res.Landing)
}

func (s *server) renderLogin(ctx echo.Context, code int, uname, msg string, fields map[string]string) error {
	return ctx.Render(code, tmplLogin, &pageData{
		Title: "Đăng nhập",
		Error: msg,
		Data:  loginForm{Username: uname, Error: msg, Fields: fields},
	})
}

// logout clears the session and moves the browser to a fresh session id, so that a login still
// in flight for the old id can never repopulate the session the browser uses.
func (s *server) logout(ctx echo.Context) error {
	path, err := auth.Logout(ctx.Request().Context(), contextStore(ctx))
	if err != nil {
		return errors.Wrap(err, "logging out")
	}
	s.bindTab(ctx, s.rotateSID(ctx))
	return ctx.Redirect(http.StatusSeeOther, path)
}
