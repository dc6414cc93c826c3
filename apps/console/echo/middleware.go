package echoconsole

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/guard"
	"github.com/trezcool/academia/core/route"
	"github.com/trezcool/academia/core/session"
)

const (
	contextSIDKey     = "sid"
	contextStoreKey   = "sessionStore"
	contextClientKey  = "apiClient"
	contextProfileKey = "profile"
)

var shellGuards = map[route.State]func(guard.Profiles, core.Logger) *guard.Guard{
	route.AdminShell:   guard.Admin,
	route.StudentShell: guard.Student,
	route.SupportShell: guard.Support,
}

// tabMiddleware binds the request to its console session, issuing a new session id when the
// cookie is missing or malformed.
func (s *server) tabMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sid := ""
		if ck, err := ctx.Cookie(s.Conf.Server.SessionCookie); err == nil {
			if id, err := uuid.Parse(ck.Value); err == nil {
				sid = id.String()
			}
		}
		if sid == "" {
			sid = s.rotateSID(ctx)
		}
		s.bindTab(ctx, sid)
		return next(ctx)
	}
}

func (s *server) bindTab(ctx echo.Context, sid string) {
	store := session.Bind(s.Sessions, sid)
	ctx.Set(contextSIDKey, sid)
	ctx.Set(contextStoreKey, store)
	ctx.Set(contextClientKey, s.API.WithTokens(store))
}

// rotateSID issues a fresh session id cookie and returns the id.
func (s *server) rotateSID(ctx echo.Context) string {
	sid := uuid.New().String()
	ctx.SetCookie(&http.Cookie{
		Name:     s.Conf.Server.SessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(s.Conf.Server.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Conf.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// shellMiddleware runs the guard of state before any shell content is produced.
func (s *server) shellMiddleware(state route.State) echo.MiddlewareFunc {
	newGuard := shellGuards[state]
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			d := newGuard(contextClient(ctx), s.Logger).Check(ctx.Request().Context())
			if !d.Allowed {
				return ctx.Redirect(http.StatusSeeOther, d.Redirect)
			}
			ctx.Set(contextProfileKey, d.Profile)
			return next(ctx)
		}
	}
}

func contextSID(ctx echo.Context) string {
	sid, _ := ctx.Get(contextSIDKey).(string)
	return sid
}

func contextStore(ctx echo.Context) session.Store {
	store, _ := ctx.Get(contextStoreKey).(session.Store)
	return store
}

func contextClient(ctx echo.Context) *apiclient.Client {
	c, _ := ctx.Get(contextClientKey).(*apiclient.Client)
	return c
}

func contextProfile(ctx echo.Context) (apiclient.Profile, bool) {
	p, ok := ctx.Get(contextProfileKey).(apiclient.Profile)
	return p, ok
}
