package echoconsole

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/route"
)

var errBadID = echo.NewHTTPError(http.StatusBadRequest, "invalid id")

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Unmatched GET paths redirect to the login page.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			if origErr.Code == http.StatusNotFound && ctx.Request().Method == http.MethodGet {
				if m := route.Dispatch(ctx.Request().URL.Path); m.Redirect != "" {
					if rErr := ctx.Redirect(http.StatusFound, m.Redirect); rErr != nil {
						ctx.Echo().Logger.Error(rErr)
					}
					return
				}
			}
			code = origErr.Code
			message = http.StatusText(code)
			if m, ok := origErr.Message.(string); ok {
				message = m
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.AsValidationError(origErr).Error()
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		case *apiclient.Error:
			code = http.StatusBadGateway
			message = apiMessage(origErr)
		case *apiclient.TransportError:
			code = http.StatusBadGateway
			message = auth.MsgUnreachable
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			logger.Error(message, errors.Wrap(err, message), contextPerson(ctx))
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.Render(code, tmplError, &pageData{Title: strconv.Itoa(code), Error: message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// apiMessage is the inline text shown for a failed backend call on a page.
func apiMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Lỗi server: " + strconv.Itoa(apiErr.Status)
	}
	if apiclient.IsTransport(err) {
		return auth.MsgUnreachable
	}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}

func contextPerson(ctx echo.Context) core.Person {
	var p core.Person
	if prof, ok := contextProfile(ctx); ok {
		p.ID = strconv.FormatInt(prof.ID, 10)
		p.Username = prof.Username
		p.Email = prof.Email
	}
	return p
}
