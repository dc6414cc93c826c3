package echoconsole

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var errInvalidInput = errors.New("invalid input")

func paramID(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func numberError(name string) error {
	return core.NewValidationError(errInvalidInput, core.FieldError{Field: name, Error: "this field must be a number"})
}

// formInt64 returns 0 for an empty value.
func formInt64(ctx echo.Context, name string) (int64, error) {
	v := strings.TrimSpace(ctx.FormValue(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, numberError(name)
	}
	return n, nil
}

// formInt returns nil for an empty value.
func formInt(ctx echo.Context, name string) (*int, error) {
	v := strings.TrimSpace(ctx.FormValue(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, numberError(name)
	}
	return &n, nil
}

// formFloat returns nil for an empty value.
func formFloat(ctx echo.Context, name string) (*float64, error) {
	v := strings.TrimSpace(ctx.FormValue(name))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, numberError(name)
	}
	return &f, nil
}

func formBool(ctx echo.Context, name string) bool {
	switch strings.ToLower(ctx.FormValue(name)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func validate(v interface{}) error {
	return core.AsValidationError(core.Validate.Struct(v))
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func withOK(path string) string {
	if strings.Contains(path, "?") {
		return path + "&ok=1"
	}
	return path + "?ok=1"
}

// afterWrite redirects back on success. Failures caused by the input or the backend re-render
// the page through again with an inline message; the session is never touched.
func afterWrite(ctx echo.Context, err error, back string, again func(code int, msg string) error) error {
	if err == nil {
		return ctx.Redirect(http.StatusSeeOther, withOK(back))
	}
	code, msg, err := failure(err)
	if err != nil {
		return err
	}
	return again(code, msg)
}

// fetchFailed renders a page whose data could not be loaded.
func (s *server) fetchFailed(ctx echo.Context, title string, err error) error {
	code, msg, err := failure(err)
	if err != nil {
		return err
	}
	return s.page(ctx, code, tmplSections, title, []section{}, msg)
}

func text(name, label, value string, required bool) field {
	return field{Name: name, Label: label, Value: value, Required: required}
}

func typed(typ, name, label, value string) field {
	return field{Type: typ, Name: name, Label: label, Value: value}
}

func hidden(name, value string) field {
	return field{Type: "hidden", Name: name, Value: value}
}

func choice(name, label, value string, required bool, opts ...option) field {
	for i := range opts {
		opts[i].Selected = opts[i].Value == value
	}
	return field{Type: "select", Name: name, Label: label, Value: value, Required: required, Options: opts}
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalID(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
