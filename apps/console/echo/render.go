package echoconsole

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/care"
	"github.com/trezcool/academia/core/role"
	"github.com/trezcool/academia/core/route"
)

// Template names.
const (
	tmplLogin      = "login"
	tmplError      = "error"
	tmplSections   = "sections"
	tmplDashboard  = "dashboard"
	tmplAttendance = "attendance"
	tmplChat       = "chat"
	tmplStudent    = "student"
)

const msgSaved = "Đã lưu"

//go:embed templates
var templatesFS embed.FS

type (
	navItem struct {
		Label  string
		Path   string
		Active bool
	}

	pageData struct {
		Title   string
		Shell   string
		Nav     []navItem
		Profile apiclient.Profile
		Flash   string
		Error   string
		Data    interface{}
	}

	// section is a titled table with an optional form, the building block of most pages.
	section struct {
		Heading string
		Columns []string
		Rows    []row
		Empty   string
		Form    *form
	}

	row struct {
		Cells   []string
		Link    string
		Actions []action
		Form    *form
	}

	// action is a link (GET) or a single-button form (POST).
	action struct {
		Label   string
		Path    string
		Method  string
		Confirm string
	}

	form struct {
		Action    string
		Submit    string
		Multipart bool
		Fields    []field
	}

	field struct {
		Name     string
		Label    string
		Type     string // text (default), password, email, number, date, time, textarea, select, checkbox, hidden, file
		Value    string
		Required bool
		Options  []option
	}

	option struct {
		Value    string
		Label    string
		Selected bool
	}
)

var navs = map[string][]navItem{
	role.PathAdmin: {
		{Label: "Tổng quan", Path: "/admin"},
		{Label: "Giáo viên", Path: "/admin/teachers"},
		{Label: "Học viên", Path: "/admin/students"},
		{Label: "Nhân viên CSKH", Path: "/admin/support-users"},
		{Label: "Phân công CSKH", Path: "/admin/assign-support"},
		{Label: "Khóa học", Path: "/admin/courses"},
		{Label: "Gói học", Path: "/admin/packages"},
		{Label: "Điểm danh", Path: "/admin/attendance"},
		{Label: "Khách hàng tiềm năng", Path: "/admin/leads"},
	},
	role.PathSupport: {
		{Label: "Học viên của tôi", Path: "/support"},
		{Label: "Lịch chăm sóc", Path: "/support/reminders"},
		{Label: "Khách hàng tiềm năng", Path: "/support/leads"},
	},
	role.PathStudent: {
		{Label: "Tổng quan", Path: "/student"},
		{Label: "Lịch học", Path: "/student/schedule"},
		{Label: "Nhắn tin", Path: "/student/chat"},
	},
}

var funcs = template.FuncMap{
	"dash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	},
	"money":   money,
	"when":    care.Display,
	"weekday": attendance.Weekday,
	"done":    attendance.Done,
}

type renderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

// newRenderer parses every page template together with the shared layout.
func newRenderer() *renderer {
	base := template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/layout.gohtml"))
	pages, err := fs.Glob(templatesFS, "templates/pages/*.gohtml")
	if err != nil {
		panic(err)
	}

	r := &renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t := template.Must(template.Must(base.Clone()).ParseFS(templatesFS, p))
		r.templates[strings.TrimSuffix(path.Base(p), ".gohtml")] = t
	}
	return r
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// page renders a shell page: navigation and profile come from the request.
func (s *server) page(ctx echo.Context, code int, tmpl, title string, data interface{}, errMsg string) error {
	p := &pageData{Title: title, Error: errMsg, Data: data}
	if sh, ok := route.ShellOf(ctx.Request().URL.Path); ok {
		p.Shell = sh.Prefix
		cur := route.Clean(ctx.Request().URL.Path)
		for _, item := range navs[sh.Prefix] {
			item.Active = item.Path == cur
			p.Nav = append(p.Nav, item)
		}
	}
	p.Profile, _ = contextProfile(ctx)
	if errMsg == "" && ctx.QueryParam("ok") != "" {
		p.Flash = msgSaved
	}
	return ctx.Render(code, tmpl, p)
}

// failure maps a page error to its response code and inline message. Errors that are not
// caused by user input or the backend are returned as is.
func failure(err error) (int, string, error) {
	var vErr *core.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, validationText(vErr), nil
	case errors.Is(err, care.ErrBadNextCare):
		return http.StatusBadRequest, "Ngày giờ chăm sóc tiếp theo không hợp lệ", nil
	case apiclient.IsTransport(err):
		return http.StatusBadGateway, apiMessage(err), nil
	}
	if _, ok := apiclient.StatusOf(err); ok {
		return http.StatusBadGateway, apiMessage(err), nil
	}
	var dErr *apiclient.DecodeError
	if errors.As(err, &dErr) {
		return http.StatusBadGateway, msgMalformed, nil
	}
	return 0, "", err
}

const msgMalformed = "Dữ liệu trả về không hợp lệ"

func validationText(vErr *core.ValidationError) string {
	fm := vErr.FieldMap()
	if len(fm) == 0 {
		return vErr.Error()
	}
	keys := make([]string, 0, len(fm))
	for k := range fm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fm[k])
	}
	return strings.Join(parts, "; ")
}

// money formats an amount in VND with dot thousand separators.
func money(v float64) string {
	if v == 0 {
		return "-"
	}
	s := strconv.FormatInt(int64(v), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	out := b.String() + " ₫"
	if neg {
		out = "-" + out
	}
	return out
}

func itoa(v int) string { return strconv.Itoa(v) }

func idStr(v int64) string { return strconv.FormatInt(v, 10) }

func yesNo(b bool) string {
	if b {
		return "Có"
	}
	return "Không"
}

func fmtDays(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d ngày", *v)
}
