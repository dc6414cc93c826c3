// Package route is the console's route table and navigation state machine.
package route

import (
	"net/url"
	"strings"

	"github.com/trezcool/academia/core/role"
)

type State int

const (
	Unauthenticated State = iota
	AdminShell
	StudentShell
	SupportShell
	NotFound
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AdminShell:
		return "admin"
	case StudentShell:
		return "student"
	case SupportShell:
		return "support"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Shell reports whether s is an authenticated shell state.
func (s State) Shell() bool {
	return s == AdminShell || s == StudentShell || s == SupportShell
}

// Page names.
const (
	PageLogin = "login"

	PageAdminDashboard     = "dashboard"
	PageTeachers           = "teachers"
	PageStudents           = "students"
	PageStudentCareHistory = "student-care-history"
	PageSupportUsers       = "support-users"
	PageSupportDetail      = "support-detail"
	PageCourses            = "courses"
	PageAssignSupport      = "assign-support"
	PageAttendance         = "attendance"
	PagePackages           = "packages"
	PageLeads              = "leads"
	PageLeadCareHistory    = "lead-care-history"
	PageSupportStudents    = "my-students"
	PageSupportReminders   = "reminders"
	PageSupportStudentLog  = "student-history"
	PageSupportStudentChat = "student-chat"
	PageSupportLeads       = "my-leads"
	PageSupportLeadHistory = "lead-history"
	PageStudentHome        = "home"
	PageStudentSchedule    = "schedule"
	PageStudentChat        = "chat"
)

// Page is one routable view. Pattern segments starting with ':' capture a parameter.
type Page struct {
	Name    string
	Pattern string
}

// Shell groups the pages guarded by the same role check.
type Shell struct {
	State  State
	Prefix string
	Pages  []Page
}

// Match is the result of dispatching a path.
type Match struct {
	Path     string
	State    State
	Shell    string
	Page     string
	Params   map[string]string
	Redirect string
}

// Param returns the named path parameter.
func (m Match) Param(name string) string { return m.Params[name] }

// Table lists every shell of the console. /support pages are flat rather than nested.
var Table = []Shell{
	{
		State:  AdminShell,
		Prefix: role.PathAdmin,
		Pages: []Page{
			{PageAdminDashboard, "/admin"},
			{PageTeachers, "/admin/teachers"},
			{PageStudents, "/admin/students"},
			{PageStudentCareHistory, "/admin/students/:studentId/care-history"},
			{PageSupportUsers, "/admin/support-users"},
			{PageSupportDetail, "/admin/support/:supportUserId"},
			{PageCourses, "/admin/courses"},
			{PageAssignSupport, "/admin/assign-support"},
			{PageAttendance, "/admin/attendance"},
			{PagePackages, "/admin/packages"},
			{PageLeads, "/admin/leads"},
			{PageLeadCareHistory, "/admin/leads/:leadId/care-history"},
		},
	},
	{
		State:  StudentShell,
		Prefix: role.PathStudent,
		Pages: []Page{
			{PageStudentHome, "/student"},
			{PageStudentSchedule, "/student/schedule"},
			{PageStudentChat, "/student/chat"},
		},
	},
	{
		State:  SupportShell,
		Prefix: role.PathSupport,
		Pages: []Page{
			{PageSupportStudents, "/support"},
			{PageSupportReminders, "/support/reminders"},
			{PageSupportStudentLog, "/support/students/:studentId/history"},
			{PageSupportStudentChat, "/support/students/:studentId/chat"},
			{PageSupportLeads, "/support/leads"},
			{PageSupportLeadHistory, "/support/leads/:leadId/history"},
		},
	},
}

// Clean strips the query string and any trailing slash.
func Clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(path, "/")
	return path
}

// Dispatch maps a path to its state. Unmatched paths, including "/" and "/teacher",
// are NotFound with a redirect to the login path.
func Dispatch(path string) Match {
	path = Clean(path)
	if path == role.PathLogin {
		return Match{Path: path, State: Unauthenticated, Page: PageLogin}
	}

	segs := split(path)
	for _, sh := range Table {
		for _, pg := range sh.Pages {
			if params, ok := match(split(pg.Pattern), segs); ok {
				return Match{Path: path, State: sh.State, Shell: sh.Prefix, Page: pg.Name, Params: params}
			}
		}
	}
	return Match{Path: path, State: NotFound, Redirect: role.PathLogin}
}

// ShellOf returns the shell owning path by prefix segment, even when no page matches.
func ShellOf(path string) (Shell, bool) {
	segs := split(Clean(path))
	if len(segs) == 0 {
		return Shell{}, false
	}
	for _, sh := range Table {
		if segs[0] == strings.TrimPrefix(sh.Prefix, "/") {
			return sh, true
		}
	}
	return Shell{}, false
}

// Build fills a page pattern with params.
func Build(pattern string, params map[string]string) string {
	segs := split(pattern)
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = url.PathEscape(params[s[1:]])
		}
	}
	return "/" + strings.Join(segs, "/")
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			v, err := url.PathUnescape(segs[i])
			if err != nil {
				return nil, false
			}
			params[p[1:]] = v
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
