package route

import (
	"testing"

	"github.com/trezcool/academia/core/role"
)

func TestDispatch(t *testing.T) {
	tests := []struct {
		path   string
		state  State
		page   string
		params map[string]string
	}{
		{"/login", Unauthenticated, PageLogin, nil},
		{"/login/", Unauthenticated, PageLogin, nil},
		{"/admin", AdminShell, PageAdminDashboard, nil},
		{"/admin/", AdminShell, PageAdminDashboard, nil},
		{"/admin/teachers", AdminShell, PageTeachers, nil},
		{"/admin/students/12/care-history", AdminShell, PageStudentCareHistory, map[string]string{"studentId": "12"}},
		{"/admin/support/3", AdminShell, PageSupportDetail, map[string]string{"supportUserId": "3"}},
		{"/admin/attendance?week=2025-12-01", AdminShell, PageAttendance, nil},
		{"/admin/leads/9/care-history", AdminShell, PageLeadCareHistory, map[string]string{"leadId": "9"}},
		{"/student", StudentShell, PageStudentHome, nil},
		{"/student/schedule", StudentShell, PageStudentSchedule, nil},
		{"/student/chat", StudentShell, PageStudentChat, nil},
		{"/support", SupportShell, PageSupportStudents, nil},
		{"/support/reminders", SupportShell, PageSupportReminders, nil},
		{"/support/students/4/history", SupportShell, PageSupportStudentLog, map[string]string{"studentId": "4"}},
		{"/support/students/4/chat", SupportShell, PageSupportStudentChat, map[string]string{"studentId": "4"}},
		{"/support/leads", SupportShell, PageSupportLeads, nil},
		{"/support/leads/5/history", SupportShell, PageSupportLeadHistory, map[string]string{"leadId": "5"}},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			m := Dispatch(tc.path)
			if m.State != tc.state || m.Page != tc.page {
				t.Fatalf("Dispatch(%q) = %v/%q, want %v/%q", tc.path, m.State, m.Page, tc.state, tc.page)
			}
			if m.Redirect != "" {
				t.Errorf("Redirect = %q, want none", m.Redirect)
			}
			for k, v := range tc.params {
				if got := m.Param(k); got != v {
					t.Errorf("Param(%q) = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestDispatchUnmatched(t *testing.T) {
	paths := []string{
		"/", "", "/foo/bar", "/teacher", "/admin/unknown", "/admin/students/1",
		"/student/chat/extra", "/supportx", "/support/students/4", "/adminx/teachers", "/LOGIN",
	}
	for _, p := range paths {
		m := Dispatch(p)
		if m.State != NotFound || m.Redirect != role.PathLogin {
			t.Errorf("Dispatch(%q) = %v redirect %q, want not found redirect %q", p, m.State, m.Redirect, role.PathLogin)
		}
	}
}

func TestShellOf(t *testing.T) {
	tests := []struct {
		path  string
		state State
		ok    bool
	}{
		{"/admin/anything/below", AdminShell, true},
		{"/support/x", SupportShell, true},
		{"/supportx", 0, false},
		{"/student", StudentShell, true},
		{"/teacher", 0, false},
		{"/", 0, false},
	}
	for _, tc := range tests {
		sh, ok := ShellOf(tc.path)
		if ok != tc.ok || (ok && sh.State != tc.state) {
			t.Errorf("ShellOf(%q) = %v, %v; want %v, %v", tc.path, sh.State, ok, tc.state, tc.ok)
		}
	}
}

func TestBuild(t *testing.T) {
	got := Build("/admin/students/:studentId/care-history", map[string]string{"studentId": "42"})
	if want := "/admin/students/42/care-history"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

// Every page of the table dispatches back to itself.
func TestTableRoundTrip(t *testing.T) {
	for _, sh := range Table {
		for _, pg := range sh.Pages {
			path := Build(pg.Pattern, map[string]string{"studentId": "1", "supportUserId": "1", "leadId": "1"})
			m := Dispatch(path)
			if m.State != sh.State || m.Page != pg.Name || m.Shell != sh.Prefix {
				t.Errorf("Dispatch(%q) = %+v, want %v/%q", path, m, sh.State, pg.Name)
			}
		}
	}
}
