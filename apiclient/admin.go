package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// Teachers lists every teacher.
func (c *Client) Teachers(ctx context.Context) ([]Teacher, error) {
	var out []Teacher
	err := c.Send(ctx, http.MethodGet, "/admin/teachers", nil, &out)
	return out, err
}

func (c *Client) CreateTeacher(ctx context.Context, f TeacherForm) error {
	return c.Send(ctx, http.MethodPost, "/admin/teachers", f, nil)
}

func (c *Client) UpdateTeacher(ctx context.Context, id int64, f TeacherForm) error {
	return c.Send(ctx, http.MethodPut, fmt.Sprintf("/admin/teachers/%d", id), f, nil)
}

func (c *Client) DeleteTeacher(ctx context.Context, id int64) error {
	return c.Send(ctx, http.MethodDelete, fmt.Sprintf("/admin/teachers/%d", id), nil, nil)
}

// Students lists every student.
func (c *Client) Students(ctx context.Context) ([]Student, error) {
	var out []Student
	err := c.Send(ctx, http.MethodGet, "/admin/students", nil, &out)
	return out, err
}

func (c *Client) CreateStudent(ctx context.Context, f StudentForm) error {
	return c.Send(ctx, http.MethodPost, "/admin/students", f, nil)
}

func (c *Client) UpdateStudent(ctx context.Context, id int64, f StudentForm) error {
	return c.Send(ctx, http.MethodPut, fmt.Sprintf("/admin/students/%d", id), f, nil)
}

func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	return c.Send(ctx, http.MethodDelete, fmt.Sprintf("/admin/students/%d", id), nil, nil)
}

// StudentCareHistory lists the care entries logged for one student.
func (c *Client) StudentCareHistory(ctx context.Context, studentID int64) ([]CareHistory, error) {
	var out []CareHistory
	err := c.Send(ctx, http.MethodGet, fmt.Sprintf("/admin/support/care-history/student/%d", studentID), nil, &out)
	return out, err
}

// AssignSupport attaches a support user to a student. A zero supportUserID detaches it.
func (c *Client) AssignSupport(ctx context.Context, studentID, supportUserID int64) error {
	body := struct {
		StudentID     int64  `json:"studentId"`
		SupportUserID *int64 `json:"supportUserId"`
	}{StudentID: studentID}
	if supportUserID != 0 {
		body.SupportUserID = &supportUserID
	}
	return c.Send(ctx, http.MethodPut, "/admin/students/assign-support", body, nil)
}

func (c *Client) SupportUsers(ctx context.Context) ([]SupportUserSummary, error) {
	var out []SupportUserSummary
	err := c.Send(ctx, http.MethodGet, "/admin/support/users", nil, &out)
	return out, err
}

func (c *Client) CreateSupportUser(ctx context.Context, f SupportUserForm) error {
	return c.Send(ctx, http.MethodPost, "/admin/support-users", f, nil)
}

// SupportStudents lists the students cared for by one support user.
func (c *Client) SupportStudents(ctx context.Context, supportUserID int64) ([]StudentOfSupport, error) {
	var out []StudentOfSupport
	err := c.Send(ctx, http.MethodGet, fmt.Sprintf("/admin/support/%d/students", supportUserID), nil, &out)
	return out, err
}

// SupportCareHistory lists the care entries logged by one support user.
func (c *Client) SupportCareHistory(ctx context.Context, supportUserID int64) ([]CareHistory, error) {
	var out []CareHistory
	err := c.Send(ctx, http.MethodGet, fmt.Sprintf("/admin/support/%d/care-history", supportUserID), nil, &out)
	return out, err
}

func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := c.Send(ctx, http.MethodGet, "/admin/courses", nil, &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, f CourseForm) error {
	return c.Send(ctx, http.MethodPost, "/admin/courses", f, nil)
}

func (c *Client) UpdateCourse(ctx context.Context, id int64, f CourseForm) error {
	return c.Send(ctx, http.MethodPut, fmt.Sprintf("/admin/courses/%d", id), f, nil)
}

func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.Send(ctx, http.MethodDelete, fmt.Sprintf("/admin/courses/%d", id), nil, nil)
}

func (c *Client) Packages(ctx context.Context) ([]Package, error) {
	var out []Package
	err := c.Send(ctx, http.MethodGet, "/admin/packages", nil, &out)
	return out, err
}

func (c *Client) CreatePackage(ctx context.Context, f PackageForm) error {
	return c.Send(ctx, http.MethodPost, "/admin/packages", f, nil)
}

func (c *Client) UpdatePackage(ctx context.Context, id int64, f PackageForm) error {
	return c.Send(ctx, http.MethodPut, fmt.Sprintf("/admin/packages/%d", id), f, nil)
}

func (c *Client) DeletePackage(ctx context.Context, id int64) error {
	return c.Send(ctx, http.MethodDelete, fmt.Sprintf("/admin/packages/%d", id), nil, nil)
}

func (c *Client) Leads(ctx context.Context) ([]Lead, error) {
	var out []Lead
	err := c.Send(ctx, http.MethodGet, "/admin/leads", nil, &out)
	return out, err
}

func (c *Client) CreateLead(ctx context.Context, f LeadForm) error {
	return c.Send(ctx, http.MethodPost, "/admin/leads", f, nil)
}

func (c *Client) UpdateLead(ctx context.Context, id int64, f LeadForm) error {
	return c.Send(ctx, http.MethodPut, fmt.Sprintf("/admin/leads/%d", id), f, nil)
}

func (c *Client) DeleteLead(ctx context.Context, id int64) error {
	return c.Send(ctx, http.MethodDelete, fmt.Sprintf("/admin/leads/%d", id), nil, nil)
}

// AssignLeadSupport hands a batch of leads to one support user.
func (c *Client) AssignLeadSupport(ctx context.Context, supportUserID int64, leadIDs []int64) error {
	body := struct {
		SupportUserID int64   `json:"supportUserId"`
		LeadIDs       []int64 `json:"leadIds"`
	}{supportUserID, leadIDs}
	return c.Send(ctx, http.MethodPost, "/admin/leads/assign-support", body, nil)
}

func (c *Client) LeadCareHistory(ctx context.Context, leadID int64) ([]CareHistory, error) {
	var out []CareHistory
	err := c.Send(ctx, http.MethodGet, fmt.Sprintf("/admin/leads/%d/care-history", leadID), nil, &out)
	return out, err
}

// Dashboard fetches the four admin lists and counts them. Any failing fetch fails the whole call.
func (c *Client) Dashboard(ctx context.Context) (DashboardCounts, error) {
	var counts DashboardCounts
	students, err := c.Students(ctx)
	if err != nil {
		return counts, err
	}
	teachers, err := c.Teachers(ctx)
	if err != nil {
		return counts, err
	}
	supports, err := c.SupportUsers(ctx)
	if err != nil {
		return counts, err
	}
	courses, err := c.Courses(ctx)
	if err != nil {
		return counts, err
	}
	counts.TotalStudents = len(students)
	counts.TotalTeachers = len(teachers)
	counts.TotalSupportUsers = len(supports)
	counts.TotalCourses = len(courses)
	return counts, nil
}
