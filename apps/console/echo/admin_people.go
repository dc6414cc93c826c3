package echoconsole

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core/care"
	"github.com/trezcool/academia/core/route"
)

const confirmDelete = "Xác nhận xóa?"

func registerAdminPages(g *echo.Group, s *server) {
	g.GET("", s.dashboard)

	g.GET("/teachers", s.teachers)
	g.POST("/teachers", s.createTeacher)
	g.POST("/teachers/:id", s.updateTeacher)
	g.POST("/teachers/:id/delete", s.deleteTeacher)

	g.GET("/students", s.students)
	g.POST("/students", s.createStudent)
	g.POST("/students/:studentId", s.updateStudent)
	g.POST("/students/:studentId/delete", s.deleteStudent)
	g.GET("/students/:studentId/care-history", s.studentCareHistory)

	g.GET("/support-users", s.supportUsers)
	g.POST("/support-users", s.createSupportUser)
	g.GET("/support/:supportUserId", s.supportDetail)

	g.GET("/assign-support", s.assignSupport)
	g.POST("/assign-support", s.saveAssignSupport)

	g.GET("/courses", s.courses)
	g.POST("/courses", s.createCourse)
	g.POST("/courses/:id", s.updateCourse)
	g.POST("/courses/:id/delete", s.deleteCourse)

	g.GET("/packages", s.packages)
	g.POST("/packages", s.createPackage)
	g.POST("/packages/:id", s.updatePackage)
	g.POST("/packages/:id/delete", s.deletePackage)

	g.GET("/leads", s.leads)
	g.POST("/leads", s.createLead)
	g.POST("/leads/assign-support", s.assignLeads)
	g.POST("/leads/:leadId", s.updateLead)
	g.POST("/leads/:leadId/delete", s.deleteLead)
	g.GET("/leads/:leadId/care-history", s.leadCareHistory)

	g.GET("/attendance", s.attendance)
	g.POST("/attendance/mark", s.markAttendance, middleware.BodyLimit(maxUploadBody))
	g.POST("/attendance/image/delete", s.deleteAttendanceImage)
}

func (s *server) dashboard(ctx echo.Context) error {
	counts, err := contextClient(ctx).Dashboard(ctx.Request().Context())
	if err != nil {
		return s.fetchFailed(ctx, "Tổng quan", err)
	}
	return s.page(ctx, http.StatusOK, tmplDashboard, "Tổng quan", counts, "")
}

// editID returns the id of the item being edited (?edit=ID), 0 when creating.
func editID(ctx echo.Context) int64 {
	id, _ := strconv.ParseInt(ctx.QueryParam("edit"), 10, 64)
	return id
}

// teachers

func (s *server) teachers(ctx echo.Context) error {
	return s.teachersPage(ctx, http.StatusOK, "", nil, editID(ctx))
}

func (s *server) teachersPage(ctx echo.Context, code int, errMsg string, posted *apiclient.TeacherForm, editing int64) error {
	const title = "Giáo viên"
	list, err := contextClient(ctx).Teachers(ctx.Request().Context())
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	sec := section{Columns: []string{"Họ tên", "Tên đăng nhập", "Email", "Điện thoại", "Nhạc cụ", "Trạng thái"}}
	var values apiclient.TeacherForm
	for _, t := range list {
		if t.ID == editing {
			values = apiclient.TeacherForm{
				FullName: t.FullName, Email: t.Email, Phone: t.Phone, Instrument: t.Instrument, Gender: t.Gender,
				Position: t.Position, TeachingType: t.TeachingType, Status: t.Status, Note: t.Note,
			}
		}
		sec.Rows = append(sec.Rows, row{
			Cells: []string{t.FullName, t.Username, t.Email, t.Phone, t.Instrument, t.Status},
			Actions: []action{
				{Label: "Sửa", Path: "/admin/teachers?edit=" + idStr(t.ID)},
				{Label: "Xóa", Path: fmt.Sprintf("/admin/teachers/%d/delete", t.ID), Method: http.MethodPost, Confirm: confirmDelete},
			},
		})
	}
	if posted != nil {
		values = *posted
	}
	sec.Form = teacherForm(editing, values)
	return s.page(ctx, code, tmplSections, title, []section{sec}, errMsg)
}

func teacherForm(id int64, f apiclient.TeacherForm) *form {
	frm := &form{Action: "/admin/teachers", Submit: "Thêm giáo viên"}
	if id != 0 {
		frm.Action = fmt.Sprintf("/admin/teachers/%d", id)
		frm.Submit = "Cập nhật"
	} else {
		frm.Fields = append(frm.Fields,
			text("username", "Tên đăng nhập", f.Username, false),
			typed("password", "password", "Mật khẩu", ""),
		)
	}
	frm.Fields = append(frm.Fields,
		text("fullName", "Họ tên", f.FullName, true),
		typed("email", "email", "Email", f.Email),
		text("phone", "Điện thoại", f.Phone, false),
		text("instrument", "Nhạc cụ", f.Instrument, false),
		text("gender", "Giới tính", f.Gender, false),
		text("position", "Vị trí", f.Position, false),
		text("teachingType", "Hình thức dạy", f.TeachingType, false),
		text("status", "Trạng thái", f.Status, false),
		typed("textarea", "note", "Ghi chú", f.Note),
	)
	return frm
}

func (s *server) createTeacher(ctx echo.Context) error {
	var f apiclient.TeacherForm
	if err := ctx.Bind(&f); err != nil {
		return err
	}
	err := validate(f)
	if err == nil {
		err = contextClient(ctx).CreateTeacher(ctx.Request().Context(), f)
	}
	return afterWrite(ctx, err, "/admin/teachers", func(code int, msg string) error {
		return s.teachersPage(ctx, code, msg, &f, 0)
	})
}

func (s *server) updateTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var f apiclient.TeacherForm
	if err := ctx.Bind(&f); err != nil {
		return err
	}
	err = validate(f)
	if err == nil {
		err = contextClient(ctx).UpdateTeacher(ctx.Request().Context(), id, f)
	}
	return afterWrite(ctx, err, "/admin/teachers", func(code int, msg string) error {
		return s.teachersPage(ctx, code, msg, &f, id)
	})
}

func (s *server) deleteTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	err = contextClient(ctx).DeleteTeacher(ctx.Request().Context(), id)
	return afterWrite(ctx, err, "/admin/teachers", func(code int, msg string) error {
		return s.teachersPage(ctx, code, msg, nil, 0)
	})
}

// students

func (s *server) students(ctx echo.Context) error {
	return s.studentsPage(ctx, http.StatusOK, "", nil, editID(ctx))
}

func (s *server) studentsPage(ctx echo.Context, code int, errMsg string, posted *apiclient.StudentForm, editing int64) error {
	const title = "Học viên"
	list, err := contextClient(ctx).Students(ctx.Request().Context())
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	sec := section{Columns: []string{"Họ tên", "Điện thoại", "Phụ huynh", "Khóa học", "Buổi còn lại", "CSKH", "Trạng thái"}}
	var values apiclient.StudentForm
	for _, st := range list {
		if st.ID == editing {
			values = apiclient.StudentForm{
				FullName: st.FullName, Email: st.Email, Phone: st.Phone,
				ParentName: st.ParentName, ParentPhone: st.ParentPhone, Status: st.Status,
			}
		}
		sec.Rows = append(sec.Rows, row{
			Cells: []string{
				st.FullName, st.Phone, st.ParentName, st.CourseName,
				fmt.Sprintf("%d/%d", st.RemainingSessions, st.TotalSessions), st.CareStaffName, st.Status,
			},
			Link: route.Build("/admin/students/:studentId/care-history", map[string]string{"studentId": idStr(st.ID)}),
			Actions: []action{
				{Label: "Sửa", Path: "/admin/students?edit=" + idStr(st.ID)},
				{Label: "Xóa", Path: fmt.Sprintf("/admin/students/%d/delete", st.ID), Method: http.MethodPost, Confirm: confirmDelete},
			},
		})
	}
	if posted != nil {
		values = *posted
	}
	sec.Form = studentForm(editing, values)
	return s.page(ctx, code, tmplSections, title, []section{sec}, errMsg)
}

func studentForm(id int64, f apiclient.StudentForm) *form {
	frm := &form{Action: "/admin/students", Submit: "Thêm học viên"}
	if id != 0 {
		frm.Action = fmt.Sprintf("/admin/students/%d", id)
		frm.Submit = "Cập nhật"
	} else {
		frm.Fields = append(frm.Fields,
			text("username", "Tên đăng nhập", f.Username, false),
			typed("password", "password", "Mật khẩu", ""),
		)
	}
	frm.Fields = append(frm.Fields,
		text("fullName", "Họ tên", f.FullName, true),
		typed("email", "email", "Email", f.Email),
		text("phone", "Điện thoại", f.Phone, false),
		text("parentName", "Phụ huynh", f.ParentName, false),
		text("parentPhone", "SĐT phụ huynh", f.ParentPhone, false),
		typed("email", "parentEmail", "Email phụ huynh", f.ParentEmail),
		text("status", "Trạng thái", f.Status, false),
		typed("textarea", "note", "Ghi chú", f.Note),
	)
	return frm
}

func (s *server) createStudent(ctx echo.Context) error {
	var f apiclient.StudentForm
	if err := ctx.Bind(&f); err != nil {
		return err
	}
	err := validate(f)
	if err == nil {
		err = contextClient(ctx).CreateStudent(ctx.Request().Context(), f)
	}
	return afterWrite(ctx, err, "/admin/students", func(code int, msg string) error {
		return s.studentsPage(ctx, code, msg, &f, 0)
	})
}

func (s *server) updateStudent(ctx echo.Context) error {
	id, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	var f apiclient.StudentForm
	if err := ctx.Bind(&f); err != nil {
		return err
	}
	err = validate(f)
	if err == nil {
		err = contextClient(ctx).UpdateStudent(ctx.Request().Context(), id, f)
	}
	return afterWrite(ctx, err, "/admin/students", func(code int, msg string) error {
		return s.studentsPage(ctx, code, msg, &f, id)
	})
}

func (s *server) deleteStudent(ctx echo.Context) error {
	id, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	err = contextClient(ctx).DeleteStudent(ctx.Request().Context(), id)
	return afterWrite(ctx, err, "/admin/students", func(code int, msg string) error {
		return s.studentsPage(ctx, code, msg, nil, 0)
	})
}

func (s *server) studentCareHistory(ctx echo.Context) error {
	const title = "Lịch sử chăm sóc học viên"
	id, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	list, err := contextClient(ctx).StudentCareHistory(ctx.Request().Context(), id)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	return s.page(ctx, http.StatusOK, tmplSections, title, []section{historySection("", list)}, "")
}

// historySection lists care history entries, most recent first as returned by the API.
func historySection(heading string, list []apiclient.CareHistory) section {
	sec := section{
		Heading: heading,
		Columns: []string{"Thời gian", "Nhân viên", "Kênh", "Loại", "Nội dung", "Kết quả", "Quan trọng", "Chăm sóc tiếp"},
		Empty:   "Chưa có lịch sử chăm sóc",
	}
	for _, h := range list {
		sec.Rows = append(sec.Rows, row{Cells: []string{
			care.Display(h.CareTime), h.SupportFullName, h.Channel, h.CareType, h.Content, h.Result,
			yesNo(h.Important), care.Display(h.NextCareTime),
		}})
	}
	return sec
}

// support users

func (s *server) supportUsers(ctx echo.Context) error {
	return s.supportUsersPage(ctx, http.StatusOK, "", nil)
}

func (s *server) supportUsersPage(ctx echo.Context, code int, errMsg string, posted *apiclient.SupportUserForm) error {
	const title = "Nhân viên CSKH"
	list, err := contextClient(ctx).SupportUsers(ctx.Request().Context())
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	sec := section{Columns: []string{"Họ tên", "Điện thoại", "Email", "Số học viên", "Số lần chăm sóc", "Lần gần nhất"}}
	for _, u := range list {
		sec.Rows = append(sec.Rows, row{
			Cells: []string{u.FullName, u.Phone, u.Email, itoa(u.TotalStudents), itoa(u.TotalCareRecords), care.Display(u.LastCareTime)},
			Link:  route.Build("/admin/support/:supportUserId", map[string]string{"supportUserId": idStr(u.ID)}),
		})
	}
	var f apiclient.SupportUserForm
	if posted != nil {
		f = *posted
	}
	sec.Form = &form{Action: "/admin/support-users", Submit: "Thêm nhân viên", Fields: []field{
		text("username", "Tên đăng nhập", f.Username, true),
		{Type: "password", Name: "password", Label: "Mật khẩu", Required: true},
		text("fullName", "Họ tên", f.FullName, true),
		typed("email", "email", "Email", f.Email),
		text("phone", "Điện thoại", f.Phone, false),
	}}
	return s.page(ctx, code, tmplSections, title, []section{sec}, errMsg)
}

func (s *server) createSupportUser(ctx echo.Context) error {
	var f apiclient.SupportUserForm
	if err := ctx.Bind(&f); err != nil {
		return err
	}
	err := validate(f)
	if err == nil {
		err = contextClient(ctx).CreateSupportUser(ctx.Request().Context(), f)
	}
	return afterWrite(ctx, err, "/admin/support-users", func(code int, msg string) error {
		f.Password = ""
		return s.supportUsersPage(ctx, code, msg, &f)
	})
}

func (s *server) supportDetail(ctx echo.Context) error {
	const title = "Chi tiết nhân viên CSKH"
	id, err := paramID(ctx, "supportUserId")
	if err != nil {
		return err
	}
	c, rctx := contextClient(ctx), ctx.Request().Context()
	students, err := c.SupportStudents(rctx, id)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	history, err := c.SupportCareHistory(rctx, id)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	studs := section{
		Heading: "Học viên phụ trách",
		Columns: []string{"Họ tên", "Điện thoại", "Trạng thái", "Buổi còn lại", "Số lần chăm sóc", "Lần gần nhất"},
		Empty:   "Chưa phụ trách học viên nào",
	}
	for _, st := range students {
		studs.Rows = append(studs.Rows, row{
			Cells: []string{
				st.FullName, st.Phone, st.Status, fmt.Sprintf("%d/%d", st.RemainingSessions, st.TotalSessions),
				itoa(st.CareRecordCount), care.Display(st.LastCareTime),
			},
			Link: route.Build("/admin/students/:studentId/care-history", map[string]string{"studentId": idStr(st.StudentID)}),
		})
	}
	return s.page(ctx, http.StatusOK, tmplSections, title, []section{studs, historySection("Lịch sử chăm sóc", history)}, "")
}

// assignment

func (s *server) assignSupport(ctx echo.Context) error {
	return s.assignSupportPage(ctx, http.StatusOK, "")
}

// assignSupportPage splits students by whether a support user is assigned to them.
func (s *server) assignSupportPage(ctx echo.Context, code int, errMsg string) error {
	const title = "Phân công CSKH"
	c, rctx := contextClient(ctx), ctx.Request().Context()
	students, err := c.Students(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	supports, err := c.SupportUsers(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	opts := []option{{Value: "", Label: "-- Chưa phân công --"}}
	for _, u := range supports {
		opts = append(opts, option{Value: idStr(u.ID), Label: u.FullName})
	}
	selectFor := func(st apiclient.Student) *form {
		current := ""
		for _, u := range supports {
			if u.FullName == st.CareStaffName {
				current = idStr(u.ID)
			}
		}
		own := make([]option, len(opts))
		copy(own, opts)
		return &form{Action: "/admin/assign-support", Submit: "Lưu", Fields: []field{
			hidden("studentId", idStr(st.ID)),
			choice("supportUserId", "", current, false, own...),
		}}
	}

	unassigned := section{Heading: "Chưa phân công", Columns: []string{"Học viên", "Điện thoại"}, Empty: "Tất cả học viên đã được phân công"}
	assigned := section{Heading: "Đã phân công", Columns: []string{"Học viên", "Điện thoại", "CSKH"}, Empty: "Chưa có học viên nào được phân công"}
	for _, st := range students {
		if st.CareStaffName == "" {
			unassigned.Rows = append(unassigned.Rows, row{Cells: []string{st.FullName, st.Phone}, Form: selectFor(st)})
		} else {
			assigned.Rows = append(assigned.Rows, row{Cells: []string{st.FullName, st.Phone, st.CareStaffName}, Form: selectFor(st)})
		}
	}
	return s.page(ctx, code, tmplSections, title, []section{unassigned, assigned}, errMsg)
}

// saveAssignSupport assigns a support user to a student; an empty choice detaches the student.
func (s *server) saveAssignSupport(ctx echo.Context) error {
	studentID, err := formInt64(ctx, "studentId")
	if err == nil && studentID <= 0 {
		err = numberError("studentId")
	}
	var supportID int64
	if err == nil {
		supportID, err = formInt64(ctx, "supportUserId")
	}
	if err == nil {
		err = contextClient(ctx).AssignSupport(ctx.Request().Context(), studentID, supportID)
	}
	return afterWrite(ctx, err, "/admin/assign-support", func(code int, msg string) error {
		return s.assignSupportPage(ctx, code, msg)
	})
}
