package echoconsole

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/care"
	"github.com/trezcool/academia/core/route"
)

// scheduleRows is the number of weekly slots offered by the package form.
const scheduleRows = 3

// courses

func (s *server) courses(ctx echo.Context) error {
	return s.coursesPage(ctx, http.StatusOK, "", nil, editID(ctx))
}

func (s *server) coursesPage(ctx echo.Context, code int, errMsg string, posted *apiclient.CourseForm, editing int64) error {
	const title = "Khóa học"
	list, err := contextClient(ctx).Courses(ctx.Request().Context())
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	sec := section{Columns: []string{"Mã", "Tên", "Nhạc cụ", "Trình độ", "Học phí", "Số buổi", "Trạng thái"}}
	var values apiclient.CourseForm
	for _, c := range list {
		if c.ID == editing {
			fee, total := c.TuitionFee, c.TotalSessions
			values = apiclient.CourseForm{
				Code: c.Code, Name: c.Name, Description: c.Description, Instrument: c.Instrument,
				Level: c.Level, TuitionFee: &fee, TotalSessions: &total, Status: c.Status,
			}
		}
		sec.Rows = append(sec.Rows, row{
			Cells: []string{c.Code, c.Name, c.Instrument, c.Level, money(c.TuitionFee), itoa(c.TotalSessions), c.Status},
			Actions: []action{
				{Label: "Sửa", Path: "/admin/courses?edit=" + idStr(c.ID)},
				{Label: "Xóa", Path: fmt.Sprintf("/admin/courses/%d/delete", c.ID), Method: http.MethodPost, Confirm: confirmDelete},
			},
		})
	}
	if posted != nil {
		values = *posted
	}

	frm := &form{Action: "/admin/courses", Submit: "Thêm khóa học"}
	if editing != 0 {
		frm.Action, frm.Submit = fmt.Sprintf("/admin/courses/%d", editing), "Cập nhật"
	}
	fee := ""
	if values.TuitionFee != nil {
		fee = strconv.FormatFloat(*values.TuitionFee, 'f', -1, 64)
	}
	frm.Fields = []field{
		text("code", "Mã", values.Code, true),
		text("name", "Tên", values.Name, true),
		typed("textarea", "description", "Mô tả", values.Description),
		text("instrument", "Nhạc cụ", values.Instrument, false),
		text("level", "Trình độ", values.Level, false),
		typed("number", "tuitionFee", "Học phí", fee),
		typed("number", "totalSessions", "Số buổi", optionalInt(values.TotalSessions)),
		text("status", "Trạng thái", values.Status, false),
	}
	sec.Form = frm
	return s.page(ctx, code, tmplSections, title, []section{sec}, errMsg)
}

func bindCourse(ctx echo.Context) (apiclient.CourseForm, error) {
	f := apiclient.CourseForm{
		Code:        strings.TrimSpace(ctx.FormValue("code")),
		Name:        strings.TrimSpace(ctx.FormValue("name")),
		Description: ctx.FormValue("description"),
		Instrument:  ctx.FormValue("instrument"),
		Level:       ctx.FormValue("level"),
		Status:      ctx.FormValue("status"),
	}
	var feeErr, totalErr error
	f.TuitionFee, feeErr = formFloat(ctx, "tuitionFee")
	f.TotalSessions, totalErr = formInt(ctx, "totalSessions")
	return f, firstErr(feeErr, totalErr, validate(f))
}

func (s *server) createCourse(ctx echo.Context) error {
	f, err := bindCourse(ctx)
	if err == nil {
		err = contextClient(ctx).CreateCourse(ctx.Request().Context(), f)
	}
	return afterWrite(ctx, err, "/admin/courses", func(code int, msg string) error {
		return s.coursesPage(ctx, code, msg, &f, 0)
	})
}

func (s *server) updateCourse(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	f, err := bindCourse(ctx)
	if err == nil {
		err = contextClient(ctx).UpdateCourse(ctx.Request().Context(), id, f)
	}
	return afterWrite(ctx, err, "/admin/courses", func(code int, msg string) error {
		return s.coursesPage(ctx, code, msg, &f, id)
	})
}

func (s *server) deleteCourse(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	err = contextClient(ctx).DeleteCourse(ctx.Request().Context(), id)
	return afterWrite(ctx, err, "/admin/courses", func(code int, msg string) error {
		return s.coursesPage(ctx, code, msg, nil, 0)
	})
}

// packages

func (s *server) packages(ctx echo.Context) error {
	return s.packagesPage(ctx, http.StatusOK, "", nil, editID(ctx))
}

func (s *server) packagesPage(ctx echo.Context, code int, errMsg string, posted *apiclient.PackageForm, editing int64) error {
	const title = "Gói học"
	c, rctx := contextClient(ctx), ctx.Request().Context()
	list, err := c.Packages(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	students, err := c.Students(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	teachers, err := c.Teachers(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	courses, err := c.Courses(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	sec := section{Columns: []string{"Học viên", "Giáo viên", "Khóa học", "Lịch", "Kỳ hiện tại", "Học phí", "Buổi", "Trạng thái"}}
	var values apiclient.PackageForm
	for _, p := range list {
		if p.ID == editing {
			total, completed, course := p.TotalSessions, p.SessionsCompleted, p.CourseID
			values = apiclient.PackageForm{
				StudentID: p.StudentID, TeacherID: p.TeacherID, Schedules: p.Schedules, LessonForm: p.LessonForm,
				OldPeriodStart: p.OldPeriodStart, OldPeriodEnd: p.OldPeriodEnd,
				CurrentPeriodStart: p.CurrentPeriodStart, CurrentPeriodEnd: p.CurrentPeriodEnd,
				TuitionDueDate: p.TuitionDueDate, TuitionPaidDate: p.TuitionPaidDate,
				TotalSessions: &total, SessionsCompleted: &completed, Note: p.Note,
			}
			if course != 0 {
				values.CourseID = &course
			}
		}
		sec.Rows = append(sec.Rows, row{
			Cells: []string{
				p.StudentName, p.TeacherName, p.CourseName, scheduleText(p.Schedules),
				care.Display(p.CurrentPeriodStart) + " - " + care.Display(p.CurrentPeriodEnd),
				money(p.TuitionAmount) + " " + p.TuitionStatus,
				fmt.Sprintf("%d/%d", p.SessionsCompleted, p.TotalSessions), p.Status,
			},
			Actions: []action{
				{Label: "Sửa", Path: "/admin/packages?edit=" + idStr(p.ID)},
				{Label: "Xóa", Path: fmt.Sprintf("/admin/packages/%d/delete", p.ID), Method: http.MethodPost, Confirm: confirmDelete},
			},
		})
	}
	if posted != nil {
		values = *posted
	}

	studentOpts := []option{{Value: "", Label: "-- Học viên --"}}
	for _, st := range students {
		studentOpts = append(studentOpts, option{Value: idStr(st.ID), Label: st.FullName})
	}
	teacherOpts := []option{{Value: "", Label: "-- Giáo viên --"}}
	for _, t := range teachers {
		teacherOpts = append(teacherOpts, option{Value: idStr(t.ID), Label: t.FullName})
	}
	courseOpts := []option{{Value: "", Label: "-- Không chọn --"}}
	for _, co := range courses {
		courseOpts = append(courseOpts, option{Value: idStr(co.ID), Label: co.Name})
	}
	courseID := ""
	if values.CourseID != nil {
		courseID = idStr(*values.CourseID)
	}

	frm := &form{Action: "/admin/packages", Submit: "Thêm gói học"}
	if editing != 0 {
		frm.Action, frm.Submit = fmt.Sprintf("/admin/packages/%d", editing), "Cập nhật"
	}
	frm.Fields = []field{
		choice("studentId", "Học viên", optionalID(values.StudentID), true, studentOpts...),
		choice("teacherId", "Giáo viên", optionalID(values.TeacherID), true, teacherOpts...),
		choice("courseId", "Khóa học", courseID, false, courseOpts...),
		text("lessonForm", "Hình thức học", values.LessonForm, false),
		typed("date", "currentPeriodStart", "Bắt đầu kỳ", values.CurrentPeriodStart),
		typed("date", "currentPeriodEnd", "Kết thúc kỳ", values.CurrentPeriodEnd),
		typed("date", "tuitionDueDate", "Hạn học phí", values.TuitionDueDate),
		typed("date", "tuitionPaidDate", "Ngày đóng học phí", values.TuitionPaidDate),
		typed("number", "totalSessions", "Tổng số buổi", optionalInt(values.TotalSessions)),
		typed("number", "sessionsCompleted", "Đã học", optionalInt(values.SessionsCompleted)),
	}
	for i := 0; i < scheduleRows; i++ {
		var sch apiclient.PackageSchedule
		if i < len(values.Schedules) {
			sch = values.Schedules[i]
		}
		dayOpts := []option{{Value: "", Label: "--"}}
		for d := 1; d <= 7; d++ {
			dayOpts = append(dayOpts, option{Value: itoa(d), Label: attendance.Weekday(d)})
		}
		day := ""
		if sch.DayOfWeek != 0 {
			day = itoa(sch.DayOfWeek)
		}
		frm.Fields = append(frm.Fields,
			choice("dayOfWeek", fmt.Sprintf("Lịch %d", i+1), day, false, dayOpts...),
			typed("time", "startTime", "Từ", sch.StartTime),
			typed("time", "endTime", "Đến", sch.EndTime),
		)
	}
	frm.Fields = append(frm.Fields, typed("textarea", "note", "Ghi chú", values.Note))
	sec.Form = frm
	return s.page(ctx, code, tmplSections, title, []section{sec}, errMsg)
}

func scheduleText(list []apiclient.PackageSchedule) string {
	parts := make([]string, 0, len(list))
	for _, sch := range list {
		parts = append(parts, fmt.Sprintf("%s %s-%s", attendance.Weekday(sch.DayOfWeek), sch.StartTime, sch.EndTime))
	}
	return strings.Join(parts, ", ")
}

// bindPackage reads the package form. Schedule rows come as parallel dayOfWeek/startTime/endTime
// values; rows without a day are skipped.
func bindPackage(ctx echo.Context) (apiclient.PackageForm, error) {
	f := apiclient.PackageForm{
		LessonForm:         ctx.FormValue("lessonForm"),
		CurrentPeriodStart: ctx.FormValue("currentPeriodStart"),
		CurrentPeriodEnd:   ctx.FormValue("currentPeriodEnd"),
		TuitionDueDate:     ctx.FormValue("tuitionDueDate"),
		TuitionPaidDate:    ctx.FormValue("tuitionPaidDate"),
		Note:               ctx.FormValue("note"),
	}
	var errs [5]error
	f.StudentID, errs[0] = formInt64(ctx, "studentId")
	f.TeacherID, errs[1] = formInt64(ctx, "teacherId")
	var course int64
	if course, errs[2] = formInt64(ctx, "courseId"); course != 0 {
		f.CourseID = &course
	}
	f.TotalSessions, errs[3] = formInt(ctx, "totalSessions")
	f.SessionsCompleted, errs[4] = formInt(ctx, "sessionsCompleted")

	params, err := ctx.FormParams()
	if err != nil {
		return f, err
	}
	days, starts, ends := params["dayOfWeek"], params["startTime"], params["endTime"]
	for i, d := range days {
		dow, err := strconv.Atoi(d)
		if err != nil || dow < 1 || dow > 7 {
			continue
		}
		sch := apiclient.PackageSchedule{DayOfWeek: dow}
		if i < len(starts) {
			sch.StartTime = starts[i]
		}
		if i < len(ends) {
			sch.EndTime = ends[i]
		}
		f.Schedules = append(f.Schedules, sch)
	}
	return f, firstErr(append(errs[:], validate(f))...)
}

func (s *server) createPackage(ctx echo.Context) error {
	f, err := bindPackage(ctx)
	if err == nil {
		err = contextClient(ctx).CreatePackage(ctx.Request().Context(), f)
	}
	return afterWrite(ctx, err, "/admin/packages", func(code int, msg string) error {
		return s.packagesPage(ctx, code, msg, &f, 0)
	})
}

func (s *server) updatePackage(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	f, err := bindPackage(ctx)
	if err == nil {
		err = contextClient(ctx).UpdatePackage(ctx.Request().Context(), id, f)
	}
	return afterWrite(ctx, err, "/admin/packages", func(code int, msg string) error {
		return s.packagesPage(ctx, code, msg, &f, id)
	})
}

func (s *server) deletePackage(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	err = contextClient(ctx).DeletePackage(ctx.Request().Context(), id)
	return afterWrite(ctx, err, "/admin/packages", func(code int, msg string) error {
		return s.packagesPage(ctx, code, msg, nil, 0)
	})
}

// leads

func (s *server) leads(ctx echo.Context) error {
	return s.leadsPage(ctx, http.StatusOK, "", nil, editID(ctx))
}

func (s *server) leadsPage(ctx echo.Context, code int, errMsg string, posted *apiclient.LeadForm, editing int64) error {
	const title = "Khách hàng tiềm năng"
	c, rctx := contextClient(ctx), ctx.Request().Context()
	list, err := c.Leads(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	supports, err := c.SupportUsers(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	supportOpts := []option{{Value: "", Label: "-- CSKH --"}}
	for _, u := range supports {
		supportOpts = append(supportOpts, option{Value: idStr(u.ID), Label: u.FullName})
	}

	sec := section{Columns: []string{"Phụ huynh", "Điện thoại", "Học viên", "Nhạc cụ", "Nguồn", "Trạng thái", "CSKH", "Chăm sóc tiếp"}}
	var values apiclient.LeadForm
	for _, l := range list {
		if l.ID == editing {
			values = apiclient.LeadForm{
				ParentName: l.ParentName, ParentPhone: l.ParentPhone, ParentEmail: l.ParentEmail,
				StudentName: l.StudentName, Instrument: l.Instrument, LessonType: l.LessonType, Level: l.Level,
				PreferredSchedule: l.PreferredSchedule, Source: l.Source, Status: l.Status,
			}
			if l.StudentAge != 0 {
				age := l.StudentAge
				values.StudentAge = &age
			}
		}
		own := make([]option, len(supportOpts))
		copy(own, supportOpts)
		sec.Rows = append(sec.Rows, row{
			Cells: []string{
				l.ParentName, l.ParentPhone, l.StudentName, l.Instrument, l.Source, l.Status,
				l.SupportFullName, care.Display(l.NextCareTime),
			},
			Link: route.Build("/admin/leads/:leadId/care-history", map[string]string{"leadId": idStr(l.ID)}),
			Actions: []action{
				{Label: "Sửa", Path: "/admin/leads?edit=" + idStr(l.ID)},
				{Label: "Xóa", Path: fmt.Sprintf("/admin/leads/%d/delete", l.ID), Method: http.MethodPost, Confirm: confirmDelete},
			},
			Form: &form{Action: "/admin/leads/assign-support", Submit: "Giao", Fields: []field{
				hidden("leadIds", idStr(l.ID)),
				choice("supportUserId", "", optionalID(l.SupportUserID), true, own...),
			}},
		})
	}
	if posted != nil {
		values = *posted
	}

	frm := &form{Action: "/admin/leads", Submit: "Thêm khách hàng"}
	if editing != 0 {
		frm.Action, frm.Submit = fmt.Sprintf("/admin/leads/%d", editing), "Cập nhật"
	}
	frm.Fields = []field{
		text("parentName", "Phụ huynh", values.ParentName, true),
		text("parentPhone", "Điện thoại", values.ParentPhone, true),
		typed("email", "parentEmail", "Email", values.ParentEmail),
		text("studentName", "Tên học viên", values.StudentName, false),
		typed("number", "studentAge", "Tuổi", optionalInt(values.StudentAge)),
		text("instrument", "Nhạc cụ", values.Instrument, false),
		text("lessonType", "Hình thức học", values.LessonType, false),
		text("level", "Trình độ", values.Level, false),
		text("preferredSchedule", "Lịch mong muốn", values.PreferredSchedule, false),
		text("source", "Nguồn", values.Source, false),
		text("status", "Trạng thái", values.Status, false),
	}
	sec.Form = frm
	return s.page(ctx, code, tmplSections, title, []section{sec}, errMsg)
}

func bindLead(ctx echo.Context) (apiclient.LeadForm, error) {
	f := apiclient.LeadForm{
		ParentName:        strings.TrimSpace(ctx.FormValue("parentName")),
		ParentPhone:       strings.TrimSpace(ctx.FormValue("parentPhone")),
		ParentEmail:       strings.TrimSpace(ctx.FormValue("parentEmail")),
		StudentName:       ctx.FormValue("studentName"),
		Instrument:        ctx.FormValue("instrument"),
		LessonType:        ctx.FormValue("lessonType"),
		Level:             ctx.FormValue("level"),
		PreferredSchedule: ctx.FormValue("preferredSchedule"),
		Source:            ctx.FormValue("source"),
		Status:            ctx.FormValue("status"),
	}
	var ageErr error
	f.StudentAge, ageErr = formInt(ctx, "studentAge")
	return f, firstErr(ageErr, validate(f))
}

func (s *server) createLead(ctx echo.Context) error {
	f, err := bindLead(ctx)
	if err == nil {
		err = contextClient(ctx).CreateLead(ctx.Request().Context(), f)
	}
	return afterWrite(ctx, err, "/admin/leads", func(code int, msg string) error {
		return s.leadsPage(ctx, code, msg, &f, 0)
	})
}

func (s *server) updateLead(ctx echo.Context) error {
	id, err := paramID(ctx, "leadId")
	if err != nil {
		return err
	}
	f, err := bindLead(ctx)
	if err == nil {
		err = contextClient(ctx).UpdateLead(ctx.Request().Context(), id, f)
	}
	return afterWrite(ctx, err, "/admin/leads", func(code int, msg string) error {
		return s.leadsPage(ctx, code, msg, &f, id)
	})
}

func (s *server) deleteLead(ctx echo.Context) error {
	id, err := paramID(ctx, "leadId")
	if err != nil {
		return err
	}
	err = contextClient(ctx).DeleteLead(ctx.Request().Context(), id)
	return afterWrite(ctx, err, "/admin/leads", func(code int, msg string) error {
		return s.leadsPage(ctx, code, msg, nil, 0)
	})
}

// assignLeads hands one or more leads (repeated leadIds values) to a support user.
func (s *server) assignLeads(ctx echo.Context) error {
	supportID, err := formInt64(ctx, "supportUserId")
	if err == nil && supportID <= 0 {
		err = numberError("supportUserId")
	}
	var ids []int64
	if err == nil {
		params, pErr := ctx.FormParams()
		err = pErr
		for _, v := range params["leadIds"] {
			id, convErr := strconv.ParseInt(v, 10, 64)
			if convErr != nil {
				err = numberError("leadIds")
				break
			}
			ids = append(ids, id)
		}
	}
	if err == nil {
		err = contextClient(ctx).AssignLeadSupport(ctx.Request().Context(), supportID, ids)
	}
	return afterWrite(ctx, err, "/admin/leads", func(code int, msg string) error {
		return s.leadsPage(ctx, code, msg, nil, 0)
	})
}

func (s *server) leadCareHistory(ctx echo.Context) error {
	const title = "Lịch sử chăm sóc khách hàng"
	id, err := paramID(ctx, "leadId")
	if err != nil {
		return err
	}
	list, err := contextClient(ctx).LeadCareHistory(ctx.Request().Context(), id)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	return s.page(ctx, http.StatusOK, tmplSections, title, []section{historySection("", list)}, "")
}
