package echoconsole

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
)

const attendancePath = "/admin/attendance"

// maxImageSize bounds attendance photo uploads. maxUploadBody also leaves room for the other form fields.
const (
	maxImageSize  = 10 << 20
	maxUploadBody = "11M"
)

var periodLabels = map[attendance.Period]string{
	attendance.Morning:   "Sáng",
	attendance.Afternoon: "Chiều",
	attendance.Evening:   "Tối",
}

type attendanceView struct {
	Week      string // requested week, "" for the current one
	TeacherID int64
	Teachers  []apiclient.TeacherOption
	Periods   []string
	Board     attendance.Board
	Self      string
}

// Link returns the board URL of another week (YYYY-MM-DD, "" for the current week) keeping
// the teacher and status filters.
func (v attendanceView) Link(week string) string {
	q := url.Values{}
	if week != "" {
		q.Set("week", week)
	}
	if v.TeacherID != 0 {
		q.Set("teacherId", idStr(v.TeacherID))
	}
	if v.Board.Filter != attendance.FilterAll {
		q.Set("filter", string(v.Board.Filter))
	}
	if len(q) == 0 {
		return attendancePath
	}
	return attendancePath + "?" + q.Encode()
}

func (s *server) attendance(ctx echo.Context) error {
	return s.attendancePage(ctx, http.StatusOK, "", ctx.QueryParams())
}

// attendancePage renders the board selected by q (week, teacherId, filter).
func (s *server) attendancePage(ctx echo.Context, code int, errMsg string, q url.Values) error {
	const title = "Điểm danh"
	now := time.Now()
	v := attendanceView{Week: q.Get("week")}
	v.TeacherID, _ = strconv.ParseInt(q.Get("teacherId"), 10, 64)
	monday := attendance.ParseWeek(v.Week, now)
	filter := attendance.ParseFilter(q.Get("filter"))

	c, rctx := contextClient(ctx), ctx.Request().Context()
	teachers, err := c.AttendanceTeachers(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	slots, err := c.AttendanceWeek(rctx, monday.Format(attendance.DateLayout), v.TeacherID)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	v.Teachers = teachers
	v.Board = attendance.NewBoard(monday, slots, filter, now)
	for _, p := range attendance.Periods {
		v.Periods = append(v.Periods, periodLabels[p])
	}
	v.Self = v.Link(v.Week)
	return s.page(ctx, code, tmplAttendance, title, v, errMsg)
}

// backTo returns the board URL posted with a form, falling back to the current week.
func backTo(ctx echo.Context) string {
	back := ctx.FormValue("back")
	if !strings.HasPrefix(back, attendancePath) {
		return attendancePath
	}
	return back
}

func backQuery(back string) url.Values {
	u, err := url.Parse(back)
	if err != nil {
		return url.Values{}
	}
	return u.Query()
}

func slotRef(ctx echo.Context) (int64, string, error) {
	slotID, err := formInt64(ctx, "slotId")
	if err == nil && slotID <= 0 {
		err = numberError("slotId")
	}
	date := ctx.FormValue("date")
	if _, dErr := time.Parse(attendance.DateLayout, date); err == nil && dErr != nil {
		err = core.NewValidationError(errInvalidInput, core.FieldError{Field: "date", Error: "this field must be a date"})
	}
	return slotID, date, err
}

// markAttendance uploads the photo of a slot, marking it present.
func (s *server) markAttendance(ctx echo.Context) error {
	slotID, date, err := slotRef(ctx)
	if err == nil {
		err = s.uploadImage(ctx, slotID, date)
	}
	back := backTo(ctx)
	return afterWrite(ctx, err, back, func(code int, msg string) error {
		return s.attendancePage(ctx, code, msg, backQuery(back))
	})
}

func (s *server) uploadImage(ctx echo.Context, slotID int64, date string) error {
	fh, err := ctx.FormFile("image")
	if err != nil {
		return core.NewValidationError(errInvalidInput, core.FieldError{Field: "image", Error: "this field is required"})
	}
	if fh.Size > maxImageSize {
		return core.NewValidationError(errInvalidInput, core.FieldError{Field: "image", Error: "image is too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded image")
	}
	defer f.Close()
	return contextClient(ctx).MarkAttendance(ctx.Request().Context(), slotID, date, fh.Filename, f)
}

func (s *server) deleteAttendanceImage(ctx echo.Context) error {
	slotID, date, err := slotRef(ctx)
	if err == nil {
		err = contextClient(ctx).DeleteAttendanceImage(ctx.Request().Context(), slotID, date)
	}
	back := backTo(ctx)
	return afterWrite(ctx, err, back, func(code int, msg string) error {
		return s.attendancePage(ctx, code, msg, backQuery(back))
	})
}
