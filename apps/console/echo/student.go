package echoconsole

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core/attendance"
)

const studentChatPath = "/student/chat"

func registerStudentPages(g *echo.Group, s *server) {
	g.GET("", s.studentHome)
	g.GET("/schedule", s.studentSchedule)
	g.GET("/chat", s.studentChat)
	g.POST("/chat", s.studentSendChat)
}

type studentView struct {
	Student  apiclient.StudentProfile
	Schedule []apiclient.TeachingAssignment
}

// studentHome shows the student record next to the schedule; the user profile is the one the
// shell guard just fetched.
func (s *server) studentHome(ctx echo.Context) error {
	const title = "Tổng quan"
	c, rctx := contextClient(ctx), ctx.Request().Context()
	prof, err := c.StudentProfile(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	sched, err := c.Schedule(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	return s.page(ctx, http.StatusOK, tmplStudent, title, studentView{Student: prof, Schedule: sched}, "")
}

func (s *server) studentSchedule(ctx echo.Context) error {
	const title = "Lịch học"
	sched, err := contextClient(ctx).Schedule(ctx.Request().Context())
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	sec := section{Columns: []string{"Thứ", "Giờ", "Phòng", "Giáo viên", "Trạng thái"}, Empty: "Chưa có lịch học"}
	for _, a := range sched {
		sec.Rows = append(sec.Rows, row{Cells: []string{
			attendance.Weekday(a.DayOfWeek), a.StartTime + "-" + a.EndTime, a.Room, a.TeacherName, a.Status,
		}})
	}
	return s.page(ctx, http.StatusOK, tmplSections, title, []section{sec}, "")
}

func (s *server) studentChat(ctx echo.Context) error {
	return s.studentChatPage(ctx, http.StatusOK, "")
}

// studentChatPage resolves the student id from the student record, then loads the conversation.
func (s *server) studentChatPage(ctx echo.Context, code int, errMsg string) error {
	const title = "Nhắn tin với CSKH"
	c, rctx := contextClient(ctx), ctx.Request().Context()
	prof, err := c.StudentProfile(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	msgs, err := c.StudentChat(rctx, prof.ID)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	return s.page(ctx, code, tmplChat, title, chatView{Messages: msgs, Form: chatForm(studentChatPath)}, errMsg)
}

func (s *server) studentSendChat(ctx echo.Context) error {
	content, err := chatContent(ctx)
	if err == nil {
		c, rctx := contextClient(ctx), ctx.Request().Context()
		var prof apiclient.StudentProfile
		if prof, err = c.StudentProfile(rctx); err == nil {
			_, err = c.StudentSendChat(rctx, prof.ID, content)
		}
	}
	return afterWrite(ctx, err, studentChatPath, func(code int, msg string) error {
		return s.studentChatPage(ctx, code, msg)
	})
}
