package echoconsole

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core/care"
	"github.com/trezcool/academia/core/route"
)

// upcomingDays is the reminder window after today.
const upcomingDays = 7

func registerSupportPages(g *echo.Group, s *server) {
	g.GET("", s.myStudents)
	g.GET("/reminders", s.reminders)
	g.GET("/students/:studentId/history", s.myStudentHistory)
	g.POST("/students/:studentId/history", s.logStudentCare)
	g.GET("/students/:studentId/chat", s.supportChat)
	g.POST("/students/:studentId/chat", s.supportSendChat)
	g.GET("/leads", s.myLeads)
	g.GET("/leads/:leadId/history", s.myLeadHistory)
	g.POST("/leads/:leadId/history", s.logLeadCare)
}

func (s *server) myStudents(ctx echo.Context) error {
	const title = "Học viên của tôi"
	list, err := contextClient(ctx).MyStudents(ctx.Request().Context())
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}

	sec := section{
		Columns: []string{"Học viên", "Phụ huynh", "Giáo viên", "Buổi còn lại", "Học phí", "Hạn học phí", "Trạng thái"},
		Empty:   "Chưa được phân công học viên nào",
	}
	for _, st := range list {
		params := map[string]string{"studentId": idStr(st.ID)}
		sec.Rows = append(sec.Rows, row{
			Cells: []string{
				st.FullName, strings.TrimSpace(st.ParentName + " " + st.ParentPhone), st.MainTeacherName,
				fmt.Sprintf("%d/%d", st.RemainingSessions, st.TotalSessions),
				money(st.TuitionAmount) + " " + st.TuitionStatus,
				care.Display(st.TuitionDueDate) + " (" + fmtDays(st.DaysToDue) + ")", st.Status,
			},
			Link: route.Build("/support/students/:studentId/history", params),
			Actions: []action{
				{Label: "Nhắn tin", Path: route.Build("/support/students/:studentId/chat", params)},
			},
		})
	}
	return s.page(ctx, http.StatusOK, tmplSections, title, []section{sec}, "")
}

func (s *server) reminders(ctx echo.Context) error {
	const title = "Lịch chăm sóc"
	c, rctx := contextClient(ctx), ctx.Request().Context()
	today, err := c.RemindersToday(rctx)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	upcoming, err := c.RemindersUpcoming(rctx, upcomingDays)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	return s.page(ctx, http.StatusOK, tmplSections, title, []section{
		reminderSection("Hôm nay", today),
		reminderSection(fmt.Sprintf("%d ngày tới", upcomingDays), upcoming),
	}, "")
}

func reminderSection(heading string, list []apiclient.CareReminder) section {
	sec := section{
		Heading: heading,
		Columns: []string{"Thời gian", "Học viên", "Kênh", "Nội dung", "Quan trọng"},
		Empty:   "Không có lịch chăm sóc",
	}
	for _, r := range list {
		sec.Rows = append(sec.Rows, row{
			Cells: []string{care.Display(r.NextCareTime), r.StudentName, r.Channel, r.Content, yesNo(r.Important)},
			Link:  route.Build("/support/students/:studentId/history", map[string]string{"studentId": idStr(r.StudentID)}),
		})
	}
	return sec
}

// careForm is the log form shared by student and lead histories.
func careForm(action string, l apiclient.CareLog, nextDate, nextTime string) *form {
	channels := make([]option, 0, len(care.Channels))
	for _, ch := range care.Channels {
		channels = append(channels, option{Value: ch, Label: ch})
	}
	important := ""
	if l.Important {
		important = "on"
	}
	return &form{Action: action, Submit: "Ghi nhận", Fields: []field{
		choice("channel", "Kênh", l.Channel, true, channels...),
		text("careType", "Loại", l.CareType, false),
		{Type: "textarea", Name: "content", Label: "Nội dung", Value: l.Content, Required: true},
		text("result", "Kết quả", l.Result, false),
		typed("checkbox", "important", "Quan trọng", important),
		typed("date", "nextCareDate", "Chăm sóc tiếp (ngày)", nextDate),
		typed("time", "nextCareTime", "Giờ", nextTime),
	}}
}

// bindCareLog reads the care form. The next care time defaults to 09:00 when only a date is given.
func bindCareLog(ctx echo.Context) (apiclient.CareLog, error) {
	l := apiclient.CareLog{
		CareType:  ctx.FormValue("careType"),
		Channel:   ctx.FormValue("channel"),
		Content:   strings.TrimSpace(ctx.FormValue("content")),
		Result:    ctx.FormValue("result"),
		Important: formBool(ctx, "important"),
	}
	next, err := care.NextCareTime(ctx.FormValue("nextCareDate"), ctx.FormValue("nextCareTime"))
	l.NextCareTime = next
	return l, firstErr(validate(l), err)
}

func (s *server) myStudentHistory(ctx echo.Context) error {
	return s.myStudentHistoryPage(ctx, http.StatusOK, "", apiclient.CareLog{})
}

func (s *server) myStudentHistoryPage(ctx echo.Context, code int, errMsg string, posted apiclient.CareLog) error {
	const title = "Lịch sử chăm sóc"
	id, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	list, err := contextClient(ctx).MyStudentCareHistory(ctx.Request().Context(), id)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	path := route.Build("/support/students/:studentId/history", map[string]string{"studentId": idStr(id)})
	sec := historySection("", list)
	sec.Form = careForm(path, posted, ctx.FormValue("nextCareDate"), ctx.FormValue("nextCareTime"))
	return s.page(ctx, code, tmplSections, title, []section{sec}, errMsg)
}

func (s *server) logStudentCare(ctx echo.Context) error {
	id, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	l, err := bindCareLog(ctx)
	if err == nil {
		err = contextClient(ctx).LogStudentCare(ctx.Request().Context(), id, l)
	}
	back := route.Build("/support/students/:studentId/history", map[string]string{"studentId": idStr(id)})
	return afterWrite(ctx, err, back, func(code int, msg string) error {
		return s.myStudentHistoryPage(ctx, code, msg, l)
	})
}

type chatView struct {
	Messages []apiclient.ChatMessage
	Form     *form
}

func chatForm(action string) *form {
	return &form{Action: action, Submit: "Gửi", Fields: []field{
		{Type: "textarea", Name: "content", Label: "Tin nhắn", Required: true},
	}}
}

// chatContent returns the trimmed message, rejecting blank ones before any request is sent.
func chatContent(ctx echo.Context) (string, error) {
	content := strings.TrimSpace(ctx.FormValue("content"))
	if content == "" {
		return "", validate(struct {
			Content string `form:"content" validate:"required"`
		}{})
	}
	return content, nil
}

func (s *server) supportChat(ctx echo.Context) error {
	return s.supportChatPage(ctx, http.StatusOK, "")
}

func (s *server) supportChatPage(ctx echo.Context, code int, errMsg string) error {
	const title = "Nhắn tin với học viên"
	id, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	msgs, err := contextClient(ctx).SupportChat(ctx.Request().Context(), id)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	path := route.Build("/support/students/:studentId/chat", map[string]string{"studentId": idStr(id)})
	return s.page(ctx, code, tmplChat, title, chatView{Messages: msgs, Form: chatForm(path)}, errMsg)
}

func (s *server) supportSendChat(ctx echo.Context) error {
	id, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	content, err := chatContent(ctx)
	if err == nil {
		_, err = contextClient(ctx).SupportSendChat(ctx.Request().Context(), id, content)
	}
	back := route.Build("/support/students/:studentId/chat", map[string]string{"studentId": idStr(id)})
	return afterWrite(ctx, err, back, func(code int, msg string) error {
		return s.supportChatPage(ctx, code, msg)
	})
}

func (s *server) myLeads(ctx echo.Context) error {
	const title = "Khách hàng tiềm năng"
	list, err := contextClient(ctx).MyLeads(ctx.Request().Context())
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	sec := section{
		Columns: []string{"Phụ huynh", "Điện thoại", "Học viên", "Nhạc cụ", "Trạng thái", "Lần gần nhất", "Chăm sóc tiếp"},
		Empty:   "Chưa được giao khách hàng nào",
	}
	for _, l := range list {
		sec.Rows = append(sec.Rows, row{
			Cells: []string{
				l.ParentName, l.ParentPhone, l.StudentName, l.Instrument, l.Status,
				care.Display(l.LastCareTime), care.Display(l.NextCareTime),
			},
			Link: route.Build("/support/leads/:leadId/history", map[string]string{"leadId": idStr(l.ID)}),
		})
	}
	return s.page(ctx, http.StatusOK, tmplSections, title, []section{sec}, "")
}

func (s *server) myLeadHistory(ctx echo.Context) error {
	return s.myLeadHistoryPage(ctx, http.StatusOK, "", apiclient.CareLog{})
}

func (s *server) myLeadHistoryPage(ctx echo.Context, code int, errMsg string, posted apiclient.CareLog) error {
	const title = "Lịch sử chăm sóc khách hàng"
	id, err := paramID(ctx, "leadId")
	if err != nil {
		return err
	}
	list, err := contextClient(ctx).MyLeadHistory(ctx.Request().Context(), id)
	if err != nil {
		return s.fetchFailed(ctx, title, err)
	}
	path := route.Build("/support/leads/:leadId/history", map[string]string{"leadId": idStr(id)})
	sec := historySection("", list)
	sec.Form = careForm(path, posted, ctx.FormValue("nextCareDate"), ctx.FormValue("nextCareTime"))
	return s.page(ctx, code, tmplSections, title, []section{sec}, errMsg)
}

func (s *server) logLeadCare(ctx echo.Context) error {
	id, err := paramID(ctx, "leadId")
	if err != nil {
		return err
	}
	l, err := bindCareLog(ctx)
	if err == nil {
		err = contextClient(ctx).LogLeadCare(ctx.Request().Context(), id, l)
	}
	back := route.Build("/support/leads/:leadId/history", map[string]string{"leadId": idStr(id)})
	return afterWrite(ctx, err, back, func(code int, msg string) error {
		return s.myLeadHistoryPage(ctx, code, msg, l)
	})
}
