package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// MyStudents lists the students assigned to the signed-in support user.
func (c *Client) MyStudents(ctx context.Context) ([]StudentCareSummary, error) {
	var out []StudentCareSummary
	err := c.Send(ctx, http.MethodGet, "/support/my-students", nil, &out)
	return out, err
}

func (c *Client) RemindersToday(ctx context.Context) ([]CareReminder, error) {
	var out []CareReminder
	err := c.Send(ctx, http.MethodGet, "/support/reminders/today", nil, &out)
	return out, err
}

// RemindersUpcoming lists reminders due within the next days days.
func (c *Client) RemindersUpcoming(ctx context.Context, days int) ([]CareReminder, error) {
	var out []CareReminder
	err := c.Send(ctx, http.MethodGet, "/support/reminders/upcoming", nil, &out,
		Query(map[string]string{"days": strconv.Itoa(days)}))
	return out, err
}

func (c *Client) MyStudentCareHistory(ctx context.Context, studentID int64) ([]CareHistory, error) {
	var out []CareHistory
	err := c.Send(ctx, http.MethodGet, fmt.Sprintf("/support/care-history/student/%d", studentID), nil, &out)
	return out, err
}

// LogStudentCare records a care interaction with a student.
func (c *Client) LogStudentCare(ctx context.Context, studentID int64, log CareLog) error {
	log.StudentID = studentID
	return c.Send(ctx, http.MethodPost, "/support/care-history", log, nil)
}

func (c *Client) MyLeads(ctx context.Context) ([]Lead, error) {
	var out []Lead
	err := c.Send(ctx, http.MethodGet, "/support/leads", nil, &out)
	return out, err
}

func (c *Client) MyLeadHistory(ctx context.Context, leadID int64) ([]CareHistory, error) {
	var out []CareHistory
	err := c.Send(ctx, http.MethodGet, fmt.Sprintf("/support/leads/%d/history", leadID), nil, &out)
	return out, err
}

// LogLeadCare records a care interaction with a lead.
func (c *Client) LogLeadCare(ctx context.Context, leadID int64, log CareLog) error {
	log.StudentID = 0
	return c.Send(ctx, http.MethodPost, fmt.Sprintf("/support/leads/%d/care-history", leadID), log, nil)
}

func (c *Client) SupportChat(ctx context.Context, studentID int64) ([]ChatMessage, error) {
	var out []ChatMessage
	err := c.Send(ctx, http.MethodGet, fmt.Sprintf("/support/chat/student/%d", studentID), nil, &out)
	return out, err
}

func (c *Client) SupportSendChat(ctx context.Context, studentID int64, content string) (ChatMessage, error) {
	var out ChatMessage
	err := c.Send(ctx, http.MethodPost, fmt.Sprintf("/support/chat/student/%d", studentID), chatBody{content}, &out)
	return out, err
}

type chatBody struct {
	Content string `json:"content"`
}
