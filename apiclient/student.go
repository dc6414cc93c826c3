package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// StudentProfile fetches the student record of the signed-in user.
func (c *Client) StudentProfile(ctx context.Context) (StudentProfile, error) {
	var out StudentProfile
	err := c.Send(ctx, http.MethodGet, "/profile/student", nil, &out)
	return out, err
}

func (c *Client) Schedule(ctx context.Context) ([]TeachingAssignment, error) {
	var out []TeachingAssignment
	err := c.Send(ctx, http.MethodGet, "/student/schedule", nil, &out)
	return out, err
}

func (c *Client) StudentChat(ctx context.Context, studentID int64) ([]ChatMessage, error) {
	var out []ChatMessage
	err := c.Send(ctx, http.MethodGet, fmt.Sprintf("/student/chat/%d", studentID), nil, &out)
	return out, err
}

func (c *Client) StudentSendChat(ctx context.Context, studentID int64, content string) (ChatMessage, error) {
	var out ChatMessage
	err := c.Send(ctx, http.MethodPost, fmt.Sprintf("/student/chat/%d", studentID), chatBody{content}, &out)
	return out, err
}
