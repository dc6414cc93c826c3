package apiclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
)

const AttendancePresent = "PRESENT"

// AttendanceTeachers lists the teachers selectable on the attendance board.
func (c *Client) AttendanceTeachers(ctx context.Context) ([]TeacherOption, error) {
	var out []TeacherOption
	err := c.Send(ctx, http.MethodGet, "/admin/attendance/teachers", nil, &out)
	return out, err
}

// AttendanceWeek lists the slots of the week starting at startDate (YYYY-MM-DD).
// A zero teacherID lists every teacher.
func (c *Client) AttendanceWeek(ctx context.Context, startDate string, teacherID int64) ([]AttendanceSlot, error) {
	params := map[string]string{"startDate": startDate}
	if teacherID != 0 {
		params["teacherId"] = strconv.FormatInt(teacherID, 10)
	}
	var out []AttendanceSlot
	err := c.Send(ctx, http.MethodGet, "/admin/attendance/week", nil, &out, Query(params))
	return out, err
}

// MarkAttendance uploads the proof image of a slot and marks it present.
func (c *Client) MarkAttendance(ctx context.Context, slotID int64, date, filename string, image io.Reader) error {
	fields := map[string]string{
		"slotId": strconv.FormatInt(slotID, 10),
		"date":   date,
		"status": AttendancePresent,
	}
	files := []File{{Field: "image", Filename: filename, Content: image}}
	return c.SendMultipart(ctx, "/admin/attendance/mark", fields, files, nil)
}

// DeleteAttendanceImage removes the proof image of a slot and resets its status.
func (c *Client) DeleteAttendanceImage(ctx context.Context, slotID int64, date string) error {
	params := map[string]string{"slotId": strconv.FormatInt(slotID, 10), "date": date}
	return c.Send(ctx, http.MethodDelete, "/admin/attendance/image", nil, nil, Query(params))
}
