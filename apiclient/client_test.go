package apiclient

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, bool, error) {
	return string(s), s != "", nil
}

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", tokens)
}

func TestBearerHeader(t *testing.T) {
	tests := []struct {
		name   string
		tokens TokenSource
		want   string
	}{
		{"with token", staticTokens("abc"), "Bearer abc"},
		{"without token", staticTokens(""), ""},
		{"nil source", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				_, _ = w.Write([]byte(`{"id":1,"roles":["ROLE_ADMIN"]}`))
			}, tc.tokens)

			if _, err := c.Profile(context.Background()); err != nil {
				t.Fatalf("Profile() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Authorization = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPathJoining(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	if _, err := c.Teachers(context.Background()); err != nil {
		t.Fatalf("Teachers() error = %v", err)
	}
	if path != "/api/admin/teachers" {
		t.Errorf("path = %q, want /api/admin/teachers", path)
	}
}

func TestNon2xxIsError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		str     string
		isStr   bool
	}{
		{"plain text", http.StatusUnauthorized, "Bad creds", "Bad creds", "Bad creds", true},
		{"json string", http.StatusUnauthorized, `"Bad creds"`, "Bad creds", "Bad creds", true},
		{"json object", http.StatusBadRequest, `{"message":"nope"}`, "nope", "", false},
		{"empty", http.StatusInternalServerError, "", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, nil)

			err := c.Send(context.Background(), http.MethodGet, "/x", nil, nil)
			status, ok := StatusOf(err)
			if !ok || status != tc.status {
				t.Fatalf("StatusOf(%v) = %d, %v; want %d", err, status, ok, tc.status)
			}
			apiErr := err.(*Error)
			if apiErr.Message != tc.message {
				t.Errorf("Message = %q, want %q", apiErr.Message, tc.message)
			}
			str, isStr := apiErr.StringMessage()
			if str != tc.str || isStr != tc.isStr {
				t.Errorf("StringMessage() = %q, %v; want %q, %v", str, isStr, tc.str, tc.isStr)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil)
	err := c.Send(context.Background(), http.MethodGet, "/x", nil, nil)
	if !IsTransport(err) {
		t.Errorf("IsTransport(%v) = false, want true", err)
	}
	if _, ok := StatusOf(err); ok {
		t.Errorf("StatusOf(%v) reported a status for a transport failure", err)
	}
}

func TestLogin(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var req LoginRequest
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
				t.Errorf("request = %s %s", r.Method, r.URL.Path)
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			_, _ = w.Write([]byte(`{"token":"t","username":"a","fullName":"A","roles":["ROLE_ADMIN"]}`))
		}, nil)

		res, err := c.Login(context.Background(), "a", "pw")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if req != (LoginRequest{Username: "a", Password: "pw"}) {
			t.Errorf("body = %+v", req)
		}
		if res.Token != "t" || len(res.Roles) != 1 || res.Roles[0] != "ROLE_ADMIN" {
			t.Errorf("Login() = %+v", res)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"roles":["ROLE_ADMIN"]}`))
		}, nil)

		_, err := c.Login(context.Background(), "a", "pw")
		if _, ok := err.(*DecodeError); !ok {
			t.Errorf("Login() error = %T %v, want *DecodeError", err, err)
		}
	})

	t.Run("nil roles", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"token":"t"}`))
		}, nil)

		res, err := c.Login(context.Background(), "a", "pw")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if res.Roles == nil {
			t.Error("Roles = nil, want empty slice")
		}
	})
}

func TestAttendanceWeekQuery(t *testing.T) {
	tests := []struct {
		name      string
		teacherID int64
		want      string
	}{
		{"all teachers", 0, "startDate=2025-12-01"},
		{"one teacher", 7, "startDate=2025-12-01&teacherId=7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var query string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				query = r.URL.Query().Encode()
				_, _ = w.Write([]byte(`[{"slotId":1,"date":"2025-12-01","startTime":"09:00"}]`))
			}, nil)

			slots, err := c.AttendanceWeek(context.Background(), "2025-12-01", tc.teacherID)
			if err != nil {
				t.Fatalf("AttendanceWeek() error = %v", err)
			}
			if query != tc.want {
				t.Errorf("query = %q, want %q", query, tc.want)
			}
			if len(slots) != 1 || slots[0].SlotID != 1 {
				t.Errorf("slots = %+v", slots)
			}
		})
	}
}

func TestMarkAttendanceMultipart(t *testing.T) {
	var fields map[string]string
	var image string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
			return
		}
		fields = map[string]string{
			"slotId": r.FormValue("slotId"),
			"date":   r.FormValue("date"),
			"status": r.FormValue("status"),
		}
		f, _, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			return
		}
		defer f.Close()
		b, _ := ioutil.ReadAll(f)
		image = string(b)
	}, staticTokens("t"))

	err := c.MarkAttendance(context.Background(), 3, "2025-12-04", "proof.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("MarkAttendance() error = %v", err)
	}
	want := map[string]string{"slotId": "3", "date": "2025-12-04", "status": "PRESENT"}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %q, want %q", k, fields[k], v)
		}
	}
	if image != "jpeg-bytes" {
		t.Errorf("image = %q", image)
	}
}

func TestAssignSupportDetach(t *testing.T) {
	var body map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}, nil)

	if err := c.AssignSupport(context.Background(), 5, 0); err != nil {
		t.Fatalf("AssignSupport() error = %v", err)
	}
	if v, ok := body["supportUserId"]; !ok || v != nil {
		t.Errorf("supportUserId = %v (present=%v), want null", v, ok)
	}
	if body["studentId"] != float64(5) {
		t.Errorf("studentId = %v, want 5", body["studentId"])
	}
}
