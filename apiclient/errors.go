package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Error is a non-2xx response from the academy API.
type Error struct {
	Status  int
	Body    []byte
	Message string // server supplied message, if any
	JSON    bool   // Body is valid JSON
}

func newError(status int, body []byte) *Error {
	e := &Error{Status: status, Body: body}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return e
	}

	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		e.Message = string(trimmed)
		return e
	}
	e.JSON = true
	switch val := v.(type) {
	case string:
		e.Message = val
	case map[string]interface{}:
		for _, key := range []string{"message", "error"} {
			if s, ok := val[key].(string); ok && s != "" {
				e.Message = s
				break
			}
		}
	}
	return e
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// StringMessage returns the body when the server sent a plain string (raw text or a JSON string).
func (e *Error) StringMessage() (string, bool) {
	trimmed := bytes.TrimSpace(e.Body)
	if len(trimmed) == 0 {
		return "", false
	}
	if !e.JSON {
		return string(trimmed), true
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// TransportError is returned when no response was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a 2xx body cannot be decoded.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("api: malformed response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
