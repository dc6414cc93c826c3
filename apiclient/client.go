// Package apiclient is the console's single request sender to the academy REST API.
//
// Every request is built against the configured base URL and carries the tab's bearer token when
// one is stored. Responses outside 2xx are returned as *Error; the client never retries and never
// reacts to 401 itself.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core"
)

// TokenSource yields the bearer token of the current tab. session.Store implements it.
type TokenSource interface {
	Token(ctx context.Context) (string, bool, error)
}

type noTokens struct{}

func (noTokens) Token(context.Context) (string, bool, error) { return "", false, nil }

type (
	Client struct {
		baseURL string
		tokens  TokenSource
		rest    *rest.Client
	}

	Option func(*Client)

	// RequestOption customizes one request.
	RequestOption func(*rest.Request)

	// File is a multipart file part.
	File struct {
		Field    string
		Filename string
		Content  io.Reader
	}
)

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.rest = &rest.Client{HTTPClient: hc} }
}

// WithTimeout enforces a client-side timeout. The default is none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rest = &rest.Client{HTTPClient: &http.Client{Timeout: d}}
		}
	}
}

// Query adds URL query parameters.
func Query(params map[string]string) RequestOption {
	return func(r *rest.Request) {
		if r.QueryParams == nil {
			r.QueryParams = make(map[string]string, len(params))
		}
		for k, v := range params {
			r.QueryParams[k] = v
		}
	}
}

// New returns a client for the API at baseURL. tokens may be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	vala.BeginValidation().Validate(
		vala.StringNotEmpty(baseURL, "baseURL"),
	).CheckAndPanic()

	if tokens == nil {
		tokens = noTokens{}
	}
	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		rest:    &rest.Client{HTTPClient: &http.Client{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTokens returns a copy of c that reads the bearer token from tokens.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	if tokens == nil {
		tokens = noTokens{}
	}
	cp := *c
	cp.tokens = tokens
	return &cp
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Send sends a JSON request and decodes a 2xx JSON response into out (when out is not nil).
func (c *Client) Send(ctx context.Context, method, path string, body, out interface{}, opts ...RequestOption) error {
	req := rest.Request{
		Method:  rest.Method(method),
		BaseURL: core.JoinPath(c.baseURL, path),
		Headers: map[string]string{"Accept": "application/json"},
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = data
		req.Headers["Content-Type"] = "application/json"
	}
	return c.do(ctx, req, out, opts)
}

// SendMultipart posts a multipart/form-data body made of fields and files.
func (c *Client) SendMultipart(ctx context.Context, path string, fields map[string]string, files []File, out interface{}, opts ...RequestOption) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return errors.Wrapf(err, "writing field %s", k)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return errors.Wrapf(err, "creating file part %s", f.Field)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return errors.Wrapf(err, "copying file part %s", f.Field)
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "closing multipart body")
	}

	req := rest.Request{
		Method:  rest.Post,
		BaseURL: core.JoinPath(c.baseURL, path),
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": w.FormDataContentType(),
		},
		Body: buf.Bytes(),
	}
	return c.do(ctx, req, out, opts)
}

func (c *Client) do(ctx context.Context, req rest.Request, out interface{}, opts []RequestOption) error {
	for _, opt := range opts {
		opt(&req)
	}

	token, ok, err := c.tokens.Token(ctx)
	if err != nil {
		return errors.Wrap(err, "reading token")
	}
	if ok {
		req.Headers["Authorization"] = "Bearer " + token
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return &TransportError{Method: string(req.Method), URL: req.BaseURL, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newError(res.StatusCode, []byte(res.Body))
	}
	if out == nil || len(bytes.TrimSpace([]byte(res.Body))) == 0 {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Body), out); err != nil {
		return &DecodeError{Body: []byte(res.Body), Err: err}
	}
	return nil
}
