package apiclient

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

type (
	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		Token    string   `json:"token" validate:"required"`
		Username string   `json:"username"`
		FullName string   `json:"fullName"`
		Roles    []string `json:"roles"`
	}

	// Profile is the current user as returned by GET /profile/user.
	Profile struct {
		ID       int64    `json:"id"`
		Username string   `json:"username"`
		FullName string   `json:"fullName"`
		Email    string   `json:"email"`
		Phone    string   `json:"phone"`
		Roles    []string `json:"roles"`
	}
)

// Login exchanges credentials for a token and a role set.
func (c *Client) Login(ctx context.Context, uname, pwd string) (LoginResponse, error) {
	var res LoginResponse
	if err := c.Send(ctx, http.MethodPost, "/auth/login", LoginRequest{Username: uname, Password: pwd}, &res); err != nil {
		return LoginResponse{}, err
	}
	if err := core.Validate.Struct(res); err != nil {
		return LoginResponse{}, &DecodeError{Err: errors.Wrap(err, "login response")}
	}
	if res.Roles == nil {
		res.Roles = []string{}
	}
	return res, nil
}

// Profile fetches the current user. It is the call every shell guard makes.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := c.Send(ctx, http.MethodGet, "/profile/user", nil, &p); err != nil {
		return Profile{}, err
	}
	if p.Roles == nil {
		p.Roles = []string{}
	}
	return p, nil
}
