// Package testutil provides a fake academy backend and helpers shared by package tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/apiclient"
)

var signingKey = []byte("fake-academy-secret")

// Claims are the claims of tokens issued by the fake backend.
type Claims struct {
	jwt.StandardClaims
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// User is an account known to the fake backend.
type User struct {
	ID           int64
	Username     string
	FullName     string
	Email        string
	Roles        []string
	PasswordHash []byte
	// Token, when set, is returned by login instead of a signed JWT.
	Token string
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Request is a request received by the fake backend.
type Request struct {
	Method string
	Path   string
	Token  string
}

// FakeAPI is an in-process academy backend serving under /api.
type FakeAPI struct {
	Echo   *echo.Echo
	Server *httptest.Server

	mu       sync.Mutex
	nextID   int64
	users    map[string]*User // by username
	tokens   map[string]*User // static tokens
	requests []Request

	// UnauthorizedBody is the plain text body of failed logins; empty sends no body.
	UnauthorizedBody string
	// LoginStatus forces the status of every login response when non-zero.
	LoginStatus int
	// ProfileHook runs before /profile/user answers.
	ProfileHook func()
}

func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		Echo:   echo.New(),
		users:  make(map[string]*User),
		tokens: make(map[string]*User),
	}
	f.Echo.HideBanner = true
	f.Echo.HidePort = true
	f.Echo.Use(f.record)

	api := f.Echo.Group("/api")
	api.POST("/auth/login", f.login)
	api.GET("/profile/user", f.profile, f.requireAuth)

	f.Server = httptest.NewServer(f.Echo)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL.
func (f *FakeAPI) URL() string { return f.Server.URL + "/api" }

// Client returns an API client for the fake backend.
func (f *FakeAPI) Client(tokens apiclient.TokenSource) *apiclient.Client {
	return apiclient.New(f.URL(), tokens)
}

// AddUser registers an account.
func (f *FakeAPI) AddUser(t testing.TB, uname, pwd, fullName string, roles ...string) *User {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	usr := &User{
		ID:       f.nextID,
		Username: uname,
		FullName: fullName,
		Email:    uname + "@academia.test",
		Roles:    roles,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("AddUser() failed: %v", err)
	}
	f.users[uname] = usr
	return usr
}

// SetToken makes token authenticate as usr.
func (f *FakeAPI) SetToken(token string, usr *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = usr
	usr.Token = token
}

// IssueToken signs a JWT for usr.
func (f *FakeAPI) IssueToken(t testing.TB, usr *User) string {
	t.Helper()
	tok, err := issue(usr)
	if err != nil {
		t.Fatalf("IssueToken() failed: %v", err)
	}
	return tok
}

// JSON serves body on method path (relative to /api) to authenticated requests.
func (f *FakeAPI) JSON(method, path string, status int, body interface{}) {
	f.Echo.Add(method, "/api"+path, func(c echo.Context) error {
		if body == nil {
			return c.NoContent(status)
		}
		return c.JSON(status, body)
	}, f.requireAuth)
}

// Handle serves h on method path (relative to /api) to authenticated requests.
func (f *FakeAPI) Handle(method, path string, h echo.HandlerFunc) {
	f.Echo.Add(method, "/api"+path, h, f.requireAuth)
}

// Requests returns the requests received so far.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// CurrentUser returns the user authenticated by requireAuth.
func CurrentUser(c echo.Context) *User {
	usr, _ := c.Get("user").(*User)
	return usr
}

func (f *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		f.mu.Lock()
		f.requests = append(f.requests, Request{
			Method: c.Request().Method,
			Path:   c.Request().URL.Path,
			Token:  bearer(c.Request()),
		})
		f.mu.Unlock()
		return next(c)
	}
}

func (f *FakeAPI) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		usr := f.authenticate(bearer(c.Request()))
		if usr == nil {
			return c.String(http.StatusUnauthorized, "Unauthorized")
		}
		c.Set("user", usr)
		return next(c)
	}
}

func (f *FakeAPI) authenticate(token string) *User {
	if token == "" {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if usr, ok := f.tokens[token]; ok {
		return usr
	}
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	return f.users[claims.Username]
}

func (f *FakeAPI) login(c echo.Context) error {
	if f.LoginStatus != 0 {
		return c.NoContent(f.LoginStatus)
	}

	var req apiclient.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	f.mu.Lock()
	usr, ok := f.users[req.Username]
	f.mu.Unlock()
	if !ok || usr.CheckPassword(req.Password) != nil {
		if f.UnauthorizedBody == "" {
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.String(http.StatusUnauthorized, f.UnauthorizedBody)
	}

	token := usr.Token
	if token == "" {
		var err error
		if token, err = issue(usr); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, apiclient.LoginResponse{
		Token:    token,
		Username: usr.Username,
		FullName: usr.FullName,
		Roles:    usr.Roles,
	})
}

func (f *FakeAPI) profile(c echo.Context) error {
	if f.ProfileHook != nil {
		f.ProfileHook()
	}
	usr := CurrentUser(c)
	return c.JSON(http.StatusOK, apiclient.Profile{
		ID:       usr.ID,
		Username: usr.Username,
		FullName: usr.FullName,
		Email:    usr.Email,
		Roles:    usr.Roles,
	})
}

func issue(usr *User) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    "fake-academy",
			ExpiresAt: now.Add(time.Hour).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: usr.Username,
		Roles:    usr.Roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

func bearer(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
