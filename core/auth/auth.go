// Package auth implements login submission and logout against the session store.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/role"
	"github.com/trezcool/academia/core/session"
)

// Inline messages shown on the login form.
const (
	MsgInvalidCredentials = "Sai tên đăng nhập hoặc mật khẩu"
	MsgServerErrorFmt     = "Lỗi server: %d"
	MsgUnreachable        = "Không kết nối được server"
)

var ErrLoginInFlight = errors.New("auth: login already in progress")

type Kind int

const (
	KindInvalidCredentials Kind = iota + 1
	KindServer
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindServer:
		return "server error"
	case KindUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// LoginError carries the inline message of a failed login.
type LoginError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

type Credentials struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Validate checks required fields; it returns a *core.ValidationError.
func (c Credentials) Validate() error {
	return core.AsValidationError(core.Validate.Struct(c))
}

// LoginAPI is the backend call used by Submit. *apiclient.Client implements it.
type LoginAPI interface {
	Login(ctx context.Context, uname, pwd string) (apiclient.LoginResponse, error)
}

// Result is a successful login.
type Result struct {
	Landing  string
	Session  session.Session
	FullName string
	Roles    []string
}

type Authenticator struct {
	api    LoginAPI
	logger core.Logger
}

func NewAuthenticator(api LoginAPI, logger core.Logger) *Authenticator {
	vala.BeginValidation().Validate(
		core.NotNil(api, "api"),
		core.NotNil(logger, "logger"),
	).CheckAndPanic()

	return &Authenticator{api: api, logger: logger}
}

// Authenticate calls the backend and returns the session to persist, without persisting it.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (Result, error) {
	if err := creds.Validate(); err != nil {
		return Result{}, err
	}

	res, err := a.api.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		lErr := loginError(err)
		a.logger.Info("login failed", map[string]interface{}{"username": creds.Username, "kind": lErr.Kind.String()}, err)
		return Result{}, lErr
	}

	return Result{
		Landing:  role.ResolvePath(res.Roles),
		Session:  session.Session{Token: res.Token, Role: role.PickHint(res.Roles)},
		FullName: res.FullName,
		Roles:    res.Roles,
	}, nil
}

// Submit logs in and persists the session into store. No session is written on failure.
func (a *Authenticator) Submit(ctx context.Context, store session.Store, creds Credentials) (Result, error) {
	res, err := a.Authenticate(ctx, creds)
	if err != nil {
		return Result{}, err
	}
	if err := store.Set(ctx, res.Session.Token, res.Session.Role); err != nil {
		return Result{}, err
	}
	return res, nil
}

func loginError(err error) *LoginError {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == 401 {
			msg := MsgInvalidCredentials
			if s, ok := apiErr.StringMessage(); ok {
				msg = s
			}
			return &LoginError{Kind: KindInvalidCredentials, Status: 401, Message: msg, Err: err}
		}
		return &LoginError{Kind: KindServer, Status: apiErr.Status, Message: fmt.Sprintf(MsgServerErrorFmt, apiErr.Status), Err: err}
	}
	// no response, or a response the console could not read
	return &LoginError{Kind: KindUnreachable, Message: MsgUnreachable, Err: err}
}

// Logout clears the tab's session and returns the login path. It is idempotent.
func Logout(ctx context.Context, store session.Store) (string, error) {
	if err := store.Clear(ctx); err != nil {
		return "", err
	}
	return role.PathLogin, nil
}

// Gate allows one in-flight login per form instance.
type Gate struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewGate() *Gate {
	return &Gate{inflight: make(map[string]struct{})}
}

// Enter marks key busy. The returned release must be called when the submission completes.
func (g *Gate) Enter(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[key]; busy {
		return nil, ErrLoginInFlight
	}
	g.inflight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, key)
			g.mu.Unlock()
		})
	}, nil
}
