package route

import (
	"context"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/guard"
	"github.com/trezcool/academia/core/role"
	"github.com/trezcool/academia/core/session"
)

// ErrSuperseded is returned when a later navigation or a logout happened while a guard check or
// a login was in flight. The stale result is not applied.
var ErrSuperseded = errors.New("route: navigation superseded")

// Checker decides whether the current session may enter a shell. *guard.Guard implements it.
type Checker interface {
	Check(ctx context.Context) guard.Decision
}

// View is the navigator's current state.
type View struct {
	Match
	// Profile is set in shell states, for display only.
	Profile apiclient.Profile
	// Denied is the reason of the last guard redirect, if any.
	Denied string
}

// Navigator drives one tab through the route table.
// Every shell entry runs that shell's guard against the current session.
type Navigator struct {
	mu     sync.Mutex
	seq    uint64
	view   View
	store  session.Store
	guards map[State]Checker
	authn  *auth.Authenticator
	gate   *auth.Gate
	logger core.Logger
}

func NewNavigator(store session.Store, authn *auth.Authenticator, guards map[State]Checker, logger core.Logger) *Navigator {
	vala.BeginValidation().Validate(
		core.NotNil(store, "store"),
		core.NotNil(authn, "authn"),
		core.NotNil(guards, "guards"),
		core.NotNil(logger, "logger"),
	).CheckAndPanic()

	return &Navigator{
		view:   View{Match: Dispatch(role.PathLogin)},
		store:  store,
		guards: guards,
		authn:  authn,
		gate:   auth.NewGate(),
		logger: logger,
	}
}

// Guards builds the shell guards over one profile source.
func Guards(profiles guard.Profiles, logger core.Logger) map[State]Checker {
	return map[State]Checker{
		AdminShell:   guard.Admin(profiles, logger),
		StudentShell: guard.Student(profiles, logger),
		SupportShell: guard.Support(profiles, logger),
	}
}

// Current returns the current view.
func (n *Navigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

func (n *Navigator) begin() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	return n.seq
}

// commit applies v when seq is still the latest navigation.
func (n *Navigator) commit(seq uint64, v View) (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq != n.seq {
		return n.view, ErrSuperseded
	}
	n.view = v
	return v, nil
}

// Navigate moves to path. NotFound paths follow their redirect; shell paths are guarded.
func (n *Navigator) Navigate(ctx context.Context, path string) (View, error) {
	return n.navigate(ctx, n.begin(), path)
}

func (n *Navigator) navigate(ctx context.Context, seq uint64, path string) (View, error) {
	m := Dispatch(path)
	if m.State == NotFound {
		m = Dispatch(m.Redirect)
	}
	if !m.State.Shell() {
		return n.commit(seq, View{Match: m})
	}

	chk, ok := n.guards[m.State]
	if !ok {
		return n.commit(seq, View{Match: Dispatch(role.PathLogin), Denied: "no guard for " + m.State.String()})
	}
	d := chk.Check(ctx)
	if !d.Allowed {
		return n.commit(seq, View{Match: Dispatch(d.Redirect), Denied: d.Reason})
	}
	return n.commit(seq, View{Match: m, Profile: d.Profile})
}

// Login submits creds and, on success, navigates to the landing path of the returned roles.
// A login overtaken by a logout or another navigation is dropped without touching the session.
func (n *Navigator) Login(ctx context.Context, creds auth.Credentials) (View, error) {
	release, err := n.gate.Enter("")
	if err != nil {
		return n.Current(), err
	}
	defer release()

	seq := n.begin()
	res, err := n.authn.Authenticate(ctx, creds)
	if err != nil {
		return n.Current(), err
	}

	n.mu.Lock()
	if seq != n.seq {
		n.mu.Unlock()
		n.logger.Info("login result dropped", map[string]interface{}{"username": creds.Username})
		return n.Current(), ErrSuperseded
	}
	err = n.store.Set(ctx, res.Session.Token, res.Session.Role)
	n.mu.Unlock()
	if err != nil {
		return n.Current(), err
	}

	return n.navigate(ctx, seq, res.Landing)
}

// Logout clears the session and moves to the login page. Any in-flight navigation is superseded.
func (n *Navigator) Logout(ctx context.Context) (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	path, err := auth.Logout(ctx, n.store)
	if err != nil {
		return n.view, err
	}
	n.view = View{Match: Dispatch(path)}
	return n.view, nil
}
