// Package guard re-verifies the stored token for a shell before any of the shell renders.
package guard

import (
	"context"
	"strings"

	"github.com/kat-co/vala"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/role"
)

// Profiles fetches the current user. *apiclient.Client implements it.
type Profiles interface {
	Profile(ctx context.Context) (apiclient.Profile, error)
}

// Denial reasons.
const (
	ReasonFetchFailed  = "profile fetch failed"
	ReasonRoleMismatch = "role missing"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed  bool
	Redirect string // "/login" when denied
	Profile  apiclient.Profile
	Reason   string
	Err      error
}

// Guard protects one shell. Roles is an any-of set.
type Guard struct {
	Shell    string
	Roles    []string
	Profiles Profiles
	Logger   core.Logger
}

func New(shell string, profiles Profiles, logger core.Logger, roles ...string) *Guard {
	vala.BeginValidation().Validate(
		vala.StringNotEmpty(shell, "shell"),
		core.NotNil(profiles, "profiles"),
	).CheckAndPanic()

	return &Guard{Shell: shell, Roles: roles, Profiles: profiles, Logger: logger}
}

func Admin(profiles Profiles, logger core.Logger) *Guard {
	return New(role.PathAdmin, profiles, logger, role.AdminRoles...)
}

func Student(profiles Profiles, logger core.Logger) *Guard {
	return New(role.PathStudent, profiles, logger, role.Student)
}

func Support(profiles Profiles, logger core.Logger) *Guard {
	return New(role.PathSupport, profiles, logger, role.Support)
}

// Check fetches the profile with the current token and accepts it only when it carries one of
// the shell roles. Every failure denies with a redirect to the login path.
// The session store is left untouched either way.
func (g *Guard) Check(ctx context.Context) Decision {
	p, err := g.Profiles.Profile(ctx)
	if err != nil {
		return g.deny(ReasonFetchFailed, err)
	}
	if !role.Has(p.Roles, g.Roles...) {
		return g.deny(ReasonRoleMismatch, nil)
	}
	return Decision{Allowed: true, Profile: p}
}

func (g *Guard) deny(reason string, err error) Decision {
	if g.Logger != nil {
		args := []interface{}{map[string]interface{}{
			"shell":    g.Shell,
			"required": strings.Join(g.Roles, "|"),
		}}
		if err != nil {
			args = append(args, err)
		}
		g.Logger.Info("guard: "+reason, args...)
	}
	return Decision{Redirect: role.PathLogin, Reason: reason, Err: err}
}
