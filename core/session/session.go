// Package session holds the console's credential token and role hint for one tab.
//
// A tab is a browser console session (identified by a cookie) or a terminal profile. Backends are
// keyed by tab id; Bind returns the Store of a single tab.
package session

import (
	"context"

	"github.com/pkg/errors"
)

// Persisted keys.
const (
	KeyToken = "token"
	KeyRole  = "role"
)

// Session is the persisted state of one tab.
type Session struct {
	Token string `json:"token" yaml:"token" db:"token"`
	Role  string `json:"role" yaml:"role" db:"role"`
}

func (s Session) IsZero() bool { return s.Token == "" && s.Role == "" }

// Fields returns the session as its persisted key/value pairs.
func (s Session) Fields() map[string]string {
	return map[string]string{KeyToken: s.Token, KeyRole: s.Role}
}

// FromFields builds a Session from persisted key/value pairs; unknown keys are ignored.
func FromFields(m map[string]string) Session {
	return Session{Token: m[KeyToken], Role: m[KeyRole]}
}

// Backend persists sessions keyed by tab id. Implementations must be safe for concurrent use.
type Backend interface {
	// Load returns the zero Session when nothing is stored for id.
	Load(ctx context.Context, id string) (Session, error)
	// Save overwrites the session of id in a single step.
	Save(ctx context.Context, id string, s Session) error
	// Delete removes the session of id. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}

// Store is the session of a single tab.
type Store interface {
	// Set persists both fields, replacing any previous session.
	Set(ctx context.Context, token, roleHint string) error
	// Token returns the stored token and whether one is present.
	Token(ctx context.Context) (string, bool, error)
	Get(ctx context.Context) (Session, error)
	// Clear removes all fields. It returns once the removal is durable.
	Clear(ctx context.Context) error
}

var ErrNoTab = errors.New("session: empty tab id")

type boundStore struct {
	backend Backend
	id      string
}

// Bind returns the Store of tab id in backend.
func Bind(backend Backend, id string) Store {
	return &boundStore{backend: backend, id: id}
}

func (s *boundStore) Set(ctx context.Context, token, roleHint string) error {
	if s.id == "" {
		return ErrNoTab
	}
	return errors.Wrap(s.backend.Save(ctx, s.id, Session{Token: token, Role: roleHint}), "saving session")
}

func (s *boundStore) Token(ctx context.Context) (string, bool, error) {
	sess, err := s.Get(ctx)
	if err != nil {
		return "", false, err
	}
	return sess.Token, sess.Token != "", nil
}

func (s *boundStore) Get(ctx context.Context) (Session, error) {
	if s.id == "" {
		return Session{}, nil
	}
	sess, err := s.backend.Load(ctx, s.id)
	return sess, errors.Wrap(err, "loading session")
}

func (s *boundStore) Clear(ctx context.Context) error {
	if s.id == "" {
		return nil
	}
	return errors.Wrap(s.backend.Delete(ctx, s.id), "deleting session")
}
