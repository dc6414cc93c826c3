// Package filestore keeps terminal client sessions as one YAML file per profile.
package filestore

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/academia/core/session"
)

var profileRx = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var ErrBadProfile = errors.New("filestore: invalid profile name")

// Backend implements session.Backend under a directory.
type Backend struct {
	dir string
	mu  sync.Mutex
}

var _ session.Backend = (*Backend)(nil)

func New(dir string) *Backend {
	vala.BeginValidation().Validate(
		vala.StringNotEmpty(dir, "dir"),
	).CheckAndPanic()

	return &Backend{dir: dir}
}

// Dir returns the directory holding the profiles.
func (b *Backend) Dir() string { return b.dir }

func (b *Backend) path(id string) (string, error) {
	if !profileRx.MatchString(id) || id == "." || id == ".." {
		return "", ErrBadProfile
	}
	return filepath.Join(b.dir, id+".yaml"), nil
}

func (b *Backend) Load(_ context.Context, id string) (session.Session, error) {
	p, err := b.path(id)
	if err != nil {
		return session.Session{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := ioutil.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return session.Session{}, nil
		}
		return session.Session{}, errors.Wrap(err, "reading session file")
	}
	var s session.Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session file")
	}
	return s, nil
}

// Save writes a temporary file and renames it over the profile, so a crash leaves the old or the
// new session, never a mix.
func (b *Backend) Save(_ context.Context, id string, s session.Session) error {
	p, err := b.path(id)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	tmp, err := ioutil.TempFile(b.dir, "."+id+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return errors.Wrap(err, "restricting session file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), p), "replacing session file")
}

func (b *Backend) Delete(_ context.Context, id string) error {
	p, err := b.path(id)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}

// Profiles lists the profiles with a stored session.
func (b *Backend) Profiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(b.dir, "*.yaml"))
	if err != nil {
		return nil, errors.Wrap(err, "listing session files")
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Base(m[:len(m)-len(".yaml")]))
	}
	return out, nil
}
