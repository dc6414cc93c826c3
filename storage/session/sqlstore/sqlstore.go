// Package sqlstore keeps console sessions in a SQL table (Postgres, or sqlite for single-node setups).
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/session"
)

type row struct {
	ID        string       `db:"id"`
	Token     string       `db:"token"`
	Role      string       `db:"role"`
	UpdatedAt time.Time    `db:"updated_at"`
	ExpiresAt sql.NullTime `db:"expires_at"`
}

// Backend implements session.Backend over the console_session table.
type Backend struct {
	db  *sqlx.DB
	ttl time.Duration
	now func() time.Time
}

var _ session.Backend = (*Backend)(nil)

// New returns a backend on db. A zero ttl keeps sessions until they are deleted.
func New(db *sqlx.DB, ttl time.Duration) *Backend {
	vala.BeginValidation().Validate(
		vala.IsNotNil(db, "db"),
	).CheckAndPanic()

	return &Backend{db: db, ttl: ttl, now: time.Now}
}

func (b *Backend) Load(ctx context.Context, id string) (session.Session, error) {
	var r row
	q := b.db.Rebind(`SELECT id, token, role, updated_at, expires_at FROM console_session WHERE id = ?`)
	if err := b.db.GetContext(ctx, &r, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, nil
		}
		return session.Session{}, errors.Wrap(err, "selecting session")
	}
	if r.ExpiresAt.Valid && !r.ExpiresAt.Time.After(b.now().UTC()) {
		return session.Session{}, nil
	}
	return session.Session{Token: r.Token, Role: r.Role}, nil
}

// Save upserts the row in a single statement.
func (b *Backend) Save(ctx context.Context, id string, s session.Session) error {
	now := b.now().UTC()
	var expires sql.NullTime
	if b.ttl > 0 {
		expires = sql.NullTime{Time: now.Add(b.ttl), Valid: true}
	}

	q := b.db.Rebind(`
		INSERT INTO console_session (id, token, role, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			token = excluded.token,
			role = excluded.role,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at`)
	if _, err := b.db.ExecContext(ctx, q, id, s.Token, s.Role, now, expires); err != nil {
		return errors.Wrap(err, "upserting session")
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, id string) error {
	q := b.db.Rebind(`DELETE FROM console_session WHERE id = ?`)
	if _, err := b.db.ExecContext(ctx, q, id); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

// Purge deletes expired sessions and returns how many were removed.
func (b *Backend) Purge(ctx context.Context) (int64, error) {
	q := b.db.Rebind(`DELETE FROM console_session WHERE expires_at IS NOT NULL AND expires_at <= ?`)
	res, err := b.db.ExecContext(ctx, q, b.now().UTC())
	if err != nil {
		return 0, errors.Wrap(err, "purging sessions")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
