// Package sessionstore opens the session backend selected by configuration.
package sessionstore

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/storage/database"
	"github.com/trezcool/academia/storage/session/filestore"
	"github.com/trezcool/academia/storage/session/redisstore"
	"github.com/trezcool/academia/storage/session/sqlstore"
)

// Backend names.
const (
	Memory   = "memory"
	Redis    = "redis"
	Postgres = "postgres"
	SQLite   = "sqlite"
	File     = "file"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the configured backend and a closer releasing its connections.
// SQL backends are migrated up before use.
func Open(ctx context.Context, conf *core.Config) (session.Backend, io.Closer, error) {
	ttl := conf.Server.SessionTTL

	switch conf.Session.Backend {
	case Memory, "":
		return session.NewMemoryBackend(), nopCloser{}, nil

	case Redis:
		rdb, err := redisstore.Dial(ctx, conf.Session.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(rdb, ttl), rdb, nil

	case Postgres, SQLite:
		db, err := database.Open(ctx, conf.Session.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db, "up"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlstore.New(db, ttl), db, nil

	case File:
		return filestore.New(conf.Session.Dir), nopCloser{}, nil

	default:
		return nil, nil, errors.Errorf("unknown session backend %q", conf.Session.Backend)
	}
}
