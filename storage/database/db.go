// Package database opens the SQL database holding console sessions and runs its migrations.
package database

import (
	"context"
	"embed"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// ParseURL maps a database URL to a driver name and DSN.
// postgres:// and postgresql:// URLs go to lib/pq; sqlite:PATH and sqlite://PATH to modernc sqlite.
func ParseURL(dbURL string) (driver, dsn string, err error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", errors.Wrap(err, "parsing database URL")
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		return DriverPostgres, dbURL, nil
	case "sqlite", "sqlite3":
		dsn = strings.TrimPrefix(strings.TrimPrefix(dbURL, u.Scheme+":"), "//")
		if dsn == "" {
			return "", "", errors.New("sqlite URL without a path")
		}
		return DriverSQLite, dsn, nil
	default:
		return "", "", errors.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// Open connects to dbURL and waits until the database answers.
func Open(ctx context.Context, dbURL string) (*sqlx.DB, error) {
	driver, dsn, err := ParseURL(dbURL)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate runs a goose command (up, down, status, version, reset, ...) with the embedded migrations.
func Migrate(ctx context.Context, db *sqlx.DB, command string, args ...string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.RunContext(ctx, command, db.DB, "migrations", args...); err != nil {
		return errors.Wrapf(err, "running migration command %q", command)
	}
	return nil
}
