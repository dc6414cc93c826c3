// Package redisstore keeps console sessions in Redis hashes.
package redisstore

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/academia/core/session"
)

const DefaultPrefix = "academia:session:"

// Backend implements session.Backend with one hash per tab.
type Backend struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ session.Backend = (*Backend)(nil)

// New returns a backend on rdb. A zero ttl keeps sessions until they are deleted.
func New(rdb redis.UniversalClient, ttl time.Duration) *Backend {
	vala.BeginValidation().Validate(
		vala.IsNotNil(rdb, "rdb"),
	).CheckAndPanic()

	return &Backend{rdb: rdb, prefix: DefaultPrefix, ttl: ttl}
}

// Dial parses a redis:// URL and checks the server answers.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

func (b *Backend) key(id string) string { return b.prefix + id }

func (b *Backend) Load(ctx context.Context, id string) (session.Session, error) {
	m, err := b.rdb.HGetAll(ctx, b.key(id)).Result()
	if err != nil {
		return session.Session{}, errors.Wrap(err, "reading session hash")
	}
	return session.FromFields(m), nil
}

// Save replaces the hash inside MULTI/EXEC so readers never see a mix of two sessions.
func (b *Backend) Save(ctx context.Context, id string, s session.Session) error {
	key := b.key(id)
	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, session.KeyToken, s.Token, session.KeyRole, s.Role)
		if b.ttl > 0 {
			pipe.Expire(ctx, key, b.ttl)
		}
		return nil
	})
	return errors.Wrap(err, "writing session hash")
}

func (b *Backend) Delete(ctx context.Context, id string) error {
	return errors.Wrap(b.rdb.Del(ctx, b.key(id)).Err(), "deleting session hash")
}
