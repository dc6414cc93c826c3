package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/academia/core/session"
)

func setup(t *testing.T, ttl time.Duration) (*Backend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, ttl), mr
}

func TestBackend(t *testing.T) {
	ctx := context.Background()
	b, mr := setup(t, 0)

	got, err := b.Load(ctx, "missing")
	if err != nil || !got.IsZero() {
		t.Fatalf("Load(missing) = %+v, %v; want zero, nil", got, err)
	}

	want := session.Session{Token: "abc", Role: "ROLE_ADMIN"}
	if err := b.Save(ctx, "tab", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, _ = b.Load(ctx, "tab"); got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
	if v := mr.HGet(DefaultPrefix+"tab", session.KeyToken); v != "abc" {
		t.Errorf("stored token field = %q", v)
	}

	for i := 0; i < 2; i++ {
		if err := b.Delete(ctx, "tab"); err != nil {
			t.Fatalf("Delete() #%d error = %v", i+1, err)
		}
	}
	if mr.Exists(DefaultPrefix + "tab") {
		t.Error("hash still present after Delete()")
	}
}

func TestBackendTTL(t *testing.T) {
	ctx := context.Background()
	b, mr := setup(t, time.Hour)

	_ = b.Save(ctx, "tab", session.Session{Token: "abc", Role: "ROLE_ADMIN"})
	if ttl := mr.TTL(DefaultPrefix + "tab"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if got, _ := b.Load(ctx, "tab"); !got.IsZero() {
		t.Errorf("Load() after expiry = %+v, want zero", got)
	}
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := Dial(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	_ = rdb.Close()

	if _, err := Dial(context.Background(), "not a url"); err == nil {
		t.Error("Dial() with a bad URL succeeded")
	}
}
