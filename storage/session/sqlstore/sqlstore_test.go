package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/storage/database"
)

func prepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, "sqlite:"+filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(ctx, db, "up"); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db
}

func TestBackend(t *testing.T) {
	ctx := context.Background()
	b := New(prepareDB(t), 0)

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

	want = session.Session{Token: "def", Role: "ROLE_STUDENT"}
	if err := b.Save(ctx, "tab", want); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}
	if got, _ = b.Load(ctx, "tab"); got != want {
		t.Errorf("Load() after overwrite = %+v, want %+v", got, want)
	}

	for i := 0; i < 2; i++ {
		if err := b.Delete(ctx, "tab"); err != nil {
			t.Fatalf("Delete() #%d error = %v", i+1, err)
		}
	}
	if got, _ = b.Load(ctx, "tab"); !got.IsZero() {
		t.Errorf("Load() after Delete() = %+v", got)
	}
}

func TestBackendExpiry(t *testing.T) {
	ctx := context.Background()
	b := New(prepareDB(t), time.Hour)
	now := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	_ = b.Save(ctx, "tab", session.Session{Token: "abc", Role: "ROLE_ADMIN"})
	if got, _ := b.Load(ctx, "tab"); got.Token != "abc" {
		t.Fatalf("Load() before expiry = %+v", got)
	}

	now = now.Add(2 * time.Hour)
	if got, _ := b.Load(ctx, "tab"); !got.IsZero() {
		t.Errorf("Load() after expiry = %+v, want zero", got)
	}
	n, err := b.Purge(ctx)
	if err != nil || n != 1 {
		t.Errorf("Purge() = %d, %v; want 1, nil", n, err)
	}
}

func TestSessionStoreOnSQL(t *testing.T) {
	ctx := context.Background()
	store := session.Bind(New(prepareDB(t), 0), "tab")

	if err := store.Set(ctx, "abc", "ROLE_ADMIN"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if tok, ok, _ := store.Token(ctx); !ok || tok != "abc" {
		t.Errorf("Token() = %q, %v", tok, ok)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := store.Token(ctx); ok {
		t.Error("token present after Clear()")
	}
}
