package logsvc

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/academia/core"
)

func TestZapLogger(t *testing.T) {
	zcore, logs := observer.New(zap.DebugLevel)
	l := NewZapLogger(zap.New(zcore))

	l.Info("guard: role missing",
		map[string]interface{}{"shell": "/admin", "required": "ROLE_SUPER_ADMIN|ROLE_ADMIN"},
		errors.New("boom"),
		core.Person{ID: "7", Username: "admin"},
		42,
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Message != "guard: role missing" || e.Level != zap.InfoLevel {
		t.Errorf("entry = %q at %v", e.Message, e.Level)
	}
	ctx := e.ContextMap()
	want := map[string]interface{}{
		"shell":           "/admin",
		"required":        "ROLE_SUPER_ADMIN|ROLE_ADMIN",
		"error":           "boom",
		"person.id":       "7",
		"person.username": "admin",
		"arg3":            int64(42),
	}
	for k, v := range want {
		if ctx[k] != v {
			t.Errorf("field %s = %#v, want %#v", k, ctx[k], v)
		}
	}
}

func TestNewPicksZapWithoutToken(t *testing.T) {
	l := New(zap.NewNop(), &core.Config{})
	if _, ok := l.(*ZapLogger); !ok {
		t.Errorf("New() = %T, want *ZapLogger", l)
	}
}
