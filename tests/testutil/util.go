package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff of want and got, or "" when they are equal.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	return diff
}

// CheckText fails t with a unified diff when got != want.
func CheckText(t testing.TB, name, want, got string) {
	t.Helper()
	if d := Diff(want, got); d != "" {
		t.Errorf("%s mismatch:\n%s", name, d)
	}
}

// CheckContains fails t when s does not contain every sub.
func CheckContains(t testing.TB, name, s string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			t.Errorf("%s does not contain %q", name, sub)
		}
	}
}

// NopLogger discards every entry.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{}) {}
func (NopLogger) Warn(string, ...interface{}) {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// StaticTokens is a TokenSource returning a fixed token.
type StaticTokens string

func (s StaticTokens) Token(context.Context) (string, bool, error) {
	return string(s), s != "", nil
}
