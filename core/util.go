package core

import (
	"reflect"
	"strings"

	"github.com/kat-co/vala"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// JoinPath joins a base URL and an API path with exactly one slash between them.
func JoinPath(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// NotNil is vala.IsNotNil for dependencies: a value that cannot be nil (a struct held in an interface) passes.
func NotNil(obtained interface{}, paramName string) vala.Checker {
	return func() (bool, string) {
		msg := "Parameter was nil: " + paramName
		if obtained == nil {
			return false, msg
		}
		switch v := reflect.ValueOf(obtained); v.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			return !v.IsNil(), msg
		}
		return true, msg
	}
}
