// Package logsvc implements core.Logger on zap, optionally forwarding to rollbar.
package logsvc

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/academia/core"
)

// ZapLogger adapts a *zap.Logger to core.Logger.
type ZapLogger struct {
	zl *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{zl: zl.WithOptions(zap.AddCallerSkip(1))}
}

// fields converts logger args: errors, key/value maps, a Person, anything else by position.
func fields(args []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
		case error:
			out = append(out, zap.Error(v))
		case core.Person:
			out = append(out, zap.String("person.id", v.ID), zap.String("person.username", v.Username))
		case map[string]interface{}:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				out = append(out, zap.Any(k, v[k]))
			}
		case map[string]string:
			for k, s := range v {
				out = append(out, zap.String(k, s))
			}
		default:
			out = append(out, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}
	return out
}

func (l ZapLogger) Debug(msg string, args ...interface{}) { l.zl.Debug(msg, fields(args)...) }

func (l ZapLogger) Info(msg string, args ...interface{}) { l.zl.Info(msg, fields(args)...) }

func (l ZapLogger) Warn(msg string, args ...interface{}) { l.zl.Warn(msg, fields(args)...) }

func (l ZapLogger) Error(msg string, args ...interface{}) { l.zl.Error(msg, fields(args)...) }

func (l ZapLogger) Fatal(msg string, args ...interface{}) { l.zl.Fatal(msg, fields(args)...) }

// NewZap builds the process logger: development encoding in debug mode, JSON otherwise.
func NewZap(conf *core.Config) (*zap.Logger, error) {
	var zconf zap.Config
	if conf.Debug {
		zconf = zap.NewDevelopmentConfig()
	} else {
		zconf = zap.NewProductionConfig()
	}
	lvl, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zconf.Level = zap.NewAtomicLevelAt(lvl)
	zconf.InitialFields = map[string]interface{}{"app": conf.AppName, "env": conf.Env}
	return zconf.Build()
}

// New returns the rollbar logger when a token is configured, the zap logger otherwise.
func New(zl *zap.Logger, conf *core.Config) core.Logger {
	if conf.RollbarToken != "" && !conf.TestMode {
		rl := NewRollbarLogger(zl, conf)
		rl.Enable(true)
		return rl
	}
	return NewZapLogger(zl)
}
