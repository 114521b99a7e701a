// Package zap adapts a *zap.Logger to depcache.Logger.
package zap

import (
	"github.com/unkn0wn-root/depcache"
	"go.uber.org/zap"
)

type Logger struct{ L *zap.Logger }

var _ depcache.Logger = Logger{}

// New names the logger "depcache" so cache events are easy to filter.
func New(l *zap.Logger) Logger { return Logger{L: l.Named("depcache")} }

func (z Logger) Debug(msg string, f depcache.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f depcache.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f depcache.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f depcache.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f depcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
