// Package logrus adapts a *logrus.Entry to depcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/depcache"
)

type Logger struct{ E *logrus.Entry }

var _ depcache.Logger = Logger{}

func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "depcache")}
}

func (l Logger) Debug(msg string, f depcache.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f depcache.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f depcache.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f depcache.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
