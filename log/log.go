package log

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Global log level controls verbosity of the leveled helpers:
//   0-2   informational verbosity (Info0 always, Info1/Info2 gated)
//   4     debug
//   5     trace
var globalLogLevel uint32

func SetGlobalLogLevel(level uint) {
	atomic.StoreUint32(&globalLogLevel, uint32(level))
	if level > 3 {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func GlobalLogLevel() uint {
	return uint(atomic.LoadUint32(&globalLogLevel))
}

// Logger attaches a fixed field set to every line it emits.
type Logger struct {
	Fields logrus.Fields
}

func NewLogger() *Logger {
	return &Logger{Fields: logrus.Fields{}}
}

func (l *Logger) entry() *logrus.Entry {
	return logrus.WithFields(l.Fields)
}

func (l *Logger) Info0(args ...interface{}) {
	l.entry().Info(args...)
}

func (l *Logger) Info1(args ...interface{}) {
	if GlobalLogLevel() >= 1 {
		l.entry().Info(args...)
	}
}

func (l *Logger) Info2(args ...interface{}) {
	if GlobalLogLevel() >= 2 {
		l.entry().Info(args...)
	}
}

func (l *Logger) Infof0(format string, args ...interface{}) {
	l.entry().Infof(format, args...)
}

func (l *Logger) Infof1(format string, args ...interface{}) {
	if GlobalLogLevel() >= 1 {
		l.entry().Infof(format, args...)
	}
}

func (l *Logger) Infof2(format string, args ...interface{}) {
	if GlobalLogLevel() >= 2 {
		l.entry().Infof(format, args...)
	}
}

func (l *Logger) Debug(args ...interface{}) {
	if GlobalLogLevel() > 3 {
		l.entry().Debug(args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if GlobalLogLevel() > 3 {
		l.entry().Debugf(format, args...)
	}
}

// DebugLazy evaluates the message generator only when a debug line is
// actually emitted.
func (l *Logger) DebugLazy(gen func() string) {
	if GlobalLogLevel() > 3 {
		l.entry().Debug(gen())
	}
}

func (l *Logger) Trace(args ...interface{}) {
	if GlobalLogLevel() > 4 {
		l.entry().Debug(args...)
	}
}

func (l *Logger) TraceLazy(gen func() string) {
	if GlobalLogLevel() > 4 {
		l.entry().Debug(gen())
	}
}

func (l *Logger) Warn(args ...interface{}) {
	l.entry().Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry().Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	l.entry().Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry().Errorf(format, args...)
}

func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.entry().Fatalf(format, args...)
}

func (l *Logger) Panicf(format string, args ...interface{}) {
	l.entry().Panicf(format, args...)
}

var root = NewLogger()

func Info(args ...interface{})                  { root.Info0(args...) }
func Info0(args ...interface{})                 { root.Info0(args...) }
func Info1(args ...interface{})                 { root.Info1(args...) }
func Info2(args ...interface{})                 { root.Info2(args...) }
func Infof0(format string, args ...interface{}) { root.Infof0(format, args...) }
func Infof1(format string, args ...interface{}) { root.Infof1(format, args...) }
func Infof2(format string, args ...interface{}) { root.Infof2(format, args...) }
func Debug(args ...interface{})                 { root.Debug(args...) }
func Debugf(format string, args ...interface{}) { root.Debugf(format, args...) }
func DebugLazy(gen func() string)               { root.DebugLazy(gen) }
func Trace(args ...interface{})                 { root.Trace(args...) }
func TraceLazy(gen func() string)               { root.TraceLazy(gen) }
func Warn(args ...interface{})                  { root.Warn(args...) }
func Warnf(format string, args ...interface{})  { root.Warnf(format, args...) }
func Error(args ...interface{})                 { root.Error(args...) }
func Errorf(format string, args ...interface{}) { root.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { root.Fatalf(format, args...) }
func Panicf(format string, args ...interface{}) { root.Panicf(format, args...) }

func InfoMap(tags map[string]interface{}, message string) {
	logrus.WithFields(logrus.Fields(tags)).Info(message)
}

func DebugMap(tags map[string]interface{}, message string) {
	if GlobalLogLevel() > 3 {
		logrus.WithFields(logrus.Fields(tags)).Debug(message)
	}
}
