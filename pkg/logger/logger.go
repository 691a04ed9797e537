// Package logger provides structured logging for the points console.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry with a component field attached.
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger for the named component at the given level.
// Unknown levels fall back to info.
func New(component, level string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	l.SetLevel(parseLevel(level))
	return &Logger{entry: l.WithField("component", component)}
}

// NewDefault creates a logger for the named component at info level.
func NewDefault(component string) *Logger {
	return New(component, "info")
}

// NewNop creates a logger that discards everything. Intended for tests.
func NewNop() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(l)}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// WithField returns a logger with the field attached to every message.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// WithError returns a logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string) { l.entry.Debug(msg) }

// Info logs at info level.
func (l *Logger) Info(msg string) { l.entry.Info(msg) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string) { l.entry.Warn(msg) }

// Error logs at error level.
func (l *Logger) Error(msg string) { l.entry.Error(msg) }

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) { l.entry.Infof(format, args...) }

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.entry.Warnf(format, args...) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
