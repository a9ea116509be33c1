package logger

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Leveled logger shared by the server and the admin tool.
// - logrus text output with full timestamps
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - request-scoped entries carrying a requestID

type contextKey struct{}

const requestIDKey = "requestID"

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	s := strings.ToLower(strings.TrimSpace(l))
	switch s {
	case "debug":
		std.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		std.SetLevel(logrus.WarnLevel)
	case "error":
		std.SetLevel(logrus.ErrorLevel)
	case "fatal":
		std.SetLevel(logrus.FatalLevel)
	default:
		std.SetLevel(logrus.InfoLevel)
	}
}

func Debugf(format string, v ...interface{}) { std.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { std.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { std.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { std.Errorf(format, v...) }
func Fatalf(format string, v ...interface{}) { std.Fatalf(format, v...) }

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { std.Debug(v) }
func Info(v string)  { std.Info(v) }
func Warn(v string)  { std.Warn(v) }
func Error(v string) { std.Error(v) }

// LevelString returns the current level as text.
func LevelString() string {
	switch std.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "debug"
	case logrus.WarnLevel:
		return "warn"
	case logrus.ErrorLevel:
		return "error"
	case logrus.FatalLevel, logrus.PanicLevel:
		return "fatal"
	}
	return "info"
}

// WithRequestID returns a context carrying an entry tagged with id, generating
// a new uuid when id is empty.
func WithRequestID(ctx context.Context, id string) (context.Context, *logrus.Entry) {
	if ctx == nil {
		ctx = context.Background()
	}
	if id == "" {
		id = uuid.NewString()
	}
	entry := std.WithField(requestIDKey, id)
	return context.WithValue(ctx, contextKey{}, entry), entry
}

// FromContext returns the request entry stored in ctx, or a plain entry.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if e, ok := ctx.Value(contextKey{}).(*logrus.Entry); ok {
			return e
		}
	}
	return logrus.NewEntry(std)
}

// RequestID returns the id attached by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	e := FromContext(ctx)
	if s, ok := e.Data[requestIDKey].(string); ok {
		return s
	}
	return ""
}
