package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// maxValueLen caps string field values in log output
const maxValueLen = 100

// ZerologLogger writes structured logs through zerolog
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: l}
}

// NewDefaultLogger logs human-readable lines to stdout at info level
func NewDefaultLogger() *ZerologLogger {
	return NewConsoleLogger(os.Stdout, zerolog.InfoLevel)
}

// NewConsoleLogger logs human-readable lines to w at the given level
func NewConsoleLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05.000",
	}
	return NewZerologLogger(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

// ParseLevel maps a level name such as "debug" or "warn" to a zerolog level
func ParseLevel(name string) (zerolog.Level, error) {
	return zerolog.ParseLevel(name)
}

func (l *ZerologLogger) Debug(msg string, fields ...Field) {
	l.log(l.logger.Debug(), msg, fields...)
}

func (l *ZerologLogger) Info(msg string, fields ...Field) {
	l.log(l.logger.Info(), msg, fields...)
}

func (l *ZerologLogger) Warn(msg string, fields ...Field) {
	l.log(l.logger.Warn(), msg, fields...)
}

func (l *ZerologLogger) Error(msg string, fields ...Field) {
	l.log(l.logger.Error(), msg, fields...)
}

func (l *ZerologLogger) log(ev *zerolog.Event, msg string, fields ...Field) {
	// nil when the level is disabled
	if ev == nil {
		return
	}

	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			ev = ev.AnErr(f.Key, v)
		case string:
			ev = ev.Str(f.Key, sanitizeValue(v))
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	ev.Msg(msg)
}

// sanitizeValue truncates long strings, such as echoed paths or header
// values, before they reach the log
func sanitizeValue(s string) string {
	if len(s) > maxValueLen {
		return s[:maxValueLen] + "...[truncated]"
	}
	return s
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, fields ...Field) {}
func (n *NullLogger) Info(msg string, fields ...Field)  {}
func (n *NullLogger) Warn(msg string, fields ...Field)  {}
func (n *NullLogger) Error(msg string, fields ...Field) {}
