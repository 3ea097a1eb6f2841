// Package logging builds the server logger.
//
// Logs go to stderr because stdout carries the MCP protocol. When a file
// path is configured, entries are also written to a size-rotated file.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias so callers need not import logrus for field maps.
type Fields = logrus.Fields

// RequestIDKey is the context key holding the JSON-RPC request ID.
const RequestIDKey ctxKey = "request_id"

type ctxKey string

// Rotation limits for the log file.
const (
	fileMaxSizeMB  = 20
	fileMaxAgeDays = 7
	fileMaxBackups = 3
)

// Options configures New.
type Options struct {
	Level  string    // logrus level name, "info" when empty
	File   string    // optional rotated log file
	Output io.Writer // defaults to os.Stderr
	Caller bool      // report file:line of the call site
}

// New returns a configured logger.
func New(opts Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{out}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    fileMaxSizeMB,
			MaxAge:     fileMaxAgeDays,
			MaxBackups: fileMaxBackups,
		})
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetReportCaller(opts.Caller)
	logger.SetFormatter(&formatter.Formatter{
		NoColors:        true,
		TimestampFormat: "2006-01-02 15:04:05",
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, s[len(s)-1])
		},
	})
	return logger, nil
}

// Discard returns a logger that writes nothing, for tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// WithRequestID attaches a request ID to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// FromContext returns an entry tagged with the request ID stored in ctx.
func FromContext(ctx context.Context, log logrus.FieldLogger) *logrus.Entry {
	id := "unknown"
	if ctx != nil {
		if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
			id = v
		}
	}
	return log.WithField(string(RequestIDKey), id)
}

// ErrorWithTraceID logs msg at error level under a fresh trace ID and
// returns the ID so it can be reported to the client.
func ErrorWithTraceID(log logrus.FieldLogger, fields Fields, msg string) string {
	traceID := uuid.NewString()
	if fields == nil {
		fields = Fields{}
	}
	fields["trace_id"] = traceID
	log.WithFields(fields).Error(msg)
	return traceID
}
