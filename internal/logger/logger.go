// Package logger provides structured logging built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents logging levels.
type Level slog.Level

// Supported logging levels.
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// TraceIDFn is used to extract a trace id from the context for log correlation.
type TraceIDFn func(ctx context.Context) string

// Logger writes structured JSON log records with source position, service
// name, and optional trace id.
type Logger struct {
	handler   slog.Handler
	traceIDFn TraceIDFn
}

// New constructs a Logger writing to w at the given minimum level.
func New(w io.Writer, minLevel Level, serviceName string, traceIDFn TraceIDFn) *Logger {
	f := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			if source, ok := a.Value.Any().(*slog.Source); ok {
				v := filepath.Base(source.File)
				return slog.Attr{Key: "file", Value: slog.StringValue(v)}
			}
		}
		return a
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.Level(minLevel),
		ReplaceAttr: f,
	})

	attrs := []slog.Attr{
		{Key: "service", Value: slog.StringValue(serviceName)},
	}

	return &Logger{
		handler:   handler.WithAttrs(attrs),
		traceIDFn: traceIDFn,
	}
}

// NewWithRotation constructs a Logger writing to a size-rotated file.
func NewWithRotation(path string, minLevel Level, serviceName string, traceIDFn TraceIDFn) *Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
	return New(w, minLevel, serviceName, traceIDFn)
}

// Debug logs at LevelDebug with the given key-value attributes.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, 3, msg, args...)
}

// Info logs at LevelInfo with the given key-value attributes.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, 3, msg, args...)
}

// Warn logs at LevelWarn with the given key-value attributes.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, 3, msg, args...)
}

// Error logs at LevelError with the given key-value attributes.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, 3, msg, args...)
}

func (l *Logger) write(ctx context.Context, level Level, caller int, msg string, args ...any) {
	slogLevel := slog.Level(level)
	if !l.handler.Enabled(ctx, slogLevel) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(caller, pcs[:])

	r := slog.NewRecord(time.Now(), slogLevel, msg, pcs[0])
	if l.traceIDFn != nil {
		args = append(args, "trace_id", l.traceIDFn(ctx))
	}
	r.Add(args...)

	_ = l.handler.Handle(ctx, r)
}
