// Package apperror provides structured, severity-classified errors.
package apperror

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// AppError implements the error interface and carries the classification the
// orchestrator uses to decide between retry, skip, and alert.
type AppError struct {
	Code      Code
	Message   string
	Severity  Severity
	Context   string
	Timestamp time.Time
	cause     error
	stack     []uintptr
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is implements errors.Is interface for error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Stack formats the captured stack trace for logging.
func (e *AppError) Stack() string {
	var sb strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			sb.WriteString(fmt.Sprintf("\n\t%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[:n]
}

// Option is a functional option for AppError
type Option func(*AppError)

// WithMessage sets a custom message
func WithMessage(message string) Option {
	return func(e *AppError) {
		e.Message = message
	}
}

// WithContext adds context information
func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

// WithCause wraps an underlying error
func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

// WithSeverity overrides the default severity for the code
func WithSeverity(severity Severity) Option {
	return func(e *AppError) {
		e.Severity = severity
	}
}

// New creates a new AppError with the given code and options
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:      code,
		Message:   messages[code],
		Severity:  severityOf(code),
		Timestamp: time.Now(),
		stack:     captureStack(),
	}

	for _, opt := range opts {
		opt(err)
	}

	if err.Message == "" {
		err.Message = string(code)
	}

	return err
}

// Transient creates a retryable error
func Transient(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithSeverity(SeverityTransient))
}

// Operational creates a skip-and-continue error
func Operational(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithSeverity(SeverityOperational))
}

// Critical creates an alert-worthy error
func Critical(code Code, context string) *AppError {
	return New(code, WithContext(context), WithSeverity(SeverityCritical))
}

// Wrap wraps a standard error into AppError
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if context != "" && appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}

	return New(code, WithContext(context), WithCause(err))
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

// IsRetryable reports whether the error should be retried with backoff.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Severity == SeverityTransient
	}
	return false
}

// IsCritical reports whether the error must raise an alert.
func IsCritical(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Severity == SeverityCritical
	}
	return false
}
