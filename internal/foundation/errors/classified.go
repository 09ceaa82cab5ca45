package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// ErrorContext carries structured fields such as the input path or the
// transform name.
type ErrorContext map[string]any

// ClassifiedError is an error tagged with a category, a severity and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
	}
	return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) Message() string         { return e.message }
func (e *ClassifiedError) Cause() error            { return e.cause }

// Context returns a copy of the error's fields.
func (e *ClassifiedError) Context() ErrorContext { return maps.Clone(e.context) }

// Detail is the message followed by the cause, without the category prefix.
func (e *ClassifiedError) Detail() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

// WithContext returns a copy carrying one more field.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = maps.Clone(e.context)
	if cp.context == nil {
		cp.context = ErrorContext{}
	}
	cp.context[key] = value
	return &cp
}

// LogValue groups the category and the context fields under one attribute.
func (e *ClassifiedError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("category", string(e.category))}
	for _, k := range slices.Sorted(maps.Keys(e.context)) {
		attrs = append(attrs, slog.Any(k, e.context[k]))
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	return slog.GroupValue(attrs...)
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var c *ClassifiedError
	if stderrors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// GetCategory returns the category of err, or CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if c, ok := AsClassified(err); ok {
		return c.category
	}
	return CategoryInternal
}

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of the given category at SeverityError.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  ErrorContext{},
	}}
}

// WrapError is NewError with a cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = cause
	return b
}

// ConfigError reports unusable configuration. It stops the command.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// InternalError reports a bug, such as a recovered panic.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}

func (b *ErrorBuilder) WithSeverity(s ErrorSeverity) *ErrorBuilder {
	b.err.severity = s
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Info() *ErrorBuilder  { return b.WithSeverity(SeverityInfo) }

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context[key] = value
	return b
}

// Build returns the error. The builder must not be reused afterwards.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}
