package errors

import (
	"log/slog"
	"net/http"
)

// ErrorCategory groups errors by the part of the build that raised them.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Per-file failures. A build that hits one of these exits with code 11.
	CategoryCompile   ErrorCategory = "compile"
	CategoryTransform ErrorCategory = "transform"
	CategoryLayout    ErrorCategory = "layout"
	CategoryBuild     ErrorCategory = "build"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryServer     ErrorCategory = "server"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity controls the log level an adapter reports an error at.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// Level maps the severity onto slog.
func (s ErrorSeverity) Level() slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

type outcome struct {
	exit   int
	status int
}

// Unclassified errors exit with 1 and answer 500.
var outcomes = map[ErrorCategory]outcome{
	CategoryValidation: {exit: 2, status: http.StatusBadRequest},
	CategoryNotFound:   {exit: 4, status: http.StatusNotFound},
	CategoryConfig:     {exit: 7, status: http.StatusBadRequest},
	CategoryInternal:   {exit: 10, status: http.StatusInternalServerError},
	CategoryCompile:    {exit: 11, status: http.StatusInternalServerError},
	CategoryTransform:  {exit: 11, status: http.StatusInternalServerError},
	CategoryLayout:     {exit: 11, status: http.StatusInternalServerError},
	CategoryBuild:      {exit: 11, status: http.StatusInternalServerError},
	CategoryFileSystem: {exit: 11, status: http.StatusInternalServerError},
	CategoryServer:     {exit: 12, status: http.StatusServiceUnavailable},
}

func outcomeFor(err error) outcome {
	if c, ok := AsClassified(err); ok {
		if o, ok := outcomes[c.category]; ok {
			return o
		}
	}
	return outcome{exit: 1, status: http.StatusInternalServerError}
}
