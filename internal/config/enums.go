package config

import (
	"git.home.luguber.info/inful/sitekiln/internal/foundation/normalization"
)

// Mode distinguishes writing output to disk from serving it live.
type Mode string

const (
	ModeBuild Mode = "build"
	ModeServe Mode = "serve"
)

// FailurePolicy decides what a failing transform does to the file being processed.
type FailurePolicy string

const (
	// FailurePolicyAbortFile fails the file; its output is not written.
	FailurePolicyAbortFile FailurePolicy = "abort-file"
	// FailurePolicySkipTransform logs the error and continues with the previous content.
	FailurePolicySkipTransform FailurePolicy = "skip-transform"
)

var failurePolicies = normalization.NewEnum("failure policy", FailurePolicyAbortFile, map[string]FailurePolicy{
	"abort-file":     FailurePolicyAbortFile,
	"abort":          FailurePolicyAbortFile,
	"skip-transform": FailurePolicySkipTransform,
	"skip":           FailurePolicySkipTransform,
})

// NormalizeFailurePolicy maps raw to a policy, reporting unknown values.
func NormalizeFailurePolicy(raw string) (FailurePolicy, error) {
	return failurePolicies.Parse(raw)
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = normalization.NewEnum("log level", LogLevelInfo, map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
})

func NormalizeLogLevel(raw string) LogLevel {
	return logLevels.Lookup(raw)
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = normalization.NewEnum("log format", LogFormatText, map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
})

func NormalizeLogFormat(raw string) LogFormat {
	return logFormats.Lookup(raw)
}
