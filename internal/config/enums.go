package config

import (
	"log/slog"

	"git.home.luguber.info/inful/docgraph/internal/foundation/normalization"
)

// FailurePolicy decides what a document-scoped error does to the build.
type FailurePolicy string

const (
	// FailureIsolate excludes the failing document and continues.
	FailureIsolate FailurePolicy = "isolate"
	// FailureAbort fails the whole build.
	FailureAbort FailurePolicy = "abort"
)

var failurePolicyNormalizer = normalization.NewNormalizer(map[string]FailurePolicy{
	"isolate": FailureIsolate,
	"abort":   FailureAbort,
}, FailureIsolate)

// NormalizeFailurePolicy returns the canonical policy for raw.
func NormalizeFailurePolicy(raw string) (FailurePolicy, error) {
	return failurePolicyNormalizer.NormalizeWithError(raw)
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// NormalizeLogLevel maps raw to a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// SlogLevel converts the level for slog handlers.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// NormalizeLogFormat maps raw to a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}
