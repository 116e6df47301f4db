package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
const (
	VerbosityDefault = 0 // No flags: per-source results, skips, summary
	VerbosityDebug   = 1 // -v: + config resolution, request URLs, timings
	VerbosityTrace   = 2 // -vv: + response headers, raw metadata dumps
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
//
// Mapping:
//
//	0 (none) -> InfoLevel  ([OK]/[SKIP] lines are the point of a build step)
//	1+ (-v)  -> DebugLevel
//
// Negative values (--quiet) drop to WarnLevel.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity < VerbosityDefault:
		return zapcore.WarnLevel
	case verbosity == VerbosityDefault:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace returns true for verbosity >= 2 (-vv)
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch {
	case verbosity < VerbosityDefault:
		return "Quiet"
	case verbosity == VerbosityDefault:
		return "Default"
	case verbosity == VerbosityDebug:
		return "Debug (-v)"
	default:
		return "Trace (-vv)"
	}
}
