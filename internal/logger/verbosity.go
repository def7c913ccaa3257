// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels, one per -v flag.
const (
	VerbosityUser  = 0 // results and errors only
	VerbosityInfo  = 1 // -v: + stage progress
	VerbosityDebug = 2 // -vv: + timing and counts per stage
	VerbosityTrace = 3 // -vvv: + one line per declaration
)

// VerbosityToLevel maps a -v count to a zap level.
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace reports whether per-declaration logging is enabled.
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}
