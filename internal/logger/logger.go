// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package logger builds the structured logger used by the CLI and carries it
// through a context.Context.
package logger

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey struct{}

// New returns a console logger writing to w at the level the verbosity maps
// to. Timestamps are left out so runs are reproducible.
func New(w io.Writer, verbosity int) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(w),
		VerbosityToLevel(verbosity),
	))
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
