// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/refgen/internal/config"
	"github.com/dacolabs/refgen/internal/refgenerr"
)

var (
	// ErrNotInitialized indicates no refgen.yaml was found in the current directory.
	ErrNotInitialized = refgenerr.New("not in a refgen project (refgen.yaml not found)")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = refgenerr.New("invalid configuration")

	// ErrInputNotFound indicates the reference document named by the config
	// can't be read.
	ErrInputNotFound = refgenerr.New("reference document not found")
)

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved project configuration and the reference
// document it names.
type Context struct {
	// Config is the validated configuration with defaults applied.
	Config *config.Config

	// Dir is the project directory holding refgen.yaml.
	Dir string

	// Input is the raw reference document.
	Input []byte
}

// Path resolves a config-relative path against the project directory.
func (c *Context) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Load loads the project context from the current working directory and
// returns a new context.Context with the refgen Context stored in it.
func Load(ctx context.Context) (context.Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(cwd, config.FileName)
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		return nil, refgenerr.WithHint(ErrNotInitialized, "run `refgen init` to create one")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, validateErr)
	}
	resolved := cfg.WithDefaults()

	refCtx := &Context{Config: &resolved, Dir: cwd}
	refCtx.Input, err = os.ReadFile(refCtx.Path(resolved.Input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	}

	return context.WithValue(ctx, contextKey{}, refCtx), nil
}

// From extracts the refgen Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if refCtx, ok := ctx.Value(contextKey{}).(*Context); ok {
		return refCtx
	}
	return nil
}
