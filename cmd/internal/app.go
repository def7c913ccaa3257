// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/dacolabs/refgen/internal/commands"
	"github.com/dacolabs/refgen/internal/translate"
	"github.com/dacolabs/refgen/internal/translate/gotypes"
	"github.com/dacolabs/refgen/internal/translate/jsonschema"
	"github.com/dacolabs/refgen/internal/translate/markdown"
)

// RegisterTranslators returns every output backend keyed by format name.
func RegisterTranslators() translate.Register {
	translators := make(translate.Register)
	for _, t := range []translate.Translator{
		&gotypes.Translator{},
		&jsonschema.Translator{},
		&markdown.Translator{},
	} {
		translators[t.Name()] = t
	}
	return translators
}

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, env lookup).
func Run(ctx context.Context, getenv func(string) string) error {
	rootCmd := commands.NewRootCmd(RegisterTranslators())
	return rootCmd.ExecuteContext(ctx)
}
