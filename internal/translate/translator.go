// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package translate holds the declaration model shared by the generator and
// the output backends, and the registry of backends.
package translate

import (
	"fmt"
	"sort"
)

// Options carries the run-level settings a translator may use.
type Options struct {
	// Package is the target package or namespace name.
	Package string
	// Source names the input document in generated headers.
	Source string
}

// Translator defines the interface all output backends must implement.
type Translator interface {
	// Name returns the translator's identifier (e.g., "gotypes", "markdown")
	Name() string

	// Translate renders a declaration list in the target format. The output is formatted.
	Translate(decls []Declaration, opts Options) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".go", ".md")
	FileExtension() string
}

// ExampleTranslator is implemented by translators that can render a companion
// test file checking that every declaration example decodes.
type ExampleTranslator interface {
	Translator

	// TranslateExamples returns the test file, or nil when no declaration has examples.
	TranslateExamples(decls []Declaration, opts Options) ([]byte, error)
}

// Register maps format names to translators.
type Register map[string]Translator

// Get retrieves a translator by name.
func (r Register) Get(name string) (Translator, error) {
	t, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (available: %v)", name, r.Available())
	}
	return t, nil
}

// Available returns all registered format names, sorted.
func (r Register) Available() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
