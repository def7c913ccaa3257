// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package gotypes renders declarations as Go source: structs with json
// tags, enum types with validating decoders, unions with dispatching
// decoders and default value constructors.
package gotypes

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/dacolabs/refgen/internal/translate"
)

//go:embed gotypes.go.tmpl examples.go.tmpl
var tmplFS embed.FS

// DefaultPackage is the package clause used when Options.Package is empty.
const DefaultPackage = "style"

// Translator translates declarations to Go type definitions.
type Translator struct{}

// Name returns the format name of the translator.
func (t *Translator) Name() string { return "gotypes" }

// FileExtension returns the file extension for Go source files.
func (t *Translator) FileExtension() string {
	return ".go"
}

// Translate renders decls as a formatted Go source file.
func (t *Translator) Translate(decls []translate.Declaration, opts translate.Options) ([]byte, error) {
	e := newEmitter(decls)
	tmpl, err := template.New("gotypes.go.tmpl").Funcs(e.funcs()).ParseFS(tmplFS, "gotypes.go.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	data := translate.Prepare(decls, e.res)
	data.Extra["Package"] = packageName(opts)
	data.Extra["Source"] = opts.Source

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "gotypes.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return format(buf.Bytes())
}

type example struct {
	Name  string
	Type  string
	Input string
}

// TranslateExamples renders a test file that decodes every declaration
// example into its type. It returns nil when there are no examples.
func (t *Translator) TranslateExamples(decls []translate.Declaration, opts translate.Options) ([]byte, error) {
	r := &resolver{}
	var examples []example
	for _, d := range decls {
		var list []string
		switch d := d.(type) {
		case *translate.Record:
			list = d.Examples
		case *translate.TaggedUnion:
			list = d.Examples
		}
		for i, ex := range list {
			examples = append(examples, example{
				Name:  r.TypeName(d.DeclName()) + "/" + strconv.Itoa(i),
				Type:  r.TypeName(d.DeclName()),
				Input: ex,
			})
		}
	}
	if len(examples) == 0 {
		return nil, nil
	}

	tmpl, err := template.ParseFS(tmplFS, "examples.go.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "examples.go.tmpl", map[string]any{
		"Package":  packageName(opts),
		"Source":   opts.Source,
		"Examples": examples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return format(buf.Bytes())
}

func (e *emitter) funcs() template.FuncMap {
	return template.FuncMap{
		"doc":           doc,
		"isEnum":        isEnum,
		"caseType":      caseType,
		"recordMethods": e.recordMethods,
		"enumMethods":   e.enumMethods,
		"unionMethods":  e.unionMethods,
		"decoder":       e.decoder,
		"defaultValue":  e.defaultValue,
		"runtime":       e.runtime,
	}
}

func packageName(opts translate.Options) string {
	if opts.Package == "" {
		return DefaultPackage
	}
	return opts.Package
}

// format drops unused imports and gofmts src. The unformatted source is
// included in the error to make template mistakes debuggable.
func format(src []byte) ([]byte, error) {
	out, err := imports.Process("generated.go", src, &imports.Options{Comments: true, TabIndent: true, TabWidth: 8, FormatOnly: false})
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w\n%s", err, src)
	}
	return out, nil
}
