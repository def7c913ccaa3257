// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package markdown

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dacolabs/refgen/internal/translate"
)

//go:embed markdown.md.tmpl
var tmplFS embed.FS

var funcMap = template.FuncMap{
	"anchor": anchor,
	"cell":   cell,
	"join":   strings.Join,
	"yesNo":  yesNo,
}

var tmpl = template.Must(template.New("markdown.md.tmpl").Funcs(funcMap).ParseFS(tmplFS, "markdown.md.tmpl"))

// Translator translates declarations to markdown documentation.
type Translator struct{}

// Name returns the format name of the translator.
func (t *Translator) Name() string { return "markdown" }

// FileExtension returns the file extension for markdown files.
func (t *Translator) FileExtension() string {
	return ".md"
}

// section is one declared type with the default and decoder that target it.
type section struct {
	Name     string
	Kind     string
	Record   *translate.RecordData
	Union    *translate.UnionData
	Default  string
	Branches []branch
	Fallback []string
}

type branch struct {
	Wire  string
	Case  string
	Steps []string
}

// Translate renders a reference document with one section per declared type.
func (t *Translator) Translate(decls []translate.Declaration, opts translate.Options) ([]byte, error) {
	data := translate.Prepare(decls, &resolver{})
	idx := translate.Index(decls)

	var sections []*section
	byName := make(map[string]*section)
	for _, d := range data.Decls {
		var s *section
		switch d.Kind {
		case "record":
			s = &section{Name: d.Record.Name, Kind: "Record", Record: d.Record}
		case "union":
			s = &section{Name: d.Union.Name, Kind: unionKind(d.Union), Union: d.Union}
		default:
			continue
		}
		sections = append(sections, s)
		byName[s.Name] = s
	}

	for _, d := range data.Decls {
		switch d.Kind {
		case "default":
			s, ok := byName[d.Default.TypeName]
			if !ok {
				return nil, fmt.Errorf("default for undeclared type %s", d.Default.TypeName)
			}
			text, err := translate.EncodeLiteral(d.Default.Value, translate.Named(d.Default.TypeName), idx)
			if err != nil {
				return nil, fmt.Errorf("default of %s: %w", d.Default.TypeName, err)
			}
			s.Default = text
		case "decoder":
			s, ok := byName[d.Decoder.TypeName]
			if !ok {
				return nil, fmt.Errorf("decoder for undeclared type %s", d.Decoder.TypeName)
			}
			for _, b := range d.Decoder.Branches {
				s.Branches = append(s.Branches, branch{Wire: b.Wire, Case: b.Case, Steps: steps(b.Steps, "")})
			}
			s.Fallback = steps(d.Decoder.Fallback, "")
		}
	}

	title := opts.Source
	if title == "" {
		title = "Reference"
	}

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "markdown.md.tmpl", map[string]any{
		"Title":    title,
		"Sections": sections,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func unionKind(u *translate.UnionData) string {
	switch u.Dispatch {
	case translate.DispatchName, translate.DispatchNumber:
		return "Enum"
	default:
		return "Union"
	}
}

func steps(list []translate.Step, indent string) []string {
	var out []string
	for _, s := range list {
		out = append(out, indent+s.String())
		out = append(out, steps(s.Body, indent+"  ")...)
	}
	return out
}

// cell makes text safe for a single table cell.
func cell(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "|", `\|`)
	return strings.ReplaceAll(text, "\n", "<br>")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
