// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jsonschema exports declarations as a JSON Schema (draft 2020-12)
// document with one $defs entry per declared type.
package jsonschema

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/dacolabs/refgen/internal/translate"
)

// Draft is the $schema of every exported document.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Translator translates declarations to a JSON Schema document.
type Translator struct{}

// Name returns the format name of the translator.
func (t *Translator) Name() string { return "jsonschema" }

// FileExtension returns the file extension for JSON Schema documents.
func (t *Translator) FileExtension() string { return ".schema.json" }

// Translate builds the schema document. The first record is the document
// root; every record and union becomes a definition, defaults and decoders
// annotate the definition they target.
func (t *Translator) Translate(decls []translate.Declaration, opts translate.Options) ([]byte, error) {
	b := &builder{idx: translate.Index(decls), defs: make(map[string]*jsonschema.Schema)}

	root := &jsonschema.Schema{Schema: Draft, Title: opts.Source}
	for _, d := range decls {
		switch d := d.(type) {
		case *translate.Record:
			if root.Ref == "" {
				root.Ref = ref(d.Name)
			}
			b.defs[d.Name] = b.record(d)
		case *translate.TaggedUnion:
			s, err := b.union(d)
			if err != nil {
				return nil, err
			}
			b.defs[d.Name] = s
		}
	}

	// Annotations run after every definition exists.
	for _, d := range decls {
		var err error
		switch d := d.(type) {
		case *translate.DefaultValueProvider:
			err = b.defaultValue(d)
		case *translate.CustomDecoder:
			err = b.decoder(d)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(b.defs) > 0 {
		root.Defs = b.defs
	}
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return append(out, '\n'), nil
}

type builder struct {
	idx  map[string]translate.Declaration
	defs map[string]*jsonschema.Schema
}

func ref(name string) string { return "#/$defs/" + name }

func (b *builder) record(r *translate.Record) *jsonschema.Schema {
	if w, ok := r.Wrapped(); ok {
		s := typeSchema(w)
		s.Description = r.Doc
		s.Examples = examples(r.Examples)
		annotate(s, r.Caps)
		return s
	}

	s := &jsonschema.Schema{
		Type:        "object",
		Description: r.Doc,
		Properties:  make(map[string]*jsonschema.Schema, len(r.Fields)),
		Examples:    examples(r.Examples),
	}
	var order []string
	for _, f := range r.Fields {
		if f.Flatten {
			s.AdditionalProperties = typeSchema(*f.Type.Elem)
			continue
		}
		p := typeSchema(f.Type)
		p.Description = f.Doc
		if f.RenameFrom != "" {
			extra(p, "x-name", f.Key)
		}
		s.Properties[f.Wire()] = p
		order = append(order, f.Wire())
		if !f.Optional {
			s.Required = append(s.Required, f.Wire())
		}
	}
	if len(order) > 0 {
		extra(s, "x-order", order)
	}
	annotate(s, r.Caps)
	return s
}

func (b *builder) union(u *translate.TaggedUnion) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{Description: u.Doc, Examples: examples(u.Examples)}
	annotate(s, u.Caps)
	extra(s, "x-dispatch", u.Dispatch.String())

	switch u.Dispatch {
	case translate.DispatchName:
		s.Type = "string"
		for _, c := range u.Cases {
			s.Enum = append(s.Enum, c.Wire())
		}
		return s, nil
	case translate.DispatchNumber:
		s.Type = "integer"
		for _, c := range u.Cases {
			s.Enum = append(s.Enum, c.Value)
		}
		return s, nil
	}

	for _, c := range u.Cases {
		var cs *jsonschema.Schema
		switch u.Dispatch {
		case translate.DispatchUntagged:
			cs = payload(c.Payload)
		case translate.DispatchTag:
			var tag any = c.Wire()
			cs = &jsonschema.Schema{AllOf: []*jsonschema.Schema{
				payload(c.Payload),
				{
					Type:       "object",
					Properties: map[string]*jsonschema.Schema{u.TagField: {Const: &tag}},
					Required:   []string{u.TagField},
				},
			}}
		case translate.DispatchOperator:
			cs = sequence(c.Payload, c.Wire())
		case translate.DispatchPositional:
			cs = sequence(c.Payload, "")
		default:
			return nil, fmt.Errorf("%s: unhandled dispatch %s", u.Name, u.Dispatch)
		}
		cs.Title = c.Name
		if cs.Description == "" {
			cs.Description = c.Doc
		}
		s.OneOf = append(s.OneOf, cs)
	}
	return s, nil
}

// payload is the schema of an untagged or tagged case: its single slot, or
// a tuple of its slots.
func payload(slots []translate.Slot) *jsonschema.Schema {
	if len(slots) == 1 {
		return typeSchema(slots[0].Type)
	}
	return sequence(slots, "")
}

// sequence describes slots as an array, led by the operator when op is set.
// Optional slots only relax the minimum length. A list slot absorbs the
// remaining elements, so the tuple stays open from there on.
func sequence(slots []translate.Slot, op string) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "array"}
	if op != "" {
		var c any = op
		s.PrefixItems = append(s.PrefixItems, &jsonschema.Schema{Const: &c})
	}
	required, open := len(s.PrefixItems), false
	for _, slot := range slots {
		t := slot.Type
		if t.Kind == translate.TypeList {
			open = true
			break
		}
		if t.Kind != translate.TypeOptional {
			required = len(s.PrefixItems) + 1
		}
		s.PrefixItems = append(s.PrefixItems, typeSchema(t))
	}
	if required > 0 {
		s.MinItems = intPtr(required)
	}
	if !open {
		s.MaxItems = intPtr(len(s.PrefixItems))
	}
	return s
}

// typeSchema maps a type reference. Optionality is carried by the parent's
// required list, so an optional type maps like its element.
func typeSchema(t translate.TypeRef) *jsonschema.Schema {
	switch t.Kind {
	case translate.TypeNamed:
		return &jsonschema.Schema{Ref: ref(t.Name)}
	case translate.TypeOptional:
		return typeSchema(*t.Elem)
	case translate.TypeList:
		return &jsonschema.Schema{Type: "array", Items: typeSchema(*t.Elem)}
	case translate.TypeArray:
		return &jsonschema.Schema{
			Type:     "array",
			Items:    typeSchema(*t.Elem),
			MinItems: intPtr(t.Length),
			MaxItems: intPtr(t.Length),
		}
	case translate.TypeMap:
		return &jsonschema.Schema{Type: "object", AdditionalProperties: typeSchema(*t.Elem)}
	}

	switch t.Builtin {
	case translate.Number:
		return &jsonschema.Schema{Type: "number"}
	case translate.String:
		return &jsonschema.Schema{Type: "string"}
	case translate.Color:
		return &jsonschema.Schema{Type: "string", Format: "color"}
	case translate.Bool:
		return &jsonschema.Schema{Type: "boolean"}
	default:
		return &jsonschema.Schema{}
	}
}

func (b *builder) defaultValue(d *translate.DefaultValueProvider) error {
	s, ok := b.defs[d.TypeName]
	if !ok {
		return fmt.Errorf("default for undeclared type %s", d.TypeName)
	}
	text, err := translate.EncodeLiteral(d.Value, translate.Named(d.TypeName), b.idx)
	if err != nil {
		return fmt.Errorf("default of %s: %w", d.TypeName, err)
	}
	s.Default = []byte(text)
	return nil
}

// decoder records the decoding steps of each operator as an ordered list
// of step descriptions.
func (b *builder) decoder(d *translate.CustomDecoder) error {
	s, ok := b.defs[d.TypeName]
	if !ok {
		return fmt.Errorf("decoder for undeclared type %s", d.TypeName)
	}
	branches := make(map[string][]string, len(d.Branches))
	for _, br := range d.Branches {
		branches[br.Wire] = steps(br.Steps)
	}
	extra(s, "x-decoder", branches)
	if len(d.Fallback) > 0 {
		extra(s, "x-decoder-fallback", steps(d.Fallback))
	}
	return nil
}

func steps(list []translate.Step) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.String())
		for _, inner := range s.Body {
			out = append(out, "  "+inner.String())
		}
	}
	return out
}

func annotate(s *jsonschema.Schema, caps translate.Caps) {
	if len(caps) == 0 {
		return
	}
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = string(c)
	}
	extra(s, "x-capabilities", names)
}

func extra(s *jsonschema.Schema, key string, v any) {
	if s.Extra == nil {
		s.Extra = make(map[string]any)
	}
	s.Extra[key] = v
}

// examples decodes the raw example texts. Texts that are not valid JSON
// are kept as strings.
func examples(raw []string) []any {
	if len(raw) == 0 {
		return nil
	}
	out := make([]any, 0, len(raw))
	for _, r := range raw {
		var v any
		if err := json.Unmarshal([]byte(r), &v); err != nil {
			v = r
		}
		out = append(out, v)
	}
	return out
}

func intPtr(n int) *int { return &n }
