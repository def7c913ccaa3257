// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jsonschema

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacolabs/refgen/internal/translate"
)

var (
	num = translate.Prim(translate.Number)
	str = translate.Prim(translate.String)
)

func export(t *testing.T, decls ...translate.Declaration) map[string]any {
	t.Helper()
	out, err := (&Translator{}).Translate(decls, translate.Options{Source: "reference.json"})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	return doc
}

func def(t *testing.T, doc map[string]any, name string) map[string]any {
	t.Helper()
	defs, ok := doc["$defs"].(map[string]any)
	require.True(t, ok, "missing $defs")
	d, ok := defs[name].(map[string]any)
	require.True(t, ok, "missing definition %s", name)
	return d
}

func TestTranslate_Root(t *testing.T) {
	doc := export(t,
		&translate.Record{Name: "StyleSpecification", Fields: []translate.Field{{Key: "name", Type: translate.Optional(str), Optional: true}}},
		&translate.Record{Name: "Layer"},
	)

	assert.Equal(t, Draft, doc["$schema"])
	assert.Equal(t, "reference.json", doc["title"])
	assert.Equal(t, "#/$defs/StyleSpecification", doc["$ref"])
	assert.Len(t, doc["$defs"], 2)
}

func TestTranslate_Record(t *testing.T) {
	doc := export(t,
		&translate.Record{
			Name: "Layer",
			Doc:  "A layer.",
			Fields: []translate.Field{
				{Key: "id", Type: str, Doc: "Unique name."},
				{Key: "min_zoom", RenameFrom: "min-zoom", Type: translate.Optional(num), Optional: true},
				{Key: "offset", Type: translate.Optional(translate.Array(num, 2)), Optional: true},
				{Key: "extra", Type: translate.Map(translate.Named("Value")), Flatten: true},
			},
			Caps: translate.Caps{translate.CapEqual, translate.CapDecode},
		},
		&translate.Record{Name: "Value", Fields: []translate.Field{{Type: translate.Prim(translate.Value)}}},
	)

	layer := def(t, doc, "Layer")
	want := map[string]any{
		"type":        "object",
		"description": "A layer.",
		"properties": map[string]any{
			"id":       map[string]any{"type": "string", "description": "Unique name."},
			"min-zoom": map[string]any{"type": "number", "x-name": "min_zoom"},
			"offset": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "number"},
				"minItems": float64(2),
				"maxItems": float64(2),
			},
		},
		"required":             []any{"id"},
		"additionalProperties": map[string]any{"$ref": "#/$defs/Value"},
		"x-order":              []any{"id", "min-zoom", "offset"},
		"x-capabilities":       []any{"equal", "decode"},
	}
	if diff := cmp.Diff(want, layer); diff != "" {
		t.Errorf("Layer mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, acceptsAnything(doc["$defs"].(map[string]any)["Value"]))
}

// acceptsAnything reports whether v is the empty schema in either of its
// encodings.
func acceptsAnything(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	m, ok := v.(map[string]any)
	return ok && len(m) == 0
}

func TestTranslate_Enums(t *testing.T) {
	doc := export(t,
		&translate.TaggedUnion{
			Name:     "ColorSpace",
			Dispatch: translate.DispatchName,
			Cases:    []translate.Case{{Name: "Hcl", RenameFrom: "hcl"}, {Name: "Rgb", RenameFrom: "rgb"}},
		},
		&translate.TaggedUnion{
			Name:     "Version",
			Dispatch: translate.DispatchNumber,
			Cases:    []translate.Case{{Name: "Eight", Value: 8}},
		},
	)

	cs := def(t, doc, "ColorSpace")
	assert.Equal(t, "string", cs["type"])
	assert.Equal(t, []any{"hcl", "rgb"}, cs["enum"])
	assert.Equal(t, "name", cs["x-dispatch"])

	v := def(t, doc, "Version")
	assert.Equal(t, "integer", v["type"])
	assert.Equal(t, []any{float64(8)}, v["enum"])
}

func TestTranslate_Unions(t *testing.T) {
	doc := export(t,
		&translate.TaggedUnion{
			Name:     "Numbers",
			Dispatch: translate.DispatchUntagged,
			Cases: []translate.Case{
				{Name: "One", Payload: []translate.Slot{{Name: "value", Type: num}}},
				{Name: "Many", Payload: []translate.Slot{{Name: "values", Type: translate.List(num)}}},
			},
		},
		&translate.TaggedUnion{
			Name:     "Source",
			TagField: "type",
			Dispatch: translate.DispatchTag,
			Cases:    []translate.Case{{Name: "Vector", RenameFrom: "vector", Payload: []translate.Slot{{Name: "value", Type: translate.Named("SourceVector")}}}},
		},
		&translate.Record{Name: "SourceVector"},
	)

	numbers := def(t, doc, "Numbers")
	want := []any{
		map[string]any{"title": "One", "type": "number"},
		map[string]any{"title": "Many", "type": "array", "items": map[string]any{"type": "number"}},
	}
	if diff := cmp.Diff(want, numbers["oneOf"]); diff != "" {
		t.Errorf("Numbers mismatch (-want +got):\n%s", diff)
	}

	source := def(t, doc, "Source")
	wantSource := []any{map[string]any{
		"title": "Vector",
		"allOf": []any{
			map[string]any{"$ref": "#/$defs/SourceVector"},
			map[string]any{
				"type":       "object",
				"properties": map[string]any{"type": map[string]any{"const": "vector"}},
				"required":   []any{"type"},
			},
		},
	}}
	if diff := cmp.Diff(wantSource, source["oneOf"]); diff != "" {
		t.Errorf("Source mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate_OperatorUnion(t *testing.T) {
	doc := export(t,
		&translate.TaggedUnion{
			Name:     "Expression",
			Dispatch: translate.DispatchOperator,
			Cases: []translate.Case{
				{Name: "Get", RenameFrom: "get", Payload: []translate.Slot{
					{Name: "property", Type: str},
					{Name: "object", Type: translate.Optional(translate.Prim(translate.Value))},
				}},
				{Name: "Let", RenameFrom: "let", Payload: []translate.Slot{
					{Name: "items", Type: translate.List(translate.Named("LetItem"))},
					{Name: "expression", Type: translate.Prim(translate.Value)},
				}},
			},
		},
		&translate.Record{Name: "LetItem"},
		&translate.CustomDecoder{
			TypeName: "Expression",
			Branches: []translate.Branch{{Wire: "let", Case: "Let", Steps: []translate.Step{
				{Op: translate.OpCollect, Slot: "items", Min: 1, Reserve: 1, Bundle: "LetItem", Body: []translate.Step{
					{Op: translate.OpReadNextOrFail, Slot: "var_name", Type: str, Field: "var_1_name"},
				}},
				{Op: translate.OpConstruct, Case: "Let", Args: []string{"items", "expression"}},
			}}},
			Fallback: []translate.Step{{Op: translate.OpFail, Message: "unknown operator"}},
		},
	)

	expr := def(t, doc, "Expression")
	cases := expr["oneOf"].([]any)
	require.Len(t, cases, 2)

	get := cases[0].(map[string]any)
	assert.Equal(t, "Get", get["title"])
	prefix := get["prefixItems"].([]any)
	require.Len(t, prefix, 3)
	assert.Equal(t, map[string]any{"const": "get"}, prefix[0])
	assert.Equal(t, map[string]any{"type": "string"}, prefix[1])
	assert.True(t, acceptsAnything(prefix[2]))
	assert.Equal(t, float64(2), get["minItems"])
	assert.Equal(t, float64(3), get["maxItems"])

	let := cases[1].(map[string]any)
	assert.Equal(t, []any{map[string]any{"const": "let"}}, let["prefixItems"])
	assert.NotContains(t, let, "maxItems")

	assert.Equal(t, map[string]any{"let": []any{
		"collect(items, min=1, reserve=1, bundle=LetItem, 1 steps)",
		`  read-next-element-or-fail(var_name: string, "var_1_name")`,
		"construct-case(Let, [items expression])",
	}}, expr["x-decoder"])
	assert.Equal(t, []any{`fail("unknown operator")`}, expr["x-decoder-fallback"])
}

func TestTranslate_Defaults(t *testing.T) {
	one := translate.Literal{Kind: translate.LitNumber, Text: "1"}
	doc := export(t,
		&translate.Record{Name: "Opacity", Fields: []translate.Field{{Type: num}}, Examples: []string{"0.5", "not json"}},
		&translate.DefaultValueProvider{TypeName: "Opacity", Value: one},
		&translate.TaggedUnion{Name: "Mode", Dispatch: translate.DispatchName, Cases: []translate.Case{{Name: "FastPath", RenameFrom: "fast-path"}}},
		&translate.DefaultValueProvider{TypeName: "Mode", Value: translate.Literal{Kind: translate.LitCase, Case: "FastPath"}},
	)

	opacity := def(t, doc, "Opacity")
	assert.Equal(t, float64(1), opacity["default"])
	assert.Equal(t, []any{0.5, "not json"}, opacity["examples"])
	assert.Equal(t, "fast-path", def(t, doc, "Mode")["default"])
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		decls []translate.Declaration
		want  string
	}{
		{
			name:  "default for undeclared type",
			decls: []translate.Declaration{&translate.DefaultValueProvider{TypeName: "Missing"}},
			want:  "default for undeclared type Missing",
		},
		{
			name:  "decoder for undeclared type",
			decls: []translate.Declaration{&translate.CustomDecoder{TypeName: "Missing"}},
			want:  "decoder for undeclared type Missing",
		},
		{
			name: "bad default",
			decls: []translate.Declaration{
				&translate.Record{Name: "Opacity", Fields: []translate.Field{{Type: num}}},
				&translate.DefaultValueProvider{TypeName: "Opacity", Value: translate.Literal{Kind: translate.LitCase, Case: "X"}},
			},
			want: "default of Opacity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Translator{}).Translate(tt.decls, translate.Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTranslate_Deterministic(t *testing.T) {
	decls := []translate.Declaration{
		&translate.Record{Name: "B", Fields: []translate.Field{{Key: "z", Type: num}, {Key: "a", Type: str}}},
		&translate.Record{Name: "A"},
	}
	first, err := (&Translator{}).Translate(decls, translate.Options{})
	require.NoError(t, err)
	second, err := (&Translator{}).Translate(decls, translate.Options{})
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
