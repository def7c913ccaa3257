// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"testing"

	"github.com/dacolabs/refgen/internal/discriminant"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/schema"
	"github.com/dacolabs/refgen/internal/translate"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(name, src string) ([]translate.Declaration, error) {
	doc, err := schema.Parse(name, []byte(src))
	if err != nil {
		return nil, err
	}
	rels := discriminant.Resolve(doc)
	return Generate(discriminant.Apply(doc, rels), rels, Options{})
}

func compile(t *testing.T, src string) []translate.Declaration {
	t.Helper()
	decls, err := build("reference.json", src)
	require.NoError(t, err)
	require.NoError(t, Check(decls))
	return decls
}

func record(t *testing.T, decls []translate.Declaration, name string) *translate.Record {
	t.Helper()
	for _, d := range decls {
		if r, ok := d.(*translate.Record); ok && r.Name == name {
			return r
		}
	}
	require.Failf(t, "record not found", "%s", name)
	return nil
}

func union(t *testing.T, decls []translate.Declaration, name string) *translate.TaggedUnion {
	t.Helper()
	for _, d := range decls {
		if u, ok := d.(*translate.TaggedUnion); ok && u.Name == name {
			return u
		}
	}
	require.Failf(t, "union not found", "%s", name)
	return nil
}

func defaultOf(t *testing.T, decls []translate.Declaration, name string) translate.Literal {
	t.Helper()
	for _, d := range decls {
		if p, ok := d.(*translate.DefaultValueProvider); ok && p.TypeName == name {
			return p.Value
		}
	}
	require.Failf(t, "default not found", "%s", name)
	return translate.Literal{}
}

func count(decls []translate.Declaration, name string) int {
	n := 0
	for _, d := range decls {
		switch d.(type) {
		case *translate.Record, *translate.TaggedUnion:
			if d.DeclName() == name {
				n++
			}
		}
	}
	return n
}

func TestGenerate_ColorSpace(t *testing.T) {
	decls := compile(t, `{"version":8, "root":{}, "colorSpace":{"type":"enum","values":{"rgb":{"doc":"d1"},"lab":{"doc":"d2"}}, "doc":"cs"}}`)

	want := []translate.Declaration{
		&translate.Record{Name: "StyleSpecification", Caps: objectCaps},
		&translate.TaggedUnion{
			Name:     "ColorSpace",
			Doc:      "cs",
			Dispatch: translate.DispatchName,
			Cases: []translate.Case{
				{Name: "Lab", RenameFrom: "lab", Doc: "d2"},
				{Name: "Rgb", RenameFrom: "rgb", Doc: "d1"},
			},
			Caps: enumCaps,
		},
	}
	if diff := cmp.Diff(want, decls, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_UntaggedUnion(t *testing.T) {
	decls := compile(t, `{"version":8, "root":{},
		"numbers": ["number_one", "number_two"],
		"number_one": {"value": {"type": "number"}},
		"number_two": {"value": {"type": "string"}}}`)

	u := union(t, decls, "Numbers")
	assert.Equal(t, translate.DispatchUntagged, u.Dispatch)
	assert.Empty(t, u.TagField)
	assert.Equal(t, []translate.Case{
		{Name: "NumberOne", Payload: []translate.Slot{{Name: "value", Type: translate.Named("NumberOne")}}},
		{Name: "NumberTwo", Payload: []translate.Slot{{Name: "value", Type: translate.Named("NumberTwo")}}},
	}, u.Cases)

	one := record(t, decls, "NumberOne")
	require.Len(t, one.Fields, 1)
	assert.Equal(t, "value", one.Fields[0].Key)
}

func TestGenerate_TaggedUnion(t *testing.T) {
	decls := compile(t, `{"version": 8, "root": {},
		"source": ["source_vector", "source_geojson"],
		"source_vector": {
			"type": {"type": "enum", "values": {"vector": {}}, "required": true},
			"url": {"type": "string"}
		},
		"source_geojson": {
			"type": {"type": "enum", "values": {"geojson": {}}, "required": true},
			"data": {"type": "*"}
		}}`)

	u := union(t, decls, "Source")
	assert.Equal(t, translate.DispatchTag, u.Dispatch)
	assert.Equal(t, "type", u.TagField)
	require.Len(t, u.Cases, 2)
	assert.Equal(t, "SourceVector", u.Cases[0].Name)
	assert.Equal(t, "vector", u.Cases[0].Wire())
	assert.Equal(t, "geojson", u.Cases[1].Wire())

	vector := record(t, decls, "SourceVector")
	assert.Equal(t, []translate.Field{{
		Key:      "url",
		Type:     translate.Optional(translate.Named("SourceVectorUrl")),
		Optional: true,
	}}, vector.Fields, "tag field is carried by the union")
	assert.Zero(t, count(decls, "SourceVectorType"))
}

func TestGenerate_GroupFields(t *testing.T) {
	decls := compile(t, `{"version": 8,
		"root": {
			"version": {"type": "enum", "values": [8], "required": true, "doc": "Must be 8."},
			"layers": {"type": "array", "value": "layer"},
			"sources": {"type": "sources"}
		},
		"layer": {
			"id": {"type": "string", "required": true},
			"min-zoom": {"type": "number", "minimum": 0, "maximum": 24, "doc": "Lowest zoom."}
		},
		"sources": {"*": {"type": "string", "doc": "A source URL."}},
		"metadata": {"name": {"type": "string"}, "*": {"type": "*"}}}`)

	root := record(t, decls, "StyleSpecification")
	assert.Equal(t, []translate.Field{
		{Key: "version", Type: translate.Named("RootVersion"), Doc: "Must be 8."},
		{Key: "layers", Type: translate.Optional(translate.Named("RootLayers")), Optional: true},
		{Key: "sources", Type: translate.Optional(translate.Named("RootSources")), Optional: true},
	}, root.Fields)

	version := union(t, decls, "RootVersion")
	assert.Equal(t, translate.DispatchNumber, version.Dispatch)
	assert.Equal(t, []translate.Case{{Name: "Eight", Value: 8}}, version.Cases)
	assert.Equal(t, enumCaps, version.Caps)

	layers := record(t, decls, "RootLayers")
	wrapped, ok := layers.Wrapped()
	require.True(t, ok)
	assert.Equal(t, translate.List(translate.Named("Layer")), wrapped)

	layer := record(t, decls, "Layer")
	require.Len(t, layer.Fields, 2)
	assert.Equal(t, "min_zoom", layer.Fields[1].Key)
	assert.Equal(t, "min-zoom", layer.Fields[1].RenameFrom)
	assert.Equal(t, "Lowest zoom.\n\nRange: 0..=24", record(t, decls, "LayerMinZoom").Doc)

	sources := record(t, decls, "Sources")
	wrapped, ok = sources.Wrapped()
	require.True(t, ok, "sole wildcard becomes a map newtype")
	assert.Equal(t, translate.Map(translate.Named("InnerSources")), wrapped)
	assert.Equal(t, "A source URL.", record(t, decls, "InnerSources").Doc)

	metadata := record(t, decls, "Metadata")
	assert.Equal(t, []translate.Field{
		{Key: "name", Type: translate.Optional(translate.Named("MetadataName")), Optional: true},
		{Key: "entries", Type: translate.Map(translate.Named("InnerMetadata")), Flatten: true},
	}, metadata.Fields, "wildcard beside named keys is flattened without a rename")
}

func TestGenerate_VersionEnum(t *testing.T) {
	decls := compile(t, `{"version": 8, "root": {}, "v": {"type": "enum", "values": [9, 8, 255, 0], "default": 8}}`)

	u := union(t, decls, "V")
	names := make([]string, len(u.Cases))
	for i, c := range u.Cases {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Zero", "Eight", "Nine", "TwoHundredFiftyFive"}, names)
	assert.Equal(t, translate.Literal{Kind: translate.LitCase, Case: "Eight"}, defaultOf(t, decls, "V"))
}

func TestGenerate_VersionEnumOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		values string
		want   string
	}{
		{name: "too large", values: "[8, 256]", want: "256"},
		{name: "negative", values: "[-1]", want: "-1"},
		{name: "fractional", values: "[1.5]", want: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build("reference.json", `{"version": 8, "root": {}, "v": {"type": "enum", "values": `+tt.values+`}}`)
			require.Error(t, err)

			var re *refgenerr.RangeError
			require.True(t, refgenerr.As(err, &re), "got %v", err)
			assert.Equal(t, "V", re.Type)
			assert.Equal(t, tt.want, re.Value)
			assert.Equal(t, 255, re.Max)
		})
	}
}

func TestGenerate_Arrays(t *testing.T) {
	decls := compile(t, `{"version": 8, "root": {
		"offset": {"type": "array", "value": "number", "length": 2, "default": [0, 0]},
		"anchors": {"type": "array", "value": "enum", "values": {"top": {}, "bottom": {}}, "default": ["top"]},
		"mixed": {"type": "array", "value": ["string", "number"]},
		"stops": {"type": "array", "value": {"type": "array", "value": "number"}}
	}}`)

	offset, _ := record(t, decls, "RootOffset").Wrapped()
	assert.Equal(t, translate.Array(translate.Prim(translate.Number), 2), offset)
	assert.Equal(t, "[0, 0]", defaultOf(t, decls, "RootOffset").String())

	anchors, _ := record(t, decls, "RootAnchors").Wrapped()
	assert.Equal(t, translate.List(translate.Named("RootAnchorsValue")), anchors)
	value := union(t, decls, "RootAnchorsValue")
	assert.Equal(t, translate.DispatchName, value.Dispatch)
	assert.Equal(t, "Bottom", value.Cases[0].Name)
	assert.Equal(t, `["top"]`, defaultOf(t, decls, "RootAnchors").String())

	mixed := union(t, decls, "RootMixedValue")
	assert.Equal(t, translate.DispatchUntagged, mixed.Dispatch)
	assert.Equal(t, []translate.Case{
		{Name: "Zero", Payload: []translate.Slot{{Name: "value", Type: translate.Prim(translate.String)}}},
		{Name: "One", Payload: []translate.Slot{{Name: "value", Type: translate.Prim(translate.Number)}}},
	}, mixed.Cases)

	stops, _ := record(t, decls, "RootStops").Wrapped()
	assert.Equal(t, translate.List(translate.Named("RootStopsValue")), stops)
	inner, _ := record(t, decls, "RootStopsValue").Wrapped()
	assert.Equal(t, translate.List(translate.Prim(translate.Number)), inner)
}

func TestGenerate_Defaults(t *testing.T) {
	decls := compile(t, `{"version": 8, "root": {
		"opacity": {"type": "number", "default": 1},
		"color": {"type": "color", "default": "#000000"},
		"visible": {"type": "boolean", "default": true},
		"mode": {"type": "enum", "values": {"fast-path": {}}, "default": "fast-path"},
		"padding": {"type": "padding", "default": [2]},
		"width": {"type": "numberArray", "default": 1},
		"projection": {"type": "projectionDefinition", "default": "mercator"}
	}}`)

	tests := []struct {
		name string
		want string
	}{
		{"RootOpacity", "1"},
		{"RootColor", `"#000000"`},
		{"RootVisible", "true"},
		{"RootMode", "FastPath"},
		{"RootPadding", "[2]"},
		{"RootWidth", "One(1)"},
		{"RootProjection", "Raw(Mercator)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultOf(t, decls, tt.name).String())
		})
	}
	assert.Equal(t, translate.LitJSON, defaultOf(t, decls, "RootPadding").Kind)
}

func TestGenerate_HelpersEmittedOnce(t *testing.T) {
	decls := compile(t, `{"version": 8, "root": {
		"sprite": {"type": "sprite"},
		"fallback_sprite": {"type": "sprite"},
		"font-faces": {"type": "fontFaces"},
		"projection": {"type": "projectionDefinition", "default": "mercator"}
	}}`)

	assert.Equal(t, 1, count(decls, "SpriteUrlAndId"))
	assert.Equal(t, 1, count(decls, "FontWithRange"))
	assert.Equal(t, 1, count(decls, "FontFace"))
	assert.Equal(t, 1, count(decls, "AvailableProjections"))

	sprite := union(t, decls, "RootSprite")
	assert.Equal(t, "Url", sprite.Cases[0].Name)
	assert.Equal(t, translate.List(translate.Named("SpriteUrlAndId")), sprite.Cases[1].Payload[0].Type)

	fonts, _ := record(t, decls, "RootFontFaces").Wrapped()
	assert.Equal(t, translate.Map(translate.Named("FontFace")), fonts)
}

func TestGenerate_AggregateKindsReferenceTheirEntry(t *testing.T) {
	decls := compile(t, `{"version": 8,
		"root": {"light": {"type": "light"}, "transition": {"type": "transition"}},
		"light": {"anchor": {"type": "enum", "values": {"map": {}, "viewport": {}}}},
		"transition": {"duration": {"type": "number", "units": "milliseconds"}}}`)

	light, _ := record(t, decls, "RootLight").Wrapped()
	assert.Equal(t, translate.Named("Light"), light)
	assert.Equal(t, translate.DispatchName, union(t, decls, "LightAnchor").Dispatch)
}

func TestGenerate_PropertyTypeIsSkipped(t *testing.T) {
	decls := compile(t, `{"version": 8,
		"root": {"meta": {"type": "property-type", "data-driven": true}},
		"layout": {"type": "property-type"}}`)

	assert.Empty(t, record(t, decls, "StyleSpecification").Fields)
	assert.Zero(t, count(decls, "RootMeta"))
	assert.Zero(t, count(decls, "Layout"))
}

func TestGenerate_PropertyTypeGroupIsSkipped(t *testing.T) {
	decls := compile(t, `{"version": 8, "root": {},
		"property-type": {
			"data-driven": {"type": "property-type", "doc": "x"},
			"constant": {"type": "property-type", "doc": "y"}
		}}`)

	require.Len(t, decls, 1)
	assert.Equal(t, "StyleSpecification", decls[0].DeclName())
	assert.Zero(t, count(decls, "PropertyType"))
}

func TestGenerate_EnumDefaultErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantReason string
		wantDetail string
	}{
		{
			name:       "not a string",
			src:        `{"version": 8, "root": {}, "mode": {"type": "enum", "values": {"a": {}}, "default": 1}}`,
			wantReason: "enum default must be a string, got number",
		},
		{
			name:       "unknown value",
			src:        `{"version": 8, "root": {}, "mode": {"type": "enum", "values": {"fast-path": {}, "slow": {}}, "default": "fast"}}`,
			wantReason: `enum default "fast" is not one of the values`,
			wantDetail: `values: "fast-path", "slow"`,
		},
		{
			name:       "case name instead of value",
			src:        `{"version": 8, "root": {}, "mode": {"type": "enum", "values": {"fast-path": {}}, "default": "FastPath"}}`,
			wantReason: `enum default "FastPath" is not one of the values`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build("reference.json", tt.src)
			require.Error(t, err)

			var de *refgenerr.DecodeError
			require.True(t, refgenerr.As(err, &de), "got %T: %v", err, err)
			assert.Equal(t, "Mode.default", de.Path)
			assert.Equal(t, tt.wantReason, de.Reason)
			if tt.wantDetail != "" {
				assert.Contains(t, refgenerr.GetAllDetails(err), tt.wantDetail)
			}
		})
	}
}

func TestGenerate_Examples(t *testing.T) {
	decls := compile(t, `{"version": 8, "root": {}, "opacity": {"type": "number", "example": 0.5}}`)
	assert.Equal(t, []string{"0.5"}, record(t, decls, "Opacity").Examples)
}

func TestGenerate_RootOptions(t *testing.T) {
	doc, err := schema.Parse("reference.json", []byte(`{"version": 8, "root": {}}`))
	require.NoError(t, err)

	decls, err := Generate(doc, nil, Options{RootName: "map style", RootDoc: "A map style."})
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "MapStyle", decls[0].DeclName())
	assert.Equal(t, "A map style.", decls[0].(*translate.Record).Doc)
}

func TestGenerate_Deterministic(t *testing.T) {
	const jsonSrc = `{"version": 8, "root": {"b": {"type": "string"}, "a": {"type": "number"}},
		"z": {"type": "enum", "values": {"y": {}, "x": {}}},
		"m": ["p", "q"],
		"p": {"kind": {"type": "enum", "values": {"p": {}}}},
		"q": {"kind": {"type": "enum", "values": {"q": {}}}}}`
	const yamlSrc = `
version: 8
root:
  b: {type: string}
  a: {type: number}
q:
  kind: {type: enum, values: {q: {}}}
p:
  kind: {type: enum, values: {p: {}}}
m: [p, q]
z: {type: enum, values: {y: {}, x: {}}}
`

	first, err := build("reference.json", jsonSrc)
	require.NoError(t, err)
	second, err := build("reference.json", jsonSrc)
	require.NoError(t, err)
	fromYAML, err := build("reference.yaml", yamlSrc)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated generation differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, fromYAML); diff != "" {
		t.Errorf("YAML input differs from JSON input (-json +yaml):\n%s", diff)
	}
}

func TestCheck_ReferenceClosure(t *testing.T) {
	decls, err := build("reference.json", `{"version": 8, "root": {
		"paint": {"type": "paint"},
		"layers": {"type": "array", "value": "layer"},
		"more_layers": {"type": "array", "value": "layer"}
	}}`)
	require.NoError(t, err)

	err = Check(decls)
	require.Error(t, err)

	var re *refgenerr.ReferenceError
	require.True(t, refgenerr.As(err, &re))
	assert.Equal(t, []refgenerr.Unresolved{
		{Target: "Layer", Location: "RootLayers"},
		{Target: "Paint", Location: "RootPaint"},
	}, re.Unresolved)
}

func TestCheck_Uniqueness(t *testing.T) {
	tests := []struct {
		name  string
		decls []translate.Declaration
		owner string
	}{
		{
			name: "duplicate field identifiers",
			decls: []translate.Declaration{&translate.Record{Name: "Thing", Fields: []translate.Field{
				{Key: "fill_color", Type: translate.Prim(translate.Color)},
				{Key: "fill_color", RenameFrom: "fill-color", Type: translate.Prim(translate.Color)},
			}}},
			owner: "Thing",
		},
		{
			name: "duplicate declarations",
			decls: []translate.Declaration{
				&translate.Record{Name: "Thing"},
				&translate.TaggedUnion{Name: "Thing"},
			},
			owner: "Thing",
		},
		{
			name: "duplicate cases",
			decls: []translate.Declaration{&translate.TaggedUnion{Name: "Mode", Cases: []translate.Case{
				{Name: "FastPath", RenameFrom: "fast-path"},
				{Name: "FastPath", RenameFrom: "fast_path"},
			}}},
			owner: "Mode",
		},
		{
			name: "duplicate slots",
			decls: []translate.Declaration{&translate.TaggedUnion{Name: "Op", Cases: []translate.Case{
				{Name: "Pair", Payload: []translate.Slot{
					{Name: "x", Type: translate.Prim(translate.Number)},
					{Name: "x", Type: translate.Prim(translate.Number)},
				}},
			}}},
			owner: "Op.Pair",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.decls)
			var ae *refgenerr.AmbiguityError
			require.True(t, refgenerr.As(err, &ae), "got %v", err)
			assert.Equal(t, tt.owner, ae.Operation)
		})
	}
}

func TestGenerate_CollidingKeysAreAmbiguous(t *testing.T) {
	decls, err := build("reference.json", `{"version": 8, "root": {},
		"thing": {"fill-color": {"type": "color"}, "fill_color": {"type": "color"}}}`)
	require.NoError(t, err)

	var ae *refgenerr.AmbiguityError
	require.True(t, refgenerr.As(Check(decls), &ae))
	assert.Equal(t, "Thing", ae.Operation)
}

func TestRangeDoc(t *testing.T) {
	tests := []struct {
		doc, min, max, period string
		want                  string
	}{
		{"d", "", "", "", "d"},
		{"d", "0", "1", "", "d\n\nRange: 0..=1"},
		{"", "0", "", "", "Range: 0.."},
		{"", "", "360", "", "Range: ..=360"},
		{"", "0", "360", "360", "Range: 0..=360 every 360"},
		{"", "", "", "360", "Range: every 360"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, rangeDoc(tt.doc, tt.min, tt.max, tt.period))
		})
	}
}
