// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseJSON_KeepsKeyOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"zeta": 1, "alpha": {"b": true, "a": null}, "mid": [1.50, "x"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())

	alpha, ok := v.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, alpha.Keys())

	mid, _ := v.Get("mid")
	require.Len(t, mid.Items, 2)
	assert.Equal(t, Number, mid.Items[0].Kind)
	assert.Equal(t, "1.50", mid.Items[0].Text, "number text is preserved")
	assert.Equal(t, String, mid.Items[1].Kind)
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "duplicate key", input: `{"a": 1, "a": 2}`, wantErr: `duplicate key "a"`},
		{name: "nested duplicate", input: `{"x": {"k": 1, "k": 1}}`, wantErr: "x: duplicate key"},
		{name: "trailing data", input: `{} {}`, wantErr: "unexpected data"},
		{name: "empty", input: ``, wantErr: "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseYAML_MatchesJSON(t *testing.T) {
	fromJSON, err := ParseJSON([]byte(`{"version": 8, "root": {"name": {"type": "string", "required": true}}, "ratio": 0.5, "none": null}`))
	require.NoError(t, err)

	fromYAML, err := ParseYAML([]byte(`
version: 8
root:
  name:
    type: string
    required: true
ratio: 0.5
none: null
`))
	require.NoError(t, err)

	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("YAML tree differs from JSON tree (-json +yaml):\n%s", diff)
	}
}

func TestParseYAML_Aliases(t *testing.T) {
	v, err := ParseYAML([]byte(`
base: &base
  type: number
copy: *base
`))
	require.NoError(t, err)

	copied, ok := v.Get("copy")
	require.True(t, ok)
	typ, ok := copied.Get("type")
	require.True(t, ok)
	assert.Equal(t, "number", typ.Text)
}

func TestParseYAML_DuplicateKey(t *testing.T) {
	_, err := ParseYAML([]byte("a: 1\na: 2\n"))
	require.Error(t, err)
}

func TestValue_JSONRoundTrip(t *testing.T) {
	src := `{"b":[1,2.5,"s\"q"],"a":{"t":true,"n":null}}`
	v, err := ParseJSON([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, v.JSON())
}

func TestParse_ChoosesFormatByExtension(t *testing.T) {
	v, err := Parse("reference.yml", []byte("a: [1, 2]\n"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2]}`, v.JSON())

	v, err = Parse("reference.json", []byte(`{"a": [1, 2]}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2]}`, v.JSON())
}

func TestValue_MarshalYAMLKeepsOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"z": 1, "a": [true, "x", 2.5], "m": null}`))
	require.NoError(t, err)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "z: 1\na:\n    - true\n    - x\n    - 2.5\nm: null\n", string(out))
}
