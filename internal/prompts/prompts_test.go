// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifierValidator(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{"style", ""},
		{"_style2", ""},
		{"", "package is required"},
		{"2style", "must start with letter or underscore"},
		{"my-style", "must contain only letters, numbers, underscores"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := identifierValidator("package")(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestInputValidator(t *testing.T) {
	assert.NoError(t, inputValidator("v8.json"))
	assert.NoError(t, inputValidator("ref/v8.yml"))
	assert.EqualError(t, inputValidator(""), "input is required")
	assert.EqualError(t, inputValidator("v8.toml"), "must be a .json, .yaml or .yml file")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, []ResultField{
		{Label: "Output", Value: "style/style.go"},
		{Label: "Declarations", Value: "42"},
	}, "Generated")

	out := buf.String()
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "Output:")
	assert.Contains(t, out, "style/style.go")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "Generated")
}

func TestPrintResult_NoMessage(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, []ResultField{{Label: "Version", Value: "dev"}}, "")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}
