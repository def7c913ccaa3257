// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacolabs/refgen/internal/config"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/session"
	"github.com/dacolabs/refgen/internal/translate"
	"github.com/dacolabs/refgen/internal/translate/gotypes"
	"github.com/dacolabs/refgen/internal/translate/jsonschema"
	"github.com/dacolabs/refgen/internal/translate/markdown"
)

const reference = `{
	"version": 8,
	"root": {
		"version": {"type": "enum", "values": [8], "required": true, "doc": "Style specification version number."},
		"name": {"type": "string", "doc": "A human-readable name for the style."},
		"sources": {"type": "sources"}
	},
	"sources": {"*": {"type": "source"}},
	"source": ["source_vector", "source_raster"],
	"source_vector": {
		"type": {"type": "enum", "values": {"vector": {}}, "required": true},
		"url": {"type": "string"}
	},
	"source_raster": {
		"type": {"type": "enum", "values": {"raster": {}}, "required": true},
		"tileSize": {"type": "number", "default": 512}
	}
}`

func testTranslators() translate.Register {
	return translate.Register{
		"gotypes":    &gotypes.Translator{},
		"jsonschema": &jsonschema.Translator{},
		"markdown":   &markdown.Translator{},
	}
}

// newProject creates a project directory holding the reference document and,
// unless cfg is nil, a refgen.yaml. The test runs inside it.
func newProject(t *testing.T, cfg *config.Config) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v8.json"), []byte(reference), 0o600))
	if cfg != nil {
		require.NoError(t, cfg.Save(filepath.Join(dir, config.FileName)))
	}

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(dir))
	return dir
}

func defaultConfig() *config.Config {
	return &config.Config{
		Version: config.CurrentConfigVersion,
		Input:   "v8.json",
		Output:  "style/style.go",
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(testTranslators())
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestInit_NonInteractive(t *testing.T) {
	dir := newProject(t, nil)

	stdout, _, err := execute(t, "init",
		"--input", "v8.json", "--output", "docs/reference.md",
		"--format", "markdown", "--non-interactive")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Initialization completed")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "v8.json", cfg.Input)
	assert.Equal(t, "docs/reference.md", cfg.Output)
	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, config.DefaultPackage, cfg.Package)
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		args    []string
		wantErr string
	}{
		{
			name:    "already initialized",
			cfg:     defaultConfig(),
			args:    []string{"init", "-i", "v8.json", "-o", "out.go", "--non-interactive"},
			wantErr: "refgen.yaml already exists",
		},
		{
			name:    "unknown format",
			args:    []string{"init", "-i", "v8.json", "-o", "out.py", "-f", "python", "--non-interactive"},
			wantErr: `unknown format "python"`,
		},
		{
			name:    "missing input",
			args:    []string{"init", "-o", "out.go", "--non-interactive"},
			wantErr: "input is required",
		},
		{
			name:    "no prompt without terminal",
			args:    []string{"init", "-i", "v8.json"},
			wantErr: "output is required",
		},
	}

	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = orig })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newProject(t, tt.cfg)
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerate(t *testing.T) {
	dir := newProject(t, defaultConfig())

	stdout, _, err := execute(t, "generate")
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(dir, "style", "style.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "package style")
	assert.Contains(t, string(code), "type StyleSpecification struct")

	assert.Contains(t, stdout, "Output:")
	assert.Contains(t, stdout, "style/style.go")
	assert.Contains(t, stdout, "Declarations:")
	assert.Contains(t, stdout, "Generation completed")
}

func TestGenerate_FormatOverride(t *testing.T) {
	dir := newProject(t, defaultConfig())

	_, _, err := execute(t, "generate", "--format", "jsonschema", "--output", "schema/style.schema.json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "schema", "style.schema.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, jsonschema.Draft, doc["$schema"])
	assert.Equal(t, "#/$defs/StyleSpecification", doc["$ref"])
}

func TestGenerate_Stdout(t *testing.T) {
	dir := newProject(t, defaultConfig())

	stdout, _, err := execute(t, "generate", "--stdout", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# v8.json\n")
	assert.Contains(t, stdout, "## StyleSpecification")

	_, statErr := os.Stat(filepath.Join(dir, "style", "style.go"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written with --stdout")
}

func TestGenerate_NotInitialized(t *testing.T) {
	newProject(t, nil)

	_, _, err := execute(t, "generate")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrNotInitialized)
	assert.Contains(t, refgenerr.GetAllHints(err), "run `refgen init` to create one")
}

func TestGenerate_CompileError(t *testing.T) {
	dir := newProject(t, defaultConfig())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v8.json"), []byte(`{"version": 7, "root": {}}`), 0o600))

	_, _, err := execute(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile v8.json")
}

func TestGenerate_Verbose(t *testing.T) {
	newProject(t, defaultConfig())

	_, stderr, err := execute(t, "generate", "-vv")
	require.NoError(t, err)
	assert.Contains(t, stderr, "compiled")
	assert.Contains(t, stderr, "render timing")
	assert.NotContains(t, stderr, "declaration\t", "per-declaration lines need -vvv")

	_, stderr, err = execute(t, "generate", "-vvv")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"decl": "StyleSpecification"`)

	_, stderr, err = execute(t, "generate")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestCheck(t *testing.T) {
	dir := newProject(t, defaultConfig())
	output := filepath.Join(dir, "style", "style.go")

	_, _, err := execute(t, "check")
	require.Error(t, err, "missing output is stale")
	assert.Contains(t, err.Error(), "generated output is stale: style/style.go")

	_, _, err = execute(t, "generate")
	require.NoError(t, err)

	stdout, _, err := execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Output is up to date")

	code, err := os.ReadFile(output)
	require.NoError(t, err)
	edited := bytes.Replace(code, []byte("package style"), []byte("package styles"), 1)
	require.NoError(t, os.WriteFile(output, edited, 0o600))

	stdout, _, err = execute(t, "check")
	require.Error(t, err)
	assert.Contains(t, refgenerr.GetAllHints(err), "run `refgen generate` to update it")
	assert.Contains(t, stdout, "--- a/style/style.go\n+++ b/style/style.go\n")
	assert.Contains(t, stdout, "-package styles\n+package style\n")

	stdout, _, err = execute(t, "check", "--quiet")
	require.Error(t, err)
	assert.NotContains(t, stdout, "+package style")
}

func TestModel(t *testing.T) {
	newProject(t, defaultConfig())

	stdout, _, err := execute(t, "model")
	require.NoError(t, err)
	assert.Contains(t, stdout, "model:\n  version: 8\n")
	assert.Contains(t, stdout, "relations:\n")
	assert.Contains(t, stdout, "tag_field: type")

	stdout, _, err = execute(t, "model", "--format", "json", "--raw")
	require.NoError(t, err)
	var dump struct {
		Model struct {
			Version int `json:"version"`
		} `json:"model"`
		Relations []map[string]string `json:"relations"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &dump))
	assert.Equal(t, 8, dump.Model.Version)
	assert.Len(t, dump.Relations, 2)

	_, _, err = execute(t, "model", "--format", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported model format "toml"`)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "refgen version ")

	stdout, _, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "refgen")
}
