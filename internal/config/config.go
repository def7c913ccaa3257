// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles the refgen.yaml project configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dacolabs/refgen/internal/refgenerr"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// FileName is the name of the configuration file looked up in the working
// directory.
const FileName = "refgen.yaml"

// Defaults applied by WithDefaults.
const (
	DefaultFormat  = "gotypes"
	DefaultPackage = "style"
	DefaultRoot    = "StyleSpecification"
)

// Config represents the refgen.yaml project configuration file.
type Config struct {
	Version int `yaml:"version"`
	// Input is the reference document, read as JSON or YAML by extension.
	Input string `yaml:"input"`
	// Output is the file the generated declarations are written to.
	Output  string `yaml:"output"`
	Format  string `yaml:"format,omitempty"`
	Package string `yaml:"package,omitempty"`
	// Root names the record generated for the document root.
	Root string `yaml:"root,omitempty"`
	// Tests enables the companion test file rendered from examples.
	Tests bool `yaml:"tests,omitempty"`
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, refgenerr.Wrapf(err, "parse %s", path)
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return refgenerr.Newf("unsupported config version %d", c.Version)
	}
	if c.Input == "" {
		return refgenerr.New("input is required")
	}
	switch strings.ToLower(filepath.Ext(c.Input)) {
	case ".json", ".yaml", ".yml":
	default:
		return refgenerr.WithHint(
			refgenerr.Newf("unsupported input %q", c.Input),
			"the reference document must be a .json, .yaml or .yml file",
		)
	}
	if c.Output == "" {
		return refgenerr.New("output is required")
	}
	if c.Input == c.Output {
		return refgenerr.New("output must differ from input")
	}
	return nil
}

// WithDefaults returns a copy of c with empty optional fields filled in.
func (c Config) WithDefaults() Config {
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Package == "" {
		c.Package = DefaultPackage
	}
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	return c
}

// TestsOutput is the path of the companion test file: the output path with
// _test inserted before its extension.
func (c *Config) TestsOutput() string {
	ext := filepath.Ext(c.Output)
	return strings.TrimSuffix(c.Output, ext) + "_test" + ext
}
