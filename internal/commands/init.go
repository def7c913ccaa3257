// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dacolabs/refgen/internal/config"
	"github.com/dacolabs/refgen/internal/prompts"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/translate"
)

// stdinIsTerminal decides whether init prompts. Tests replace it.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type initOptions struct {
	input          string
	output         string
	format         string
	pkg            string
	root           string
	tests          bool
	nonInteractive bool
}

func newInitCmd(translators translate.Register) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new refgen project",
		Long: `Initialize a new refgen project with a refgen.yaml configuration file.

Prompts for the missing values when stdin is a terminal; otherwise the flags
are used as given.`,
		Example: `  # Interactive mode
  refgen init

  # Non-interactive
  refgen init --input reference/v8.json --output style/style.go --non-interactive
  refgen init -i v8.json -o reference.md --format markdown --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, translators, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Path to the reference document")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Path of the generated file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", config.DefaultFormat,
		fmt.Sprintf("Output format (%s)", strings.Join(translators.Available(), ", ")))
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", config.DefaultPackage, "Package name of the generated code")
	cmd.Flags().StringVarP(&opts.root, "root", "r", config.DefaultRoot, "Name of the root type")
	cmd.Flags().BoolVar(&opts.tests, "tests", false, "Also generate a test file from the reference examples")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts (requires --input and --output)")

	return cmd
}

func runInit(cmd *cobra.Command, translators translate.Register, opts *initOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(cwd, config.FileName)
	if _, statErr := os.Stat(configPath); statErr == nil {
		return refgenerr.WithHint(
			refgenerr.Newf("%s already exists; project already initialized", config.FileName),
			"edit the existing file or remove it first",
		)
	}

	if !opts.nonInteractive && stdinIsTerminal() {
		answers := prompts.InitAnswers{
			Input:   opts.input,
			Output:  opts.output,
			Format:  opts.format,
			Package: opts.pkg,
			Root:    opts.root,
			Tests:   opts.tests,
		}
		if formErr := prompts.RunInitForm(&answers, translators.Available()); formErr != nil {
			return formErr
		}
		opts.input, opts.output, opts.format = answers.Input, answers.Output, answers.Format
		opts.pkg, opts.root, opts.tests = answers.Package, answers.Root, answers.Tests
	}

	if _, err := translators.Get(opts.format); err != nil {
		return err
	}

	cfg := config.Config{
		Version: config.CurrentConfigVersion,
		Input:   opts.input,
		Output:  opts.output,
		Format:  opts.format,
		Package: opts.pkg,
		Root:    opts.root,
		Tests:   opts.tests,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Config", Value: config.FileName},
		{Label: "Input", Value: cfg.Input},
		{Label: "Output", Value: cfg.Output},
		{Label: "Format", Value: cfg.Format},
	}, "Initialization completed")
	return nil
}
