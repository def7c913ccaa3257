// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dacolabs/refgen/internal/logger"
	"github.com/dacolabs/refgen/internal/pipeline"
	"github.com/dacolabs/refgen/internal/prompts"
	"github.com/dacolabs/refgen/internal/session"
	"github.com/dacolabs/refgen/internal/translate"
)

type generateOptions struct {
	format string
	output string
	stdout bool
}

func newGenerateCmd(translators translate.Register) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate declarations from the reference document",
		Long: fmt.Sprintf(`Compile the reference document named in refgen.yaml and write the
rendered declarations to the configured output.

Available formats: %s`, strings.Join(translators.Available(), ", ")),
		Example: `  # Generate using refgen.yaml
  refgen generate

  # Render a Markdown reference instead
  refgen generate --format markdown --output docs/reference.md

  # Print to stdout
  refgen generate --stdout`,
		Args:    cobra.NoArgs,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, translators, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		fmt.Sprintf("Output format, overrides refgen.yaml (%s)", strings.Join(translators.Available(), ", ")))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path, overrides refgen.yaml")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write the generated code to stdout instead of a file")

	return cmd
}

func runGenerate(cmd *cobra.Command, translators translate.Register, opts *generateOptions) error {
	b, err := runBuild(cmd, translators, opts.format)
	if err != nil {
		return err
	}

	if opts.stdout {
		_, err = cmd.OutOrStdout().Write(b.output.Code)
		return err
	}

	output := opts.output
	if output == "" {
		output = b.project.Config.Output
	}

	log := logger.FromContext(cmd.Context())
	var written, lines int
	for _, f := range b.files(output) {
		path := b.project.Path(f.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, f.data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		n := bytes.Count(f.data, []byte("\n"))
		log.Info("wrote",
			zap.String(logger.FieldOutput, f.path),
			zap.Int(logger.FieldBytes, len(f.data)),
			zap.Int(logger.FieldLines, n),
		)
		written += len(f.data)
		lines += n
	}

	stats := pipeline.Count(b.result.Declarations)
	fields := []prompts.ResultField{
		{Label: "Output", Value: output},
		{Label: "Format", Value: b.translator.Name()},
		{Label: "Declarations", Value: fmt.Sprintf("%d (%d records, %d unions, %d defaults, %d decoders)",
			stats.Total(), stats.Records, stats.Unions, stats.Defaults, stats.Decoders)},
		{Label: "Size", Value: strconv.Itoa(written) + " bytes, " + strconv.Itoa(lines) + " lines"},
	}
	if b.output.Tests != nil {
		fields = append(fields, prompts.ResultField{Label: "Tests", Value: b.files(output)[1].path})
	}
	prompts.PrintResult(cmd.OutOrStdout(), fields, "Generation completed")
	return nil
}
