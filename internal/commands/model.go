// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dacolabs/refgen/internal/discriminant"
	"github.com/dacolabs/refgen/internal/logger"
	"github.com/dacolabs/refgen/internal/pipeline"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/schema"
	"github.com/dacolabs/refgen/internal/session"
)

type modelOptions struct {
	format string
	raw    bool
}

// modelDump is the printed form of the intermediate model.
type modelDump struct {
	Model     *schema.Document        `yaml:"model" json:"model"`
	Relations []discriminant.Relation `yaml:"relations" json:"relations"`
}

func newModelCmd() *cobra.Command {
	opts := &modelOptions{}

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Print the intermediate model of the reference document",
		Long: `Decode the reference document named in refgen.yaml and print its normalized
model together with the discriminant relations found in it.

By default the model is printed with the relations applied, that is with the
tag fields removed from union members.`,
		Example: `  # Print the resolved model as YAML
  refgen model

  # Print the model as decoded, as JSON
  refgen model --raw --format json`,
		Args:    cobra.NoArgs,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModel(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "yaml", "Output format (yaml or json)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the model before discriminant relations are applied")

	return cmd
}

func runModel(cmd *cobra.Command, opts *modelOptions) error {
	project, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}

	res, err := pipeline.Decode(project.Config.Input, project.Input)
	if err != nil {
		return err
	}
	logger.FromContext(cmd.Context()).Info("decoded",
		zap.String(logger.FieldInput, project.Config.Input),
		zap.Int(logger.FieldCount, len(res.Decoded.Named)),
		zap.Int(logger.FieldRelations, len(res.Relations)),
	)

	dump := modelDump{Model: res.Resolved, Relations: res.Relations}
	if opts.raw {
		dump.Model = res.Decoded
	}
	return writeModel(cmd.OutOrStdout(), dump, opts.format)
}

func writeModel(w io.Writer, dump modelDump, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(dump); err != nil {
			return fmt.Errorf("failed to encode model: %w", err)
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode model: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return refgenerr.WithHint(refgenerr.Newf("unsupported model format %q", format), "use yaml or json")
	}
}
