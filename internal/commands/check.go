// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dacolabs/refgen/internal/logger"
	"github.com/dacolabs/refgen/internal/prompts"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/session"
	"github.com/dacolabs/refgen/internal/translate"
)

type checkOptions struct {
	quiet bool
}

func newCheckCmd(translators translate.Register) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the generated output is up to date",
		Long: `Regenerate the output in memory and compare it with the files on disk.

Fails with a unified diff when a file is missing or stale. Suited to CI.`,
		Example: `  # Fail when style/style.go needs regenerating
  refgen check

  # Only report which files are stale
  refgen check --quiet`,
		Args:    cobra.NoArgs,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, translators, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print diffs")

	return cmd
}

func runCheck(cmd *cobra.Command, translators translate.Register, opts *checkOptions) error {
	b, err := runBuild(cmd, translators, "")
	if err != nil {
		return err
	}

	log := logger.FromContext(cmd.Context())
	var stale []string
	for _, f := range b.files(b.project.Config.Output) {
		current, err := os.ReadFile(b.project.Path(f.path))
		if errors.Is(err, fs.ErrNotExist) {
			stale = append(stale, f.path)
			log.Warn("missing", zap.String(logger.FieldOutput, f.path))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.path, err)
		}

		diff := lineDiff(f.path, string(current), string(f.data))
		if diff == "" {
			log.Info("up to date", zap.String(logger.FieldOutput, f.path))
			continue
		}
		stale = append(stale, f.path)
		log.Warn("stale", zap.String(logger.FieldOutput, f.path))
		if !opts.quiet {
			if _, err := fmt.Fprint(cmd.OutOrStdout(), diff); err != nil {
				return err
			}
		}
	}

	if len(stale) > 0 {
		return refgenerr.WithHint(
			refgenerr.Newf("generated output is stale: %s", strings.Join(stale, ", ")),
			"run `refgen generate` to update it",
		)
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Output", Value: b.project.Config.Output},
	}, "Output is up to date")
	return nil
}
