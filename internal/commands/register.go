// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/dacolabs/refgen/internal/logger"
	"github.com/dacolabs/refgen/internal/translate"
)

const verboseFlag = "verbose"

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd(translators translate.Register) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "refgen",
		Short: "Compile a style reference schema into typed declarations",
		Long: `refgen reads a style reference document, normalizes it into an
intermediate model and renders typed declarations for it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogger,
	}
	rootCmd.PersistentFlags().CountP(verboseFlag, "v", "Increase log verbosity (-v, -vv, -vvv)")

	rootCmd.AddCommand(newInitCmd(translators))
	rootCmd.AddCommand(newGenerateCmd(translators))
	rootCmd.AddCommand(newCheckCmd(translators))
	rootCmd.AddCommand(newModelCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setupLogger stores a logger honoring the -v count in the command context.
// Log lines go to stderr so they never mix with command output.
func setupLogger(cmd *cobra.Command, _ []string) error {
	l := logger.New(cmd.ErrOrStderr(), verbosity(cmd))
	cmd.SetContext(logger.WithContext(cmd.Context(), l))
	return nil
}

func verbosity(cmd *cobra.Command) int {
	v, err := cmd.Flags().GetCount(verboseFlag)
	if err != nil {
		return logger.VerbosityUser
	}
	return v
}
