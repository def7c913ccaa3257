// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"github.com/charmbracelet/huh"
)

// InitAnswers are the values collected by RunInitForm. Fields already set
// are offered as defaults.
type InitAnswers struct {
	Input   string
	Output  string
	Format  string
	Package string
	Root    string
	Tests   bool
}

// RunInitForm runs the interactive form for the init command.
func RunInitForm(a *InitAnswers, formats []string) error {
	options := make([]huh.Option[string], 0, len(formats))
	for _, f := range formats {
		options = append(options, huh.NewOption(f, f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reference document").
				Placeholder("reference/v8.json").
				Validate(inputValidator).
				Value(&a.Input),
			huh.NewInput().
				Title("Output file").
				Placeholder("style/style.go").
				Validate(requiredValidator("output")).
				Value(&a.Output),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Options(options...).
				Value(&a.Format),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Package name").
				Validate(identifierValidator("package")).
				Value(&a.Package),
			huh.NewInput().
				Title("Root type name").
				Validate(identifierValidator("root")).
				Value(&a.Root),
			huh.NewConfirm().
				Title("Generate example tests?").
				Value(&a.Tests),
		).WithHideFunc(func() bool { return a.Format != "gotypes" }),
	).WithTheme(Theme()).Run()
}
