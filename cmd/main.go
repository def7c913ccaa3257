// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package main is the entry point for the refgen CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dacolabs/refgen/cmd/internal"
	"github.com/dacolabs/refgen/internal/refgenerr"
)

func main() {
	if err := internal.Run(context.Background(), os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		for _, hint := range refgenerr.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
