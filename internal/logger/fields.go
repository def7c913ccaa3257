// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package logger

// Standard field names. Use these instead of raw strings.
const (
	FieldInput  = "input"
	FieldOutput = "output"
	FieldFormat = "format"
	FieldStage  = "stage"
	FieldDecl   = "decl"
	FieldKind   = "kind"

	FieldDurationMS = "duration_ms"

	FieldCount     = "count"
	FieldRelations = "relations"
	FieldBytes     = "bytes"
	FieldLines     = "lines"
)
