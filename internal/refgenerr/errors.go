// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package refgenerr defines the failures a generation run can end with.
//
// Every failure is fatal to the run. The types exist so callers and tests can
// tell them apart with errors.As instead of matching message text:
//
//	var decodeErr *refgenerr.DecodeError
//	if errors.As(err, &decodeErr) {
//	    fmt.Println(decodeErr.Path)
//	}
//
// The package also re-exports the github.com/cockroachdb/errors helpers used
// across refgen, so call sites import a single errors package.
package refgenerr

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Error creation, wrapping and inspection.
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithHint      = crdb.WithHint
	WithDetail    = crdb.WithDetail
	Is            = crdb.Is
	As            = crdb.As
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
)

// Attempt records one shape tried during structural trial and why it was
// rejected.
type Attempt struct {
	Shape string
	Err   error
}

// DecodeError reports that the document does not match any expected shape at
// Path.
type DecodeError struct {
	Path     string
	Reason   string
	Attempts []Attempt
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("decode ")
	if e.Path == "" {
		sb.WriteString("document")
	} else {
		fmt.Fprintf(&sb, "%q", e.Path)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if len(e.Attempts) > 0 {
		sb.WriteString(" (tried ")
		for i, a := range e.Attempts {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s: %v", a.Shape, a.Err)
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Decodef returns a DecodeError for path with a formatted reason.
func Decodef(path, format string, args ...any) *DecodeError {
	return &DecodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// NoShape returns a DecodeError listing every rejected shape.
func NoShape(path string, attempts []Attempt) *DecodeError {
	return &DecodeError{Path: path, Reason: "no shape matched", Attempts: attempts}
}

// Unresolved is one dangling reference and the first place it was used.
type Unresolved struct {
	Target   string
	Location string
}

// ReferenceError lists every reference that does not resolve to a
// declaration.
type ReferenceError struct {
	Unresolved []Unresolved
}

func (e *ReferenceError) Error() string {
	items := make([]string, len(e.Unresolved))
	for i, u := range e.Unresolved {
		items[i] = fmt.Sprintf("%s (referenced from %s)", u.Target, u.Location)
	}
	return fmt.Sprintf("%d unresolved reference(s): %s", len(items), strings.Join(items, ", "))
}

// AmbiguityError reports a naming or decoding decision that cannot be made
// without guessing. Spec holds the offending definition so a human can fix
// the document.
type AmbiguityError struct {
	Operation string
	Reason    string
	Spec      string
}

func (e *AmbiguityError) Error() string {
	msg := fmt.Sprintf("ambiguous %s: %s", e.Operation, e.Reason)
	if e.Spec != "" {
		msg += "\n" + e.Spec
	}
	return msg
}

// RangeError reports a numeric enum value that does not fit its encoding
// width.
type RangeError struct {
	Type  string
	Value string
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: value %s outside 0..=%d", e.Type, e.Value, e.Max)
}
