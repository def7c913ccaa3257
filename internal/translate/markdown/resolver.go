// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package markdown renders declarations as a Markdown reference document.
package markdown

import (
	"strconv"
	"strings"

	"github.com/dacolabs/refgen/internal/translate"
)

type resolver struct{}

func (r *resolver) BuiltinType(b translate.Builtin) string {
	switch b {
	case translate.Bool:
		return "boolean"
	case translate.Value:
		return "any"
	default:
		return string(b)
	}
}

func (r *resolver) NamedType(name string) string {
	return "[" + name + "](#" + anchor(name) + ")"
}

func (r *resolver) OptionalType(elem string) string { return elem + "?" }

func (r *resolver) ListType(elem string) string { return "list(" + elem + ")" }

func (r *resolver) ArrayType(elem string, length int) string {
	return "array(" + elem + ", " + strconv.Itoa(length) + ")"
}

func (r *resolver) MapType(elem string) string { return "map(" + elem + ")" }

func (r *resolver) TypeName(name string) string { return name }

func (r *resolver) CaseName(name string) string { return name }

func (r *resolver) EnrichField(f *translate.FieldData) {
	if f.Flatten {
		f.Key = "*"
	}
}

// anchor is the heading id GitHub derives for a type name.
func anchor(name string) string { return strings.ToLower(name) }
