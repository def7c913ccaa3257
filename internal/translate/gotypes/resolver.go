// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package gotypes

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/dacolabs/refgen/internal/naming"
	"github.com/dacolabs/refgen/internal/translate"
)

// reserved are method names every generated type may carry.
var reserved = map[string]bool{
	"Equal":         true,
	"Clone":         true,
	"Less":          true,
	"UnmarshalJSON": true,
	"MarshalJSON":   true,
}

type resolver struct{}

func (r *resolver) BuiltinType(b translate.Builtin) string {
	switch b {
	case translate.Number:
		return "float64"
	case translate.Bool:
		return "bool"
	case translate.String, translate.Color:
		return "string"
	default:
		return "json.RawMessage"
	}
}

func (r *resolver) NamedType(name string) string { return goIdent(name) }

func (r *resolver) OptionalType(elem string) string { return "*" + elem }

func (r *resolver) ListType(elem string) string { return "[]" + elem }

func (r *resolver) ArrayType(elem string, length int) string {
	return fmt.Sprintf("[%d]%s", length, elem)
}

func (r *resolver) MapType(elem string) string { return "map[string]" + elem }

func (r *resolver) TypeName(name string) string { return goIdent(name) }

func (r *resolver) CaseName(name string) string { return memberIdent(name) }

func (r *resolver) EnrichField(f *translate.FieldData) {
	f.Name = memberIdent(f.Name)
	switch {
	case f.Flatten:
		f.Tag = "`json:\"-\"`"
	case f.Optional:
		f.Tag = "`json:\"" + f.Key + ",omitempty\"`"
	default:
		f.Tag = "`json:\"" + f.Key + "\"`"
	}
}

// memberIdent converts a field, case or slot name into an exported Go
// identifier that cannot clash with a generated method.
func memberIdent(name string) string {
	id := goIdent(naming.TitleCase(name))
	if reserved[id] {
		id += "_"
	}
	return id
}

// goIdent makes an identifier start with a letter by spelling out a leading
// number: "2Params" becomes "TwoParams".
func goIdent(name string) string {
	if name == "" {
		return "X"
	}
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return name
	}
	n, err := strconv.Atoi(name[:end])
	if err != nil {
		return "N" + name
	}
	rest := []rune(name[end:])
	if len(rest) > 0 {
		rest[0] = unicode.ToUpper(rest[0])
	}
	return naming.NumberWord(n) + string(rest)
}
