// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

// TypeResolver converts declaration types to target-language type strings and naming conventions.
// Each translator implements this interface to control how declarations map to its output format.
type TypeResolver interface {
	// BuiltinType maps a builtin to a target type string.
	BuiltinType(b Builtin) string

	// NamedType returns the type string for a reference to a declared type.
	NamedType(name string) string

	// OptionalType wraps an element type string for a possibly absent value.
	OptionalType(elem string) string

	// ListType wraps an element type string in a variable-length sequence.
	ListType(elem string) string

	// ArrayType wraps an element type string in a sequence of exactly length elements.
	ArrayType(elem string, length int) string

	// MapType wraps an element type string in a string-keyed mapping.
	MapType(elem string) string

	// TypeName formats a declaration name for the target language.
	TypeName(name string) string

	// CaseName formats a union case or slot name for the target language.
	CaseName(name string) string

	// EnrichField applies language-specific post-processing to a resolved field.
	// It may mutate any combination of the field's properties:
	//   - Name: rename for target conventions (e.g. snake_case to PascalCase for Go)
	//   - Type: wrap for optionality (e.g. *T for Go)
	//   - Tag:  set annotations (e.g. json struct tags for Go)
	// Called once per field after type resolution, before template execution.
	EnrichField(f *FieldData)
}

// ResolveType renders t through r.
func ResolveType(r TypeResolver, t TypeRef) string {
	switch t.Kind {
	case TypeBuiltin:
		return r.BuiltinType(t.Builtin)
	case TypeOptional:
		return r.OptionalType(ResolveType(r, *t.Elem))
	case TypeList:
		return r.ListType(ResolveType(r, *t.Elem))
	case TypeArray:
		return r.ArrayType(ResolveType(r, *t.Elem), t.Length)
	case TypeMap:
		return r.MapType(ResolveType(r, *t.Elem))
	default:
		return r.NamedType(t.Name)
	}
}
