// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"fmt"
	"strings"
)

// Declaration is one unit a backend renders: a Record, a TaggedUnion, a
// DefaultValueProvider or a CustomDecoder.
type Declaration interface {
	// DeclName is the name of the declared or targeted type.
	DeclName() string
	declaration()
}

// Capability is a behavior a backend attaches to a declared type.
type Capability string

// Capabilities.
const (
	CapEqual  Capability = "equal"
	CapClone  Capability = "clone"
	CapDecode Capability = "decode"
	CapOrder  Capability = "order"
)

// Caps is a set of capabilities in a fixed order.
type Caps []Capability

// Has reports whether c is in the set.
func (cs Caps) Has(c Capability) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

// Record declares a type with named fields. A record whose only field has
// an empty Key is a transparent wrapper around that field's type.
type Record struct {
	Name     string
	Doc      string
	Fields   []Field
	Caps     Caps
	Examples []string
}

// Field is one member of a Record.
type Field struct {
	// Key is the normalized identifier.
	Key  string
	Type TypeRef
	// Optional marks a field that may be absent on the wire.
	Optional bool
	// RenameFrom is the wire key when it differs from Key.
	RenameFrom string
	Doc        string
	// Flatten collects every wire key not claimed by a sibling field.
	Flatten bool
}

// Wire returns the key the field has in the encoded document.
func (f Field) Wire() string {
	if f.RenameFrom != "" {
		return f.RenameFrom
	}
	return f.Key
}

// Wrapped returns the wrapped type of a transparent wrapper record.
func (r *Record) Wrapped() (TypeRef, bool) {
	if len(r.Fields) == 1 && r.Fields[0].Key == "" {
		return r.Fields[0].Type, true
	}
	return TypeRef{}, false
}

// Dispatch is how a union decides which case an encoded value belongs to.
type Dispatch int

// Dispatch strategies.
const (
	// DispatchUntagged tries each case in order by payload shape.
	DispatchUntagged Dispatch = iota
	// DispatchTag reads TagField from an object and selects by its value.
	DispatchTag
	// DispatchName selects a payload-less case by its wire string.
	DispatchName
	// DispatchNumber selects a payload-less case by its 8-bit value.
	DispatchNumber
	// DispatchOperator reads a sequence whose first element names the case
	// and decodes the rest with the union's CustomDecoder.
	DispatchOperator
	// DispatchPositional decodes the elements of a sequence into the first
	// case whose slots accept them.
	DispatchPositional
)

func (d Dispatch) String() string {
	switch d {
	case DispatchUntagged:
		return "untagged"
	case DispatchTag:
		return "tag"
	case DispatchName:
		return "name"
	case DispatchNumber:
		return "number"
	case DispatchOperator:
		return "operator"
	case DispatchPositional:
		return "positional"
	default:
		return fmt.Sprintf("dispatch(%d)", int(d))
	}
}

// TaggedUnion declares a type holding exactly one of its cases.
type TaggedUnion struct {
	Name string
	Doc  string
	// TagField is the object key carrying the case tag for DispatchTag.
	TagField string
	Dispatch Dispatch
	Cases    []Case
	Caps     Caps
	Examples []string
}

// Case is one alternative of a TaggedUnion.
type Case struct {
	Name    string
	Payload []Slot
	// RenameFrom is the wire tag or operator when it differs from Name.
	RenameFrom string
	Doc        string
	// Value is the encoded discriminant for DispatchNumber.
	Value int
}

// Wire returns the tag the case has in the encoded document.
func (c Case) Wire() string {
	if c.RenameFrom != "" {
		return c.RenameFrom
	}
	return c.Name
}

// Slot is one payload element of a case.
type Slot struct {
	Name string
	Type TypeRef
}

// DefaultValueProvider declares the default value of TypeName.
type DefaultValueProvider struct {
	TypeName string
	Value    Literal
}

// CustomDecoder declares how the operator union TypeName decodes the
// elements that follow the operator. Branches are rendered as given; a
// backend does not interpret the steps.
type CustomDecoder struct {
	TypeName string
	Branches []Branch
	// Fallback runs when no branch matches the operator.
	Fallback []Step
}

// Branch decodes one case of an operator union.
type Branch struct {
	Wire  string
	Case  string
	Steps []Step
}

func (r *Record) DeclName() string               { return r.Name }
func (u *TaggedUnion) DeclName() string          { return u.Name }
func (d *DefaultValueProvider) DeclName() string { return d.TypeName }
func (c *CustomDecoder) DeclName() string        { return c.TypeName }

func (*Record) declaration()               {}
func (*TaggedUnion) declaration()          {}
func (*DefaultValueProvider) declaration() {}
func (*CustomDecoder) declaration()        {}

// Index maps type names to their Record or TaggedUnion.
func Index(decls []Declaration) map[string]Declaration {
	idx := make(map[string]Declaration, len(decls))
	for _, d := range decls {
		switch d.(type) {
		case *Record, *TaggedUnion:
			idx[d.DeclName()] = d
		}
	}
	return idx
}

// Kind returns a short label for a declaration's variant.
func Kind(d Declaration) string {
	switch d.(type) {
	case *Record:
		return "record"
	case *TaggedUnion:
		return "union"
	case *DefaultValueProvider:
		return "default"
	case *CustomDecoder:
		return "decoder"
	default:
		return strings.ToLower(fmt.Sprintf("%T", d))
	}
}
