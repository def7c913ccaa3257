// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package schema holds the intermediate model of a reference document and
// the decoder that builds it.
//
// A reference document is a mapping with a version, a root record and any
// number of named entries. Each named entry is a single node, a group of
// nodes (a record) or a one-of union over other entries. Nodes carry a kind
// from a closed set; the decoder rejects fields a kind does not declare.
package schema

import (
	"fmt"
	"sort"

	"github.com/dacolabs/refgen/internal/document"
)

// SupportedVersion is the only reference document version refgen reads.
const SupportedVersion = 8

// Document is the decoded reference document.
type Document struct {
	Version int     `yaml:"version" json:"version"`
	Root    []Field `yaml:"root" json:"root"`
	// Named is sorted by entry name.
	Named []Entry `yaml:"named" json:"named"`
}

// Lookup returns the named entry called name.
func (d *Document) Lookup(name string) (*Entry, bool) {
	i := sort.Search(len(d.Named), func(i int) bool { return d.Named[i].Name >= name })
	if i < len(d.Named) && d.Named[i].Name == name {
		return &d.Named[i], true
	}
	return nil, false
}

// EntryKind is the shape of a named entry.
type EntryKind int

// Entry kinds, in structural trial order.
const (
	EntrySingle EntryKind = iota
	EntryGroup
	EntryOneOf
)

func (k EntryKind) String() string {
	switch k {
	case EntrySingle:
		return "single"
	case EntryGroup:
		return "group"
	case EntryOneOf:
		return "one-of"
	default:
		return fmt.Sprintf("entry(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EntryKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Entry is one named entry of the document.
type Entry struct {
	Name string    `yaml:"name" json:"name"`
	Kind EntryKind `yaml:"kind" json:"kind"`
	// Node is set for EntrySingle.
	Node *Node `yaml:"node,omitempty" json:"node,omitempty"`
	// Fields is set for EntryGroup, in document order.
	Fields []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
	// Members is set for EntryOneOf.
	Members []string `yaml:"members,omitempty" json:"members,omitempty"`
}

// Field is one member of a group or of the root record.
type Field struct {
	Key  string `yaml:"key" json:"key"`
	Node *Node  `yaml:"node" json:"node"`
}

// Node is one schema element: a primitive of some Kind, or a reference to a
// named entry when Kind is KindReference.
type Node struct {
	Kind   Kind   `yaml:"kind" json:"kind"`
	Target string `yaml:"target,omitempty" json:"target,omitempty"`
	Common `yaml:",inline"`

	Default *document.Value `yaml:"default,omitempty" json:"default,omitempty"`
	// Minimum, Maximum and Period hold number literals; empty means unset.
	Minimum string      `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum string      `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	Period  string      `yaml:"period,omitempty" json:"period,omitempty"`
	Values  *EnumValues `yaml:"values,omitempty" json:"values,omitempty"`
	Value   *ArrayValue `yaml:"value,omitempty" json:"value,omitempty"`
	Length  int         `yaml:"length,omitempty" json:"length,omitempty"`
	Tokens  *bool       `yaml:"tokens,omitempty" json:"tokens,omitempty"`
}

// IsEnumTag reports whether n is an enum with exactly one possible value,
// returning that value. Such a field can identify a union member.
func (n *Node) IsEnumTag() (string, bool) {
	if n == nil || n.Kind != KindEnum || n.Values == nil || n.Values.Kind != ValuesEnum {
		return "", false
	}
	if len(n.Values.Entries) != 1 {
		return "", false
	}
	return n.Values.Entries[0].Key, true
}

// Common holds the fields every node may carry.
type Common struct {
	Doc          string          `yaml:"doc,omitempty" json:"doc,omitempty"`
	Example      *document.Value `yaml:"example,omitempty" json:"example,omitempty"`
	Units        string          `yaml:"units,omitempty" json:"units,omitempty"`
	Expression   *Interpolation  `yaml:"expression,omitempty" json:"expression,omitempty"`
	PropertyType PropertyType    `yaml:"property_type,omitempty" json:"property_type,omitempty"`
	Required     bool            `yaml:"required,omitempty" json:"required,omitempty"`
	Overridable  bool            `yaml:"overridable,omitempty" json:"overridable,omitempty"`
	Transition   bool            `yaml:"transition,omitempty" json:"transition,omitempty"`
	Requires     []Requirement   `yaml:"requires,omitempty" json:"requires,omitempty"`
}

// Interpolation describes how a property behaves inside expressions.
type Interpolation struct {
	Interpolated bool     `yaml:"interpolated" json:"interpolated"`
	Parameters   []string `yaml:"parameters" json:"parameters"`
}

// PropertyType classifies how a property value may vary.
type PropertyType string

// Property classifications.
const (
	PropertyColorRamp            PropertyType = "color-ramp"
	PropertyConstant             PropertyType = "constant"
	PropertyCrossFaded           PropertyType = "cross-faded"
	PropertyCrossFadedDataDriven PropertyType = "cross-faded-data-driven"
	PropertyDataConstant         PropertyType = "data-constant"
	PropertyDataDriven           PropertyType = "data-driven"
)

var propertyTypes = map[PropertyType]bool{
	PropertyColorRamp:            true,
	PropertyConstant:             true,
	PropertyCrossFaded:           true,
	PropertyCrossFadedDataDriven: true,
	PropertyDataConstant:         true,
	PropertyDataDriven:           true,
}

// Requirement is a precondition for a property to take effect: either
// another key exists (Exists), or other keys hold given values (Equals).
type Requirement struct {
	Exists string            `yaml:"exists,omitempty" json:"exists,omitempty"`
	Equals []document.Member `yaml:"equals,omitempty" json:"equals,omitempty"`
}

// ValuesKind is the shape of an enum's values.
type ValuesKind int

// Enum value shapes, in structural trial order.
const (
	ValuesVersion ValuesKind = iota
	ValuesEnum
	ValuesOperation
)

func (k ValuesKind) String() string {
	switch k {
	case ValuesVersion:
		return "version"
	case ValuesEnum:
		return "enum"
	case ValuesOperation:
		return "operation"
	default:
		return fmt.Sprintf("values(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ValuesKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// EnumValues lists the admissible values of an enum node.
type EnumValues struct {
	Kind ValuesKind `yaml:"kind" json:"kind"`
	// Versions holds number literals, in document order.
	Versions   []string    `yaml:"versions,omitempty" json:"versions,omitempty"`
	Entries    []EnumEntry `yaml:"entries,omitempty" json:"entries,omitempty"`
	Operations []Operation `yaml:"operations,omitempty" json:"operations,omitempty"`
}

// EnumEntry is one named enum value.
type EnumEntry struct {
	Key string `yaml:"key" json:"key"`
	Doc string `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// Operation is one callable, array-encoded value such as ["get", "name"].
type Operation struct {
	Name       string          `yaml:"name" json:"name"`
	Doc        string          `yaml:"doc,omitempty" json:"doc,omitempty"`
	Group      string          `yaml:"group,omitempty" json:"group,omitempty"`
	Example    *document.Value `yaml:"example,omitempty" json:"example,omitempty"`
	Overloads  []Overload      `yaml:"overloads" json:"overloads"`
	Parameters []Parameter     `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	// Source is the operation as written, kept for error reports.
	Source *document.Value `yaml:"-" json:"-"`
}

// Overload is one admissible call shape of an operation.
type Overload struct {
	Parameters []string      `yaml:"parameters" json:"parameters"`
	Output     ParameterType `yaml:"output" json:"output"`
}

// Parameter describes a parameter named in overloads.
type Parameter struct {
	Name string        `yaml:"name" json:"name"`
	Type ParameterType `yaml:"type" json:"type"`
	Doc  string        `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// ArrayValueKind is the shape of an array's element description.
type ArrayValueKind int

// Array element shapes, in structural trial order.
const (
	ArraySimple ArrayValueKind = iota
	ArrayEither
	ArrayComplex
)

func (k ArrayValueKind) String() string {
	switch k {
	case ArraySimple:
		return "simple"
	case ArrayEither:
		return "either"
	case ArrayComplex:
		return "complex"
	default:
		return fmt.Sprintf("array(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ArrayValueKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ArrayValue describes the element type of an array node.
type ArrayValue struct {
	Kind  ArrayValueKind `yaml:"kind" json:"kind"`
	Name  string         `yaml:"name,omitempty" json:"name,omitempty"`
	Names []string       `yaml:"names,omitempty" json:"names,omitempty"`
	Node  *Node          `yaml:"node,omitempty" json:"node,omitempty"`
}
