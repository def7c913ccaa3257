// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"fmt"
	"strconv"
)

// Builtin is a primitive type every backend maps natively.
type Builtin string

// Builtins.
const (
	Number Builtin = "number"
	String Builtin = "string"
	Bool   Builtin = "bool"
	Color  Builtin = "color"
	// Value is any encoded value, kept undecoded.
	Value Builtin = "value"
)

// TypeKind is the shape of a TypeRef.
type TypeKind int

// Type shapes.
const (
	TypeNamed TypeKind = iota
	TypeBuiltin
	TypeOptional
	TypeList
	TypeArray
	TypeMap
)

// TypeRef refers to a type from a field, slot or step.
type TypeRef struct {
	Kind    TypeKind
	Name    string
	Builtin Builtin
	Elem    *TypeRef
	Length  int
}

// Named refers to a declared type.
func Named(name string) TypeRef { return TypeRef{Kind: TypeNamed, Name: name} }

// Prim refers to a builtin type.
func Prim(b Builtin) TypeRef { return TypeRef{Kind: TypeBuiltin, Builtin: b} }

// Optional wraps t as possibly absent.
func Optional(t TypeRef) TypeRef { return TypeRef{Kind: TypeOptional, Elem: &t} }

// List is a variable-length sequence of t.
func List(t TypeRef) TypeRef { return TypeRef{Kind: TypeList, Elem: &t} }

// Array is a sequence of exactly n elements of t.
func Array(t TypeRef, n int) TypeRef { return TypeRef{Kind: TypeArray, Elem: &t, Length: n} }

// Map is a string-keyed mapping to t.
func Map(t TypeRef) TypeRef { return TypeRef{Kind: TypeMap, Elem: &t} }

// String renders t in a backend-neutral notation.
func (t TypeRef) String() string {
	switch t.Kind {
	case TypeNamed:
		return t.Name
	case TypeBuiltin:
		return string(t.Builtin)
	case TypeOptional:
		return "optional<" + t.Elem.String() + ">"
	case TypeList:
		return "list<" + t.Elem.String() + ">"
	case TypeArray:
		return "array<" + t.Elem.String() + ", " + strconv.Itoa(t.Length) + ">"
	case TypeMap:
		return "map<" + t.Elem.String() + ">"
	default:
		return fmt.Sprintf("type(%d)", int(t.Kind))
	}
}

// Names calls fn for every declared type name t refers to. The zero
// TypeRef refers to nothing.
func (t TypeRef) Names(fn func(string)) {
	switch t.Kind {
	case TypeNamed:
		if t.Name != "" {
			fn(t.Name)
		}
	case TypeOptional, TypeList, TypeArray, TypeMap:
		t.Elem.Names(fn)
	}
}

// LiteralKind is the shape of a Literal.
type LiteralKind int

// Literal shapes.
const (
	LitNumber LiteralKind = iota
	LitString
	LitBool
	LitList
	// LitCase selects a union case, with an optional single payload.
	LitCase
	// LitJSON is an encoded value for a Value-typed target.
	LitJSON
)

// Literal is a backend-neutral constant expression.
type Literal struct {
	Kind    LiteralKind
	Text    string
	Bool    bool
	Items   []Literal
	Case    string
	Payload *Literal
}

func (l Literal) String() string {
	switch l.Kind {
	case LitNumber, LitJSON:
		return l.Text
	case LitString:
		return strconv.Quote(l.Text)
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitList:
		s := "["
		for i, it := range l.Items {
			if i > 0 {
				s += ", "
			}
			s += it.String()
		}
		return s + "]"
	case LitCase:
		if l.Payload != nil {
			return l.Case + "(" + l.Payload.String() + ")"
		}
		return l.Case
	default:
		return fmt.Sprintf("literal(%d)", int(l.Kind))
	}
}

// StepOp is a primitive decoding operation.
type StepOp int

// Decoding operations.
const (
	// OpReadNext reads the next element into Slot, or leaves it empty when
	// the sequence is exhausted.
	OpReadNext StepOp = iota
	// OpReadNextOrFail reads the next element into Slot, failing with Field
	// when the sequence is exhausted.
	OpReadNextOrFail
	// OpReadRest decodes every remaining element into the positional union
	// named Union.
	OpReadRest
	// OpConstruct builds Case from the Args slots. The sequence must be
	// exhausted.
	OpConstruct
	// OpFail aborts decoding with Message.
	OpFail
	// OpCollect repeats Body while more than Reserve elements remain,
	// appending one element per repetition to Slot. Fewer than Min
	// repetitions is an error. A repetition binding several slots is
	// bundled into the record named Bundle.
	OpCollect
)

func (op StepOp) String() string {
	switch op {
	case OpReadNext:
		return "read-next-element"
	case OpReadNextOrFail:
		return "read-next-element-or-fail"
	case OpReadRest:
		return "read-rest-of-sequence-into"
	case OpConstruct:
		return "construct-case"
	case OpFail:
		return "fail"
	case OpCollect:
		return "collect"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// Step is one decoding operation with its operands.
type Step struct {
	Op      StepOp
	Slot    string
	Field   string
	Type    TypeRef
	Union   string
	Case    string
	Args    []string
	Message string
	Body    []Step
	Min     int
	Reserve int
	Bundle  string
}

// String renders the step as "op(operands)".
func (s Step) String() string {
	switch s.Op {
	case OpReadNext:
		return fmt.Sprintf("%s(%s: %s)", s.Op, s.Slot, s.Type)
	case OpReadNextOrFail:
		return fmt.Sprintf("%s(%s: %s, %q)", s.Op, s.Slot, s.Type, s.Field)
	case OpReadRest:
		return fmt.Sprintf("%s(%s: %s)", s.Op, s.Slot, s.Union)
	case OpConstruct:
		return fmt.Sprintf("%s(%s, %v)", s.Op, s.Case, s.Args)
	case OpFail:
		return fmt.Sprintf("%s(%q)", s.Op, s.Message)
	case OpCollect:
		return fmt.Sprintf("%s(%s, min=%d, reserve=%d, bundle=%s, %d steps)", s.Op, s.Slot, s.Min, s.Reserve, s.Bundle, len(s.Body))
	default:
		return s.Op.String()
	}
}
