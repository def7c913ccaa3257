// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dacolabs/refgen/internal/document"
	"github.com/dacolabs/refgen/internal/refgenerr"
)

// ParamKind is the shape of a ParameterType.
type ParamKind int

// Parameter type shapes, in structural trial order.
const (
	ParamLiteral ParamKind = iota
	ParamLiteralAnyOf
	ParamExpression
	ParamExpressionAnyOf
	ParamObject
	ParamReference
)

func (k ParamKind) String() string {
	switch k {
	case ParamLiteral:
		return "literal"
	case ParamLiteralAnyOf:
		return "literal-any-of"
	case ParamExpression:
		return "expression"
	case ParamExpressionAnyOf:
		return "expression-any-of"
	case ParamObject:
		return "object"
	case ParamReference:
		return "reference"
	default:
		return fmt.Sprintf("param(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ParamKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ParameterType is the declared type of an operation parameter or of an
// overload's output.
type ParameterType struct {
	Kind ParamKind `yaml:"kind" json:"kind"`
	// Name is the literal kind, the expression type or the reference target.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Elem and Length describe array<T, N> expression types.
	Elem    *ParameterType   `yaml:"elem,omitempty" json:"elem,omitempty"`
	Length  int              `yaml:"length,omitempty" json:"length,omitempty"`
	Options []ParameterType  `yaml:"options,omitempty" json:"options,omitempty"`
	Fields  []ParameterField `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// ParameterField is one member of an object parameter type.
type ParameterField struct {
	Key  string        `yaml:"key" json:"key"`
	Type ParameterType `yaml:"type" json:"type"`
}

// String renders the type the way a document spells it.
func (p ParameterType) String() string {
	switch p.Kind {
	case ParamLiteral:
		return p.Name + " literal"
	case ParamLiteralAnyOf, ParamExpressionAnyOf:
		opts := make([]string, len(p.Options))
		for i, o := range p.Options {
			opts[i] = o.String()
		}
		return strings.Join(opts, " | ")
	case ParamExpression:
		if p.Elem == nil {
			return p.Name
		}
		if p.Length > 0 {
			return fmt.Sprintf("array<%s, %d>", p.Elem, p.Length)
		}
		return fmt.Sprintf("array<%s>", p.Elem)
	case ParamObject:
		fields := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			fields[i] = f.Key + ": " + f.Type.String()
		}
		return "{" + strings.Join(fields, ", ") + "}"
	default:
		return p.Name
	}
}

// expressionTypes are the value types an expression can evaluate to.
var expressionTypes = map[string]bool{
	"any": true, "array": true, "boolean": true, "collator": true, "color": true,
	"colorArray": true, "error": true, "expression": true, "formatted": true,
	"image": true, "interpolation": true, "null": true, "number": true,
	"numberArray": true, "object": true, "padding": true, "projectionDefinition": true,
	"resolvedImage": true, "string": true, "T": true, "type": true, "value": true,
	"variableAnchorOffsetCollection": true,
	"JSON object": true, "JSON array": true, "GeoJSON object": true,
}

var arrayTypePattern = regexp.MustCompile(`^array<\s*(.+?)\s*(?:,\s*(\d+)\s*)?>$`)

const literalSuffix = " literal"

func decodeParameterType(path string, v *document.Value) (ParameterType, error) {
	var attempts []refgenerr.Attempt
	fail := func(shape ParamKind, format string, args ...any) {
		attempts = append(attempts, refgenerr.Attempt{Shape: shape.String(), Err: refgenerr.Newf(format, args...)})
	}

	if lit, ok := parseLiteral(v); ok {
		return lit, nil
	}
	fail(ParamLiteral, "not a string ending in %q", literalSuffix)

	if opts, ok := parseList(v, parseLiteral); ok {
		return ParameterType{Kind: ParamLiteralAnyOf, Options: opts}, nil
	}
	fail(ParamLiteralAnyOf, "not a non-empty list of literals")

	if expr, ok := parseExpression(v); ok {
		return expr, nil
	}
	fail(ParamExpression, "not a known expression type")

	if opts, ok := parseList(v, parseExpression); ok {
		return ParameterType{Kind: ParamExpressionAnyOf, Options: opts}, nil
	}
	fail(ParamExpressionAnyOf, "not a non-empty list of expression types")

	if v.Kind == document.Object {
		obj := ParameterType{Kind: ParamObject}
		for _, m := range v.Members {
			ft, err := decodeParameterType(join(path, m.Key), m.Value)
			if err != nil {
				return ParameterType{}, err
			}
			obj.Fields = append(obj.Fields, ParameterField{Key: m.Key, Type: ft})
		}
		return obj, nil
	}
	fail(ParamObject, "expected object, got %s", v.Kind)

	if v.Kind == document.String && v.Text != "" {
		return ParameterType{Kind: ParamReference, Name: v.Text}, nil
	}
	fail(ParamReference, "expected type name, got %s", v.Kind)

	return ParameterType{}, refgenerr.NoShape(path, attempts)
}

func parseLiteral(v *document.Value) (ParameterType, bool) {
	if v.Kind != document.String || !strings.HasSuffix(v.Text, literalSuffix) {
		return ParameterType{}, false
	}
	name := strings.TrimSuffix(v.Text, literalSuffix)
	if name == "" {
		return ParameterType{}, false
	}
	return ParameterType{Kind: ParamLiteral, Name: name}, true
}

func parseExpression(v *document.Value) (ParameterType, bool) {
	if v.Kind != document.String {
		return ParameterType{}, false
	}
	return parseExpressionType(v.Text)
}

func parseExpressionType(s string) (ParameterType, bool) {
	if m := arrayTypePattern.FindStringSubmatch(s); m != nil {
		elem, ok := parseExpressionType(m[1])
		if !ok {
			return ParameterType{}, false
		}
		pt := ParameterType{Kind: ParamExpression, Name: "array", Elem: &elem}
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil || n == 0 {
				return ParameterType{}, false
			}
			pt.Length = n
		}
		return pt, true
	}
	if expressionTypes[s] {
		return ParameterType{Kind: ParamExpression, Name: s}, true
	}
	return ParameterType{}, false
}

func parseList(v *document.Value, item func(*document.Value) (ParameterType, bool)) ([]ParameterType, bool) {
	if v.Kind != document.Array || len(v.Items) == 0 {
		return nil, false
	}
	opts := make([]ParameterType, 0, len(v.Items))
	for _, it := range v.Items {
		pt, ok := item(it)
		if !ok {
			return nil, false
		}
		opts = append(opts, pt)
	}
	return opts, true
}
