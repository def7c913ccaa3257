// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"strconv"

	"github.com/dacolabs/refgen/internal/document"
	"github.com/dacolabs/refgen/internal/refgenerr"
)

// decodeValues resolves an enum's values by structural trial: a list of
// version numbers, then a mapping of documented names, then a mapping of
// operations.
func decodeValues(path string, v *document.Value) (*EnumValues, error) {
	var attempts []refgenerr.Attempt

	versions, err := decodeVersions(path, v)
	if err == nil {
		return &EnumValues{Kind: ValuesVersion, Versions: versions}, nil
	}
	attempts = append(attempts, refgenerr.Attempt{Shape: ValuesVersion.String(), Err: err})

	entries, err := decodeEnumEntries(path, v)
	if err == nil {
		return &EnumValues{Kind: ValuesEnum, Entries: entries}, nil
	}
	attempts = append(attempts, refgenerr.Attempt{Shape: ValuesEnum.String(), Err: err})

	ops, err := decodeOperations(path, v)
	if err == nil {
		return &EnumValues{Kind: ValuesOperation, Operations: ops}, nil
	}
	attempts = append(attempts, refgenerr.Attempt{Shape: ValuesOperation.String(), Err: err})

	return nil, refgenerr.NoShape(path, attempts)
}

func decodeVersions(path string, v *document.Value) ([]string, error) {
	if v.Kind != document.Array {
		return nil, refgenerr.Decodef(path, "expected list of numbers, got %s", v.Kind)
	}
	versions := make([]string, len(v.Items))
	for i, item := range v.Items {
		if item.Kind != document.Number {
			return nil, refgenerr.Decodef(path+"["+strconv.Itoa(i)+"]", "expected number, got %s", item.Kind)
		}
		versions[i] = item.Text
	}
	return versions, nil
}

func decodeEnumEntries(path string, v *document.Value) ([]EnumEntry, error) {
	if v.Kind != document.Object {
		return nil, refgenerr.Decodef(path, "expected object, got %s", v.Kind)
	}
	entries := make([]EnumEntry, 0, len(v.Members))
	for _, m := range v.Members {
		o, err := asObject(join(path, m.Key), m.Value)
		if err != nil {
			return nil, err
		}
		doc, err := o.str("doc", false)
		if err != nil {
			return nil, err
		}
		o.skip("sdk-support")
		if err := o.done(); err != nil {
			return nil, err
		}
		entries = append(entries, EnumEntry{Key: m.Key, Doc: doc})
	}
	return entries, nil
}

func decodeOperations(path string, v *document.Value) ([]Operation, error) {
	if v.Kind != document.Object {
		return nil, refgenerr.Decodef(path, "expected object, got %s", v.Kind)
	}
	ops := make([]Operation, 0, len(v.Members))
	for _, m := range v.Members {
		op, err := decodeOperation(join(path, m.Key), m.Key, m.Value)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func decodeOperation(path, name string, v *document.Value) (Operation, error) {
	op := Operation{Name: name, Source: v}

	o, err := asObject(path, v)
	if err != nil {
		return op, err
	}
	if op.Doc, err = o.str("doc", false); err != nil {
		return op, err
	}
	if op.Group, err = o.str("group", false); err != nil {
		return op, err
	}
	if op.Example, err = o.value("example", document.Null, false); err != nil {
		return op, err
	}
	o.skip("sdk-support")

	syntax, err := o.value("syntax", document.Object, true)
	if err != nil {
		return op, err
	}
	if err := o.done(); err != nil {
		return op, err
	}

	so, err := asObject(o.child("syntax"), syntax)
	if err != nil {
		return op, err
	}

	overloads, err := so.value("overloads", document.Array, true)
	if err != nil {
		return op, err
	}
	if len(overloads.Items) == 0 {
		return op, refgenerr.Decodef(so.child("overloads"), "at least one overload is required")
	}
	for i, item := range overloads.Items {
		ov, err := decodeOverload(so.child("overloads")+"["+strconv.Itoa(i)+"]", item)
		if err != nil {
			return op, err
		}
		op.Overloads = append(op.Overloads, ov)
	}

	params, err := so.value("parameters", document.Array, false)
	if err != nil {
		return op, err
	}
	if params != nil {
		for i, item := range params.Items {
			p, err := decodeParameter(so.child("parameters")+"["+strconv.Itoa(i)+"]", item)
			if err != nil {
				return op, err
			}
			op.Parameters = append(op.Parameters, p)
		}
	}

	return op, so.done()
}

func decodeOverload(path string, v *document.Value) (Overload, error) {
	var ov Overload
	o, err := asObject(path, v)
	if err != nil {
		return ov, err
	}

	params, err := o.value("parameters", document.Array, true)
	if err != nil {
		return ov, err
	}
	if ov.Parameters, err = decodeNames(o.child("parameters"), params); err != nil {
		return ov, err
	}

	output, err := o.value("output-type", document.Null, true)
	if err != nil {
		return ov, err
	}
	if ov.Output, err = decodeParameterType(o.child("output-type"), output); err != nil {
		return ov, err
	}
	return ov, o.done()
}

func decodeParameter(path string, v *document.Value) (Parameter, error) {
	var p Parameter
	o, err := asObject(path, v)
	if err != nil {
		return p, err
	}
	if p.Name, err = o.str("name", true); err != nil {
		return p, err
	}

	typ, err := o.value("type", document.Null, true)
	if err != nil {
		return p, err
	}
	if p.Type, err = decodeParameterType(o.child("type"), typ); err != nil {
		return p, err
	}

	if p.Doc, err = o.str("doc", false); err != nil {
		return p, err
	}
	if p.Doc == "" {
		if p.Doc, err = o.str("description", false); err != nil {
			return p, err
		}
	} else {
		o.skip("description")
	}
	return p, o.done()
}

// decodeArrayValue resolves an array's element description: a single type
// name, a list of alternative names, or a full node.
func decodeArrayValue(path string, v *document.Value) (*ArrayValue, error) {
	switch v.Kind {
	case document.String:
		return &ArrayValue{Kind: ArraySimple, Name: v.Text}, nil
	case document.Array:
		names, err := decodeNames(path, v)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, refgenerr.Decodef(path, "empty list of element types")
		}
		return &ArrayValue{Kind: ArrayEither, Names: names}, nil
	case document.Object:
		node, err := decodeNode(path, v)
		if err != nil {
			return nil, err
		}
		return &ArrayValue{Kind: ArrayComplex, Node: node}, nil
	default:
		return nil, refgenerr.NoShape(path, []refgenerr.Attempt{
			{Shape: ArraySimple.String(), Err: refgenerr.Newf("expected string, got %s", v.Kind)},
			{Shape: ArrayEither.String(), Err: refgenerr.Newf("expected list, got %s", v.Kind)},
			{Shape: ArrayComplex.String(), Err: refgenerr.Newf("expected object, got %s", v.Kind)},
		})
	}
}
