// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"sort"
	"strconv"

	"github.com/dacolabs/refgen/internal/document"
	"github.com/dacolabs/refgen/internal/refgenerr"
)

// Parse reads a JSON or YAML reference document and decodes it. The format
// is chosen by the extension of name.
func Parse(name string, data []byte) (*Document, error) {
	v, err := document.Parse(name, data)
	if err != nil {
		return nil, &refgenerr.DecodeError{Reason: err.Error()}
	}
	return Decode(v)
}

// Decode builds the intermediate model of a parsed reference document.
// Every failure is a *refgenerr.DecodeError.
func Decode(v *document.Value) (*Document, error) {
	top, err := asObject("", v)
	if err != nil {
		return nil, err
	}

	versionKey, versionVal, err := pickAlias(top, "version", "$version")
	if err != nil {
		return nil, err
	}
	version, err := decodeVersion(versionKey, versionVal)
	if err != nil {
		return nil, err
	}

	rootKey, rootVal, err := pickAlias(top, "root", "$root")
	if err != nil {
		return nil, err
	}
	rootObj, err := asObject(rootKey, rootVal)
	if err != nil {
		return nil, err
	}
	root, err := decodeFields(rootObj)
	if err != nil {
		return nil, err
	}

	doc := &Document{Version: version, Root: root}
	for _, m := range v.Members {
		if top.used[m.Key] {
			continue
		}
		entry, err := decodeEntry(m.Key, m.Value)
		if err != nil {
			return nil, err
		}
		doc.Named = append(doc.Named, entry)
	}
	sort.Slice(doc.Named, func(i, j int) bool { return doc.Named[i].Name < doc.Named[j].Name })

	return doc, nil
}

// pickAlias returns the member stored under either spelling of a required
// top-level key. Giving both spellings is an error.
func pickAlias(o *object, name, alias string) (string, *document.Value, error) {
	v, ok := o.take(name)
	av, aok := o.take(alias)
	switch {
	case ok && aok:
		return "", nil, refgenerr.Decodef(name, "both %q and %q given", name, alias)
	case ok:
		return name, v, nil
	case aok:
		return alias, av, nil
	default:
		return "", nil, refgenerr.Decodef(name, "missing required field")
	}
}

func decodeVersion(path string, v *document.Value) (int, error) {
	if v.Kind != document.Number {
		return 0, refgenerr.Decodef(path, "expected integer, got %s", v.Kind)
	}
	n, err := strconv.Atoi(v.Text)
	if err != nil {
		return 0, refgenerr.Decodef(path, "expected integer, got %s", v.Text)
	}
	if n != SupportedVersion {
		return 0, refgenerr.Decodef(path, "unsupported version %d, want %d", n, SupportedVersion)
	}
	return n, nil
}

// decodeEntry resolves a named entry by structural trial: a single node,
// then a group of nodes, then a one-of list.
func decodeEntry(name string, v *document.Value) (Entry, error) {
	var attempts []refgenerr.Attempt

	node, err := decodeNode(name, v)
	if err == nil {
		return Entry{Name: name, Kind: EntrySingle, Node: node}, nil
	}
	attempts = append(attempts, refgenerr.Attempt{Shape: EntrySingle.String(), Err: err})

	obj, err := asObject(name, v)
	if err == nil {
		var fields []Field
		if fields, err = decodeFields(obj); err == nil {
			return Entry{Name: name, Kind: EntryGroup, Fields: fields}, nil
		}
	}
	attempts = append(attempts, refgenerr.Attempt{Shape: EntryGroup.String(), Err: err})

	members, err := decodeNames(name, v)
	if err == nil {
		if len(members) == 0 {
			err = refgenerr.Decodef(name, "one-of needs at least one member")
		} else {
			return Entry{Name: name, Kind: EntryOneOf, Members: members}, nil
		}
	}
	attempts = append(attempts, refgenerr.Attempt{Shape: EntryOneOf.String(), Err: err})

	return Entry{}, refgenerr.NoShape(name, attempts)
}

func decodeFields(o *object) ([]Field, error) {
	fields := make([]Field, 0, len(o.v.Members))
	for _, m := range o.v.Members {
		o.skip(m.Key)
		node, err := decodeNode(o.child(m.Key), m.Value)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: m.Key, Node: node})
	}
	return fields, nil
}

func decodeNames(path string, v *document.Value) ([]string, error) {
	if v == nil || v.Kind != document.Array {
		return nil, refgenerr.Decodef(path, "expected list of names, got %s", kindOf(v))
	}
	names := make([]string, len(v.Items))
	for i, item := range v.Items {
		if item.Kind != document.String {
			return nil, refgenerr.Decodef(path+"["+strconv.Itoa(i)+"]", "expected string, got %s", item.Kind)
		}
		names[i] = item.Text
	}
	return names, nil
}

// decodeNode reads one node. A "type" naming a known Kind is decoded
// strictly against that kind's attributes; any other "type" makes the node
// a reference to the named entry it spells.
func decodeNode(path string, v *document.Value) (*Node, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	typ, err := o.str("type", true)
	if err != nil {
		return nil, err
	}

	n := &Node{}
	if kind, ok := ParseKind(typ); ok {
		n.Kind = kind
	} else {
		n.Kind = KindReference
		n.Target = typ
	}

	if n.Kind == KindPropertyType {
		// metadata only; its shape is not ours to enforce
		for _, m := range o.v.Members {
			o.skip(m.Key)
		}
		return n, nil
	}

	if n.Common, err = decodeCommon(o); err != nil {
		return nil, err
	}
	if err := decodeAttributes(o, n); err != nil {
		return nil, err
	}
	if err := o.done(); err != nil {
		return nil, err
	}
	return n, nil
}

// decodeAttributes reads the fields specific to n.Kind.
func decodeAttributes(o *object, n *Node) error {
	var err error
	switch n.Kind {
	case KindReference, KindColor:
		n.Default, err = o.value("default", document.Null, false)
	case KindNumber:
		if n.Default, err = o.value("default", document.Number, false); err != nil {
			return err
		}
		return decodeRange(o, n, true)
	case KindEnum:
		values, ok := o.take("values")
		if !ok {
			return refgenerr.Decodef(o.path, "missing required field %q", "values")
		}
		if n.Values, err = decodeValues(o.child("values"), values); err != nil {
			return err
		}
		n.Default, err = o.value("default", document.Null, false)
	case KindArray:
		value, ok := o.take("value")
		if !ok {
			return refgenerr.Decodef(o.path, "missing required field %q", "value")
		}
		if n.Value, err = decodeArrayValue(o.child("value"), value); err != nil {
			return err
		}
		if values, ok := o.take("values"); ok {
			if n.Values, err = decodeValues(o.child("values"), values); err != nil {
				return err
			}
		}
		if n.Default, err = o.value("default", document.Array, false); err != nil {
			return err
		}
		if n.Length, err = o.count("length"); err != nil {
			return err
		}
		return decodeRange(o, n, false)
	case KindString:
		n.Default, err = o.value("default", document.String, false)
	case KindBoolean:
		n.Default, err = o.value("default", document.Bool, false)
	case KindResolvedImage:
		err = decodeTokens(o, n, false)
	case KindNumberArray:
		if n.Default, err = o.value("default", document.Number, false); err != nil {
			return err
		}
		return decodeRange(o, n, false)
	case KindColorArray:
		n.Default, err = o.value("default", document.String, false)
	case KindState:
		n.Default, err = o.value("default", document.Null, true)
	case KindPadding:
		if n.Default, err = o.value("default", document.Array, true); err != nil {
			return err
		}
		for i, item := range n.Default.Items {
			if item.Kind != document.Number {
				return refgenerr.Decodef(o.child("default")+"["+strconv.Itoa(i)+"]", "expected number, got %s", item.Kind)
			}
		}
	case KindFormatted:
		if err = decodeTokens(o, n, true); err != nil {
			return err
		}
		n.Default, err = o.value("default", document.String, true)
	case KindProjectionDefinition:
		n.Default, err = o.value("default", document.String, true)
	case KindAny, KindVariableAnchorOffsetCollection, KindTransition, KindTerrain,
		KindPaint, KindLight, KindLayout, KindFilter, KindExpression, KindSprite,
		KindPromoteID, KindSources, KindSource, KindSky, KindProjection, KindFontFaces:
		// common fields only
	default:
		return refgenerr.Decodef(o.path, "unhandled kind %s", n.Kind)
	}
	return err
}

func decodeRange(o *object, n *Node, withPeriod bool) error {
	var err error
	if n.Minimum, err = o.number("minimum"); err != nil {
		return err
	}
	if n.Maximum, err = o.number("maximum"); err != nil {
		return err
	}
	if withPeriod {
		n.Period, err = o.number("period")
	}
	return err
}

func decodeTokens(o *object, n *Node, required bool) error {
	v, err := o.value("tokens", document.Bool, required)
	if err != nil || v == nil {
		return err
	}
	tokens := v.Bool
	n.Tokens = &tokens
	return nil
}

func decodeCommon(o *object) (Common, error) {
	var c Common
	var err error

	if c.Doc, err = o.str("doc", false); err != nil {
		return c, err
	}
	if c.Example, err = o.value("example", document.Null, false); err != nil {
		return c, err
	}
	if c.Units, err = o.str("units", false); err != nil {
		return c, err
	}
	if c.Required, err = o.boolean("required"); err != nil {
		return c, err
	}
	if c.Overridable, err = o.boolean("overridable"); err != nil {
		return c, err
	}
	if c.Transition, err = o.boolean("transition"); err != nil {
		return c, err
	}

	pt, err := o.str("property-type", false)
	if err != nil {
		return c, err
	}
	if pt != "" && !propertyTypes[PropertyType(pt)] {
		return c, refgenerr.Decodef(o.child("property-type"), "unknown property type %q", pt)
	}
	c.PropertyType = PropertyType(pt)

	if v, ok := o.take("expression"); ok {
		if c.Expression, err = decodeInterpolation(o.child("expression"), v); err != nil {
			return c, err
		}
	}
	if v, ok := o.take("requires"); ok {
		if c.Requires, err = decodeRequirements(o.child("requires"), v); err != nil {
			return c, err
		}
	}
	o.skip("sdk-support")

	return c, nil
}

func decodeInterpolation(path string, v *document.Value) (*Interpolation, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	interp := &Interpolation{}
	if interp.Interpolated, err = o.boolean("interpolated"); err != nil {
		return nil, err
	}
	if params, ok := o.take("parameters"); ok {
		if interp.Parameters, err = decodeNames(o.child("parameters"), params); err != nil {
			return nil, err
		}
	}
	return interp, o.done()
}

func decodeRequirements(path string, v *document.Value) ([]Requirement, error) {
	if v.Kind != document.Array {
		return nil, refgenerr.Decodef(path, "expected list, got %s", v.Kind)
	}
	reqs := make([]Requirement, 0, len(v.Items))
	for i, item := range v.Items {
		itemPath := path + "[" + strconv.Itoa(i) + "]"
		switch item.Kind {
		case document.String:
			reqs = append(reqs, Requirement{Exists: item.Text})
		case document.Object:
			reqs = append(reqs, Requirement{Equals: item.Members})
		default:
			return nil, refgenerr.NoShape(itemPath, []refgenerr.Attempt{
				{Shape: "exists", Err: refgenerr.Newf("expected string, got %s", item.Kind)},
				{Shape: "equals", Err: refgenerr.Newf("expected object, got %s", item.Kind)},
			})
		}
	}
	return reqs, nil
}
