// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package generate turns a decoded reference document into an ordered list
// of declarations.
//
// Every named entry and every nested node becomes one declaration. Nested
// nodes are named after their enclosing path, so the "anchor" field of the
// "light" group yields a LightAnchor declaration. Operation enums are handed
// to the overload decoder generator in overload.go. Generate does not check
// the result; call Check before handing the list to a backend.
package generate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dacolabs/refgen/internal/discriminant"
	"github.com/dacolabs/refgen/internal/document"
	"github.com/dacolabs/refgen/internal/naming"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/schema"
	"github.com/dacolabs/refgen/internal/translate"
)

// DefaultRootName names the root record when Options.RootName is empty.
const DefaultRootName = "StyleSpecification"

// propertyTypeEntry is the named entry documenting property classifications.
const propertyTypeEntry = "property-type"

// Options controls naming of the generated declarations.
type Options struct {
	// RootName is the name of the record generated for the document root.
	RootName string
	// RootDoc documents the root record.
	RootDoc string
}

func (o Options) withDefaults() Options {
	if o.RootName == "" {
		o.RootName = DefaultRootName
	}
	o.RootName = naming.TitleCase(o.RootName)
	return o
}

var (
	objectCaps = translate.Caps{translate.CapEqual, translate.CapDecode}
	enumCaps   = translate.Caps{translate.CapEqual, translate.CapClone, translate.CapDecode, translate.CapOrder}
)

type generator struct {
	doc     *schema.Document
	tags    map[string][]discriminant.Relation
	decls   []translate.Declaration
	helpers map[string]bool
}

// Generate builds the declarations for doc. rels are the discriminant
// relations of doc as returned by discriminant.Resolve; doc must already
// have them applied.
func Generate(doc *schema.Document, rels []discriminant.Relation, opts Options) ([]translate.Declaration, error) {
	opts = opts.withDefaults()
	g := &generator{
		doc:     doc,
		tags:    discriminant.Index(rels),
		helpers: make(map[string]bool),
	}

	if err := g.group(opts.RootName, opts.RootDoc, "Root", doc.Root); err != nil {
		return nil, err
	}
	for i := range doc.Named {
		if err := g.entry(&doc.Named[i]); err != nil {
			return nil, refgenerr.Wrapf(err, "generate %s", doc.Named[i].Name)
		}
	}
	return g.decls, nil
}

func (g *generator) emit(d ...translate.Declaration) {
	g.decls = append(g.decls, d...)
}

func (g *generator) entry(e *schema.Entry) error {
	// property-type lists property classifications, not a style type.
	if e.Name == propertyTypeEntry {
		return nil
	}
	switch e.Kind {
	case schema.EntrySingle:
		if e.Node.Kind == schema.KindPropertyType {
			return nil
		}
		return g.node(naming.TitleCase(e.Name), e.Node)
	case schema.EntryGroup:
		name := naming.TitleCase(e.Name)
		return g.group(name, "", name, e.Fields)
	case schema.EntryOneOf:
		g.oneOf(e)
		return nil
	default:
		return refgenerr.Newf("unhandled entry kind %s", e.Kind)
	}
}

// group emits a record for fields and then one declaration per field,
// naming each after prefix and the field key.
func (g *generator) group(name, doc, prefix string, fields []schema.Field) error {
	kept := make([]schema.Field, 0, len(fields))
	for _, f := range fields {
		if f.Node.Kind != schema.KindPropertyType {
			kept = append(kept, f)
		}
	}

	if len(kept) == 1 && kept[0].Key == "*" {
		inner := naming.TitleCase("Inner " + name)
		g.emit(&translate.Record{
			Name:   name,
			Doc:    doc,
			Fields: []translate.Field{{Type: translate.Map(translate.Named(inner)), Doc: kept[0].Node.Doc}},
			Caps:   objectCaps,
		})
		return g.node(inner, kept[0].Node)
	}

	rec := &translate.Record{Name: name, Doc: doc, Caps: objectCaps, Fields: make([]translate.Field, 0, len(kept))}
	types := make([]string, len(kept))
	for i, f := range kept {
		types[i] = naming.TitleCase(prefix + " " + f.Key)
		if f.Key == "*" {
			types[i] = naming.TitleCase("Inner " + name)
			rec.Fields = append(rec.Fields, translate.Field{
				Key:     "entries",
				Type:    translate.Map(translate.Named(types[i])),
				Doc:     f.Node.Doc,
				Flatten: true,
			})
			continue
		}

		field := translate.Field{
			Key:  naming.LowerCase(f.Key),
			Type: translate.Named(types[i]),
			Doc:  f.Node.Doc,
		}
		if !f.Node.Required {
			field.Type = translate.Optional(field.Type)
			field.Optional = true
		}
		if field.Key != f.Key {
			field.RenameFrom = f.Key
		}
		rec.Fields = append(rec.Fields, field)
	}
	g.emit(rec)

	for i, f := range kept {
		if err := g.node(types[i], f.Node); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) oneOf(e *schema.Entry) {
	byMember := make(map[string]discriminant.Relation)
	for _, r := range g.tags[e.Name] {
		byMember[r.Member] = r
	}

	u := &translate.TaggedUnion{
		Name:     naming.TitleCase(e.Name),
		Dispatch: translate.DispatchUntagged,
		Caps:     objectCaps,
		Cases:    make([]translate.Case, 0, len(e.Members)),
	}
	for _, m := range e.Members {
		c := translate.Case{
			Name:    naming.TitleCase(m),
			Payload: []translate.Slot{{Name: "value", Type: translate.Named(naming.TitleCase(m))}},
		}
		if r, ok := byMember[m]; ok {
			u.Dispatch = translate.DispatchTag
			u.TagField = r.TagField
			if r.TagValue != c.Name {
				c.RenameFrom = r.TagValue
			}
		}
		u.Cases = append(u.Cases, c)
	}
	g.emit(u)
}

// node emits the declarations for one node under name.
func (g *generator) node(name string, n *schema.Node) error {
	switch n.Kind {
	case schema.KindReference:
		g.newtype(name, n.Doc, translate.Named(naming.TitleCase(n.Target)), n)
		g.jsonDefault(name, n.Default)
	case schema.KindNumber:
		g.newtype(name, rangeDoc(n.Doc, n.Minimum, n.Maximum, n.Period), translate.Prim(translate.Number), n)
		if n.Default != nil {
			g.setDefault(name, translate.Literal{Kind: translate.LitNumber, Text: n.Default.Text})
		}
	case schema.KindEnum:
		return g.enum(name, n)
	case schema.KindArray:
		return g.array(name, n)
	case schema.KindColor:
		g.newtype(name, n.Doc, translate.Prim(translate.Color), n)
		g.stringDefault(name, n.Default)
	case schema.KindString:
		g.newtype(name, n.Doc, translate.Prim(translate.String), n)
		g.stringDefault(name, n.Default)
	case schema.KindBoolean:
		g.newtype(name, n.Doc, translate.Prim(translate.Bool), n)
		if n.Default != nil {
			g.setDefault(name, translate.Literal{Kind: translate.LitBool, Bool: n.Default.Bool})
		}
	case schema.KindAny, schema.KindResolvedImage, schema.KindVariableAnchorOffsetCollection,
		schema.KindFilter, schema.KindExpression, schema.KindPromoteID, schema.KindState,
		schema.KindPadding, schema.KindFormatted:
		g.newtype(name, n.Doc, translate.Prim(translate.Value), n)
		g.jsonDefault(name, n.Default)
	case schema.KindNumberArray:
		g.pair(name, rangeDoc(n.Doc, n.Minimum, n.Maximum, ""), n, "Many", translate.Prim(translate.Number))
		if n.Default != nil {
			one := translate.Literal{Kind: translate.LitNumber, Text: n.Default.Text}
			g.setDefault(name, translate.Literal{Kind: translate.LitCase, Case: "One", Payload: &one})
		}
	case schema.KindColorArray:
		g.pair(name, n.Doc, n, "Multiple", translate.Prim(translate.Color))
		if n.Default != nil {
			one := translate.Literal{Kind: translate.LitString, Text: n.Default.Text}
			g.setDefault(name, translate.Literal{Kind: translate.LitCase, Case: "One", Payload: &one})
		}
	case schema.KindTransition, schema.KindTerrain, schema.KindPaint, schema.KindLight,
		schema.KindLayout, schema.KindSources, schema.KindSource, schema.KindSky, schema.KindProjection:
		g.newtype(name, n.Doc, translate.Named(naming.TitleCase(n.Kind.String())), n)
		g.jsonDefault(name, n.Default)
	case schema.KindSprite:
		g.sprite(name, n)
	case schema.KindFontFaces:
		g.fontFaces(name, n)
	case schema.KindProjectionDefinition:
		return g.projectionDefinition(name, n)
	case schema.KindPropertyType:
		// metadata only
	default:
		return refgenerr.Newf("%s: unhandled kind %s", name, n.Kind)
	}
	return nil
}

func (g *generator) newtype(name, doc string, t translate.TypeRef, n *schema.Node) {
	g.emit(&translate.Record{
		Name:     name,
		Doc:      doc,
		Fields:   []translate.Field{{Type: t}},
		Caps:     objectCaps,
		Examples: examples(n),
	})
}

// pair emits an untagged union of one element or a list of them.
func (g *generator) pair(name, doc string, n *schema.Node, many string, elem translate.TypeRef) {
	g.emit(&translate.TaggedUnion{
		Name:     name,
		Doc:      doc,
		Dispatch: translate.DispatchUntagged,
		Cases: []translate.Case{
			{Name: "One", Payload: []translate.Slot{{Name: "value", Type: elem}}},
			{Name: many, Payload: []translate.Slot{{Name: "values", Type: translate.List(elem)}}},
		},
		Caps:     objectCaps,
		Examples: examples(n),
	})
}

func (g *generator) setDefault(name string, lit translate.Literal) {
	g.emit(&translate.DefaultValueProvider{TypeName: name, Value: lit})
}

func (g *generator) stringDefault(name string, v *document.Value) {
	if v == nil {
		return
	}
	if v.Kind != document.String {
		g.jsonDefault(name, v)
		return
	}
	g.setDefault(name, translate.Literal{Kind: translate.LitString, Text: v.Text})
}

func (g *generator) jsonDefault(name string, v *document.Value) {
	if v != nil {
		g.setDefault(name, translate.Literal{Kind: translate.LitJSON, Text: v.JSON()})
	}
}

func (g *generator) enum(name string, n *schema.Node) error {
	switch n.Values.Kind {
	case schema.ValuesEnum:
		union := nameEnum(name, n.Doc, n.Values.Entries, examples(n))
		g.emit(union)
		if n.Default == nil {
			return nil
		}
		if n.Default.Kind != document.String {
			return refgenerr.Decodef(name+".default", "enum default must be a string, got %s", n.Default.Kind)
		}
		c, err := union.FindCase(naming.TitleCase(n.Default.Text))
		if err != nil || c.Wire() != n.Default.Text {
			wires := make([]string, len(union.Cases))
			for i, uc := range union.Cases {
				wires[i] = strconv.Quote(uc.Wire())
			}
			return refgenerr.WithDetail(
				refgenerr.Decodef(name+".default", "enum default %q is not one of the values", n.Default.Text),
				"values: "+strings.Join(wires, ", "),
			)
		}
		g.setDefault(name, translate.Literal{Kind: translate.LitCase, Case: c.Name})
		return nil
	case schema.ValuesVersion:
		return g.versionEnum(name, n)
	case schema.ValuesOperation:
		return g.operations(name, n)
	default:
		return refgenerr.Newf("%s: unhandled enum values %s", name, n.Values.Kind)
	}
}

// nameEnum builds a string-dispatched union of payload-less cases, sorted by
// case name.
func nameEnum(name, doc string, entries []schema.EnumEntry, examples []string) *translate.TaggedUnion {
	cases := make([]translate.Case, 0, len(entries))
	for _, e := range entries {
		c := translate.Case{Name: naming.TitleCase(e.Key), Doc: e.Doc}
		if c.Name != e.Key {
			c.RenameFrom = e.Key
		}
		cases = append(cases, c)
	}
	sort.SliceStable(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })

	return &translate.TaggedUnion{
		Name:     name,
		Doc:      doc,
		Dispatch: translate.DispatchName,
		Cases:    cases,
		Caps:     enumCaps,
		Examples: examples,
	}
}

// versionEnum emits a number-dispatched union. Each value must fit in an
// unsigned byte.
func (g *generator) versionEnum(name string, n *schema.Node) error {
	values := make([]int, 0, len(n.Values.Versions))
	for _, text := range n.Values.Versions {
		v, err := strconv.Atoi(text)
		if err != nil || v < 0 || v > 255 {
			return &refgenerr.RangeError{Type: name, Value: text, Max: 255}
		}
		values = append(values, v)
	}
	sort.Ints(values)

	u := &translate.TaggedUnion{
		Name:     name,
		Doc:      n.Doc,
		Dispatch: translate.DispatchNumber,
		Caps:     enumCaps,
		Examples: examples(n),
		Cases:    make([]translate.Case, len(values)),
	}
	for i, v := range values {
		u.Cases[i] = translate.Case{Name: naming.NumberWord(v), Value: v}
	}
	g.emit(u)

	if n.Default != nil {
		v, err := strconv.Atoi(n.Default.Text)
		if err != nil || v < 0 || v > 255 {
			return &refgenerr.RangeError{Type: name, Value: n.Default.JSON(), Max: 255}
		}
		g.setDefault(name, translate.Literal{Kind: translate.LitCase, Case: naming.NumberWord(v)})
	}
	return nil
}

func (g *generator) array(name string, n *schema.Node) error {
	elemName := naming.TitleCase(name + " value")
	elem, err := g.arrayElem(elemName, n.Doc, n.Value, n.Values)
	if err != nil {
		return err
	}

	t := translate.List(elem)
	if n.Length > 0 {
		t = translate.Array(elem, n.Length)
	}
	g.newtype(name, rangeDoc(n.Doc, n.Minimum, n.Maximum, ""), t, n)
	if n.Default != nil {
		g.setDefault(name, listLiteral(n.Default))
	}
	return nil
}

func (g *generator) arrayElem(name, doc string, av *schema.ArrayValue, values *schema.EnumValues) (translate.TypeRef, error) {
	switch av.Kind {
	case schema.ArraySimple:
		return g.simpleElem(name, doc, av.Name, values)
	case schema.ArrayEither:
		u := &translate.TaggedUnion{
			Name:     name,
			Dispatch: translate.DispatchUntagged,
			Caps:     objectCaps,
			Cases:    make([]translate.Case, 0, len(av.Names)),
		}
		for i, elem := range av.Names {
			caseName := naming.NumberWord(i)
			t, err := g.simpleElem(naming.TitleCase(name+" "+caseName), doc, elem, values)
			if err != nil {
				return translate.TypeRef{}, err
			}
			u.Cases = append(u.Cases, translate.Case{Name: caseName, Payload: []translate.Slot{{Name: "value", Type: t}}})
		}
		g.emit(u)
		return translate.Named(name), nil
	case schema.ArrayComplex:
		if err := g.node(name, av.Node); err != nil {
			return translate.TypeRef{}, err
		}
		return translate.Named(name), nil
	default:
		return translate.TypeRef{}, refgenerr.Newf("%s: unhandled array value %s", name, av.Kind)
	}
}

func (g *generator) simpleElem(name, doc, elem string, values *schema.EnumValues) (translate.TypeRef, error) {
	switch elem {
	case "string":
		return translate.Prim(translate.String), nil
	case "number":
		return translate.Prim(translate.Number), nil
	case "boolean":
		return translate.Prim(translate.Bool), nil
	case "color":
		return translate.Prim(translate.Color), nil
	case "*":
		return translate.Prim(translate.Value), nil
	case "enum":
		if values == nil || values.Kind != schema.ValuesEnum {
			return translate.TypeRef{}, refgenerr.Newf("%s: enum elements need enum values", name)
		}
		g.helper(name, func() []translate.Declaration {
			return []translate.Declaration{nameEnum(name, doc, values.Entries, nil)}
		})
		return translate.Named(name), nil
	default:
		return translate.Named(naming.TitleCase(elem)), nil
	}
}

func examples(n *schema.Node) []string {
	if n == nil || n.Example == nil {
		return nil
	}
	return []string{n.Example.JSON()}
}

// rangeDoc appends a "Range: min..=max every period" line to doc when any
// bound is set.
func rangeDoc(doc, minimum, maximum, period string) string {
	if minimum == "" && maximum == "" && period == "" {
		return doc
	}
	if doc != "" {
		doc += "\n\n"
	}
	doc += "Range: "
	if minimum != "" || maximum != "" {
		doc += minimum + ".."
		if maximum != "" {
			doc += "=" + maximum
		}
		if period != "" {
			doc += " "
		}
	}
	if period != "" {
		doc += "every " + period
	}
	return doc
}

// listLiteral converts an array default. Lists holding anything but scalars
// are kept as encoded JSON.
func listLiteral(v *document.Value) translate.Literal {
	lit := translate.Literal{Kind: translate.LitList, Items: make([]translate.Literal, 0, len(v.Items))}
	for _, item := range v.Items {
		switch item.Kind {
		case document.Number:
			lit.Items = append(lit.Items, translate.Literal{Kind: translate.LitNumber, Text: item.Text})
		case document.String:
			lit.Items = append(lit.Items, translate.Literal{Kind: translate.LitString, Text: item.Text})
		case document.Bool:
			lit.Items = append(lit.Items, translate.Literal{Kind: translate.LitBool, Bool: item.Bool})
		default:
			return translate.Literal{Kind: translate.LitJSON, Text: v.JSON()}
		}
	}
	return lit
}
