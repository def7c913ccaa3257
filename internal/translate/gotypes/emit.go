// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package gotypes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dacolabs/refgen/internal/translate"
)

// emitter renders the method bodies the template delegates to it and
// records which runtime helpers the output needs.
type emitter struct {
	res      *resolver
	idx      map[string]translate.Declaration
	decoders map[string]*translate.CustomDecoder
	needs    map[string]bool
}

func newEmitter(decls []translate.Declaration) *emitter {
	e := &emitter{
		res:      &resolver{},
		idx:      translate.Index(decls),
		decoders: make(map[string]*translate.CustomDecoder),
		needs:    make(map[string]bool),
	}
	for _, d := range decls {
		if dec, ok := d.(*translate.CustomDecoder); ok {
			e.decoders[dec.TypeName] = dec
		}
	}
	return e
}

// code accumulates Go source lines.
type code struct {
	sb strings.Builder
}

func (c *code) line(depth int, format string, args ...any) {
	c.sb.WriteString(strings.Repeat("\t", depth))
	fmt.Fprintf(&c.sb, format, args...)
	c.sb.WriteByte('\n')
}

func (c *code) blank() { c.sb.WriteByte('\n') }

func (c *code) String() string { return c.sb.String() }

func (e *emitter) typeOf(t translate.TypeRef) string {
	return translate.ResolveType(e.res, t)
}

// doc renders text as a comment block at the given indentation.
func doc(text, indent string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var sb strings.Builder
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		sb.WriteString("\n" + indent + "//")
		if l = strings.TrimRight(l, " \t"); l != "" {
			sb.WriteString(" " + l)
		}
	}
	return sb.String()
}

// caseType is the Go type a union case points to: the slot type for a
// single slot, an argument struct otherwise.
func caseType(union string, c translate.CaseData) string {
	if len(c.Slots) == 1 {
		return c.Slots[0].Type
	}
	return argsType(union, c.Name)
}

func argsType(union, caseName string) string { return union + caseName + "Args" }

func isEnum(u *translate.UnionData) bool {
	return u.Dispatch == translate.DispatchName || u.Dispatch == translate.DispatchNumber
}

func local(slot string) string { return "p" + memberIdent(slot) }

func (e *emitter) recordMethods(r *translate.RecordData) (string, error) {
	var c code
	if wrapped, ok := r.Source.Wrapped(); ok {
		switch {
		case wrapped.Kind == translate.TypeNamed:
			c.line(0, "func (x *%s) UnmarshalJSON(b []byte) error {", r.Name)
			c.line(1, "return json.Unmarshal(b, (*%s)(x))", r.Wrapped)
			c.line(0, "}")
			c.blank()
		case wrapped.Kind == translate.TypeBuiltin && wrapped.Builtin == translate.Value:
			// A named RawMessage loses its methods and would decode as base64.
			c.line(0, "func (x *%s) UnmarshalJSON(b []byte) error {", r.Name)
			c.line(1, "return (*json.RawMessage)(x).UnmarshalJSON(b)")
			c.line(0, "}")
			c.blank()
			c.line(0, "func (x %s) MarshalJSON() ([]byte, error) {", r.Name)
			c.line(1, "return json.RawMessage(x).MarshalJSON()")
			c.line(0, "}")
			c.blank()
		}
	} else {
		e.recordDecoder(&c, r)
	}

	if err := e.capabilities(&c, r.Name, r.Caps, false); err != nil {
		return "", err
	}
	return c.String(), nil
}

// recordDecoder renders an UnmarshalJSON for records with required keys or
// a flattened catch-all field. Other records use plain struct decoding.
func (e *emitter) recordDecoder(c *code, r *translate.RecordData) {
	var required, known []string
	var flatten *translate.FieldData
	for i := range r.Fields {
		f := &r.Fields[i]
		if f.Flatten {
			flatten = f
			continue
		}
		if !f.Optional {
			required = append(required, strconv.Quote(f.Key))
		}
		known = append(known, strconv.Quote(f.Key))
	}
	if len(required) == 0 && flatten == nil {
		return
	}

	c.line(0, "func (x *%s) UnmarshalJSON(b []byte) error {", r.Name)
	c.line(1, "type plain %s", r.Name)
	c.line(1, "if err := json.Unmarshal(b, (*plain)(x)); err != nil {")
	c.line(2, "return err")
	c.line(1, "}")
	c.line(1, "var keys map[string]json.RawMessage")
	c.line(1, "if err := json.Unmarshal(b, &keys); err != nil {")
	c.line(2, "return err")
	c.line(1, "}")
	if len(required) > 0 {
		c.line(1, "for _, k := range []string{%s} {", strings.Join(required, ", "))
		c.line(2, "if _, ok := keys[k]; !ok {")
		c.line(3, "return fmt.Errorf(\"%s: missing required field %%q\", k)", r.Name)
		c.line(2, "}")
		c.line(1, "}")
	}
	if flatten != nil {
		if len(known) > 0 {
			c.line(1, "for _, k := range []string{%s} {", strings.Join(known, ", "))
			c.line(2, "delete(keys, k)")
			c.line(1, "}")
		}
		c.line(1, "x.%s = make(%s, len(keys))", flatten.Name, flatten.Type)
		c.line(1, "for k, raw := range keys {")
		c.line(2, "var v %s", e.typeOf(*flatten.Ref.Elem))
		c.line(2, "if err := json.Unmarshal(raw, &v); err != nil {")
		c.line(3, "return fmt.Errorf(\"%s.%%s: %%w\", k, err)", r.Name)
		c.line(2, "}")
		c.line(2, "x.%s[k] = v", flatten.Name)
		c.line(1, "}")
	}
	c.line(1, "return nil")
	c.line(0, "}")
	c.blank()
}

// capabilities renders the Equal, Clone and Less methods. Clone and Less
// are only defined for enums, whose values are comparable scalars.
func (e *emitter) capabilities(c *code, name string, caps translate.Caps, enum bool) error {
	if caps.Has(translate.CapEqual) {
		c.line(0, "// Equal reports whether x and o hold the same value.")
		c.line(0, "func (x %s) Equal(o %s) bool {", name, name)
		if enum {
			c.line(1, "return x == o")
		} else {
			c.line(1, "return reflect.DeepEqual(x, o)")
		}
		c.line(0, "}")
		c.blank()
	}
	if caps.Has(translate.CapClone) {
		if !enum {
			return fmt.Errorf("%s: clone is only supported for enums", name)
		}
		c.line(0, "// Clone returns a copy of x.")
		c.line(0, "func (x %s) Clone() %s { return x }", name, name)
		c.blank()
	}
	if caps.Has(translate.CapOrder) {
		if !enum {
			return fmt.Errorf("%s: ordering is only supported for enums", name)
		}
		c.line(0, "// Less orders values by declaration.")
		c.line(0, "func (x %s) Less(o %s) bool { return x.ordinal() < o.ordinal() }", name, name)
		c.blank()
	}
	return nil
}

func (e *emitter) enumMethods(u *translate.UnionData) (string, error) {
	var c code
	scalar, verb := "string", "%q"
	if u.Dispatch == translate.DispatchNumber {
		scalar, verb = "uint8", "%d"
	}

	names := make([]string, len(u.Cases))
	for i, cs := range u.Cases {
		names[i] = u.Name + cs.Name
	}

	c.line(0, "func (x *%s) UnmarshalJSON(b []byte) error {", u.Name)
	c.line(1, "var v %s", scalar)
	c.line(1, "if err := json.Unmarshal(b, &v); err != nil {")
	c.line(2, "return err")
	c.line(1, "}")
	if len(names) > 0 {
		c.line(1, "switch %s(v) {", u.Name)
		c.line(1, "case %s:", strings.Join(names, ", "))
		c.line(2, "*x = %s(v)", u.Name)
		c.line(2, "return nil")
		c.line(1, "}")
	}
	c.line(1, "return fmt.Errorf(\"unknown %s %s\", v)", u.Name, verb)
	c.line(0, "}")
	c.blank()

	if u.Caps.Has(translate.CapOrder) {
		c.line(0, "func (x %s) ordinal() int {", u.Name)
		c.line(1, "switch x {")
		for i, n := range names {
			c.line(1, "case %s:", n)
			c.line(2, "return %d", i)
		}
		c.line(1, "}")
		c.line(1, "return %d", len(names))
		c.line(0, "}")
		c.blank()
	}

	if err := e.capabilities(&c, u.Name, u.Caps, true); err != nil {
		return "", err
	}
	return c.String(), nil
}

func (e *emitter) unionMethods(u *translate.UnionData) (string, error) {
	var c code
	switch u.Dispatch {
	case translate.DispatchUntagged:
		e.untagged(&c, u)
	case translate.DispatchTag:
		e.tagged(&c, u)
	case translate.DispatchOperator:
		if _, ok := e.decoders[u.Source.Name]; !ok {
			return "", fmt.Errorf("%s: operator union has no decoder", u.Name)
		}
		e.operator(&c, u)
	case translate.DispatchPositional:
		if err := e.positional(&c, u); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%s: unhandled dispatch %s", u.Name, u.Dispatch)
	}

	if err := e.capabilities(&c, u.Name, u.Caps, false); err != nil {
		return "", err
	}
	return c.String(), nil
}

func (e *emitter) untagged(c *code, u *translate.UnionData) {
	e.needs["decodeStrict"] = true
	c.line(0, "func (x *%s) UnmarshalJSON(b []byte) error {", u.Name)
	c.line(1, "*x = %s{}", u.Name)
	for _, cs := range u.Cases {
		c.line(1, "if v := new(%s); decodeStrict(b, v) == nil {", caseType(u.Name, cs))
		c.line(2, "x.%s = v", cs.Name)
		c.line(2, "return nil")
		c.line(1, "}")
	}
	c.line(1, "return fmt.Errorf(\"no variant of %s matches %%s\", b)", u.Name)
	c.line(0, "}")
	c.blank()
}

func (e *emitter) tagged(c *code, u *translate.UnionData) {
	c.line(0, "func (x *%s) UnmarshalJSON(b []byte) error {", u.Name)
	c.line(1, "var probe struct {")
	c.line(2, "Tag string `json:%s`", strconv.Quote(u.TagField))
	c.line(1, "}")
	c.line(1, "if err := json.Unmarshal(b, &probe); err != nil {")
	c.line(2, "return err")
	c.line(1, "}")
	c.line(1, "*x = %s{}", u.Name)
	c.line(1, "switch probe.Tag {")
	for _, cs := range u.Cases {
		c.line(1, "case %s:", strconv.Quote(cs.Wire))
		c.line(2, "v := new(%s)", caseType(u.Name, cs))
		c.line(2, "if err := json.Unmarshal(b, v); err != nil {")
		c.line(3, "return err")
		c.line(2, "}")
		c.line(2, "x.%s = v", cs.Name)
	}
	c.line(1, "default:")
	c.line(2, "return fmt.Errorf(\"unknown %s %s %%q\", probe.Tag)", u.Name, u.TagField)
	c.line(1, "}")
	c.line(1, "return nil")
	c.line(0, "}")
	c.blank()
}

func (e *emitter) operator(c *code, u *translate.UnionData) {
	e.needs["seqReader"] = true
	c.line(0, "func (x *%s) UnmarshalJSON(b []byte) error {", u.Name)
	c.line(1, "var elems []json.RawMessage")
	c.line(1, "if err := json.Unmarshal(b, &elems); err != nil {")
	c.line(2, "return err")
	c.line(1, "}")
	c.line(1, "if len(elems) == 0 {")
	c.line(2, "return errors.New(\"%s: missing operator\")", u.Name)
	c.line(1, "}")
	c.line(1, "var op string")
	c.line(1, "if err := json.Unmarshal(elems[0], &op); err != nil {")
	c.line(2, "return fmt.Errorf(\"%s: operator: %%w\", err)", u.Name)
	c.line(1, "}")
	c.line(1, "*x = %s{}", u.Name)
	c.line(1, "return x.decodeOperator(&seqReader{op: op, elems: elems[1:]})")
	c.line(0, "}")
	c.blank()
}

// positional renders decodeSeq, which tries each case in order against the
// whole argument list, and an UnmarshalJSON reading that list from an array.
func (e *emitter) positional(c *code, u *translate.UnionData) error {
	e.needs["seqReader"] = true
	c.line(0, "func (x *%s) UnmarshalJSON(b []byte) error {", u.Name)
	c.line(1, "var elems []json.RawMessage")
	c.line(1, "if err := json.Unmarshal(b, &elems); err != nil {")
	c.line(2, "return err")
	c.line(1, "}")
	c.line(1, "return x.decodeSeq(%s, elems)", strconv.Quote(u.Source.Name))
	c.line(0, "}")
	c.blank()

	c.line(0, "func (x *%s) decodeSeq(op string, elems []json.RawMessage) error {", u.Name)
	c.line(1, "*x = %s{}", u.Name)
	for _, cs := range u.Source.Cases {
		c.line(1, "if err := func() error {")
		c.line(2, "r := &seqReader{op: op, elems: elems}")
		args := make([]string, len(cs.Payload))
		for i, s := range cs.Payload {
			args[i] = s.Name
			step := translate.Step{Op: translate.OpReadNextOrFail, Slot: s.Name, Type: s.Type, Field: s.Name}
			if s.Type.Kind == translate.TypeOptional {
				step.Op = translate.OpReadNext
			}
			if err := e.step(c, 2, step, u.Source, nil); err != nil {
				return err
			}
		}
		if err := e.construct(c, 2, u.Source, translate.Step{Op: translate.OpConstruct, Case: cs.Name, Args: args}); err != nil {
			return err
		}
		c.line(1, "}(); err == nil {")
		c.line(2, "return nil")
		c.line(1, "}")
	}
	c.line(1, "return fmt.Errorf(\"%%s: arguments match no call shape of %s\", op)", u.Name)
	c.line(0, "}")
	c.blank()
	return nil
}

// decoder renders the decodeOperator method of an operator union: one
// switch case per branch, then the fallback steps.
func (e *emitter) decoder(d *translate.DecoderData) (string, error) {
	if d.Union == nil {
		return "", fmt.Errorf("decoder for %s: no such union", d.TypeName)
	}
	var c code
	c.line(0, "func (x *%s) decodeOperator(r *seqReader) error {", d.TypeName)
	c.line(1, "switch r.op {")
	for _, b := range d.Branches {
		c.line(1, "case %s:", strconv.Quote(b.Wire))
		if err := e.steps(&c, 2, b.Steps, d.Union); err != nil {
			return "", fmt.Errorf("decoder for %s, %s: %w", d.TypeName, b.Wire, err)
		}
		if !terminates(b.Steps) {
			c.line(2, "return nil")
		}
	}
	c.line(1, "}")
	if err := e.steps(&c, 1, d.Fallback, d.Union); err != nil {
		return "", fmt.Errorf("decoder for %s: %w", d.TypeName, err)
	}
	if !terminates(d.Fallback) {
		c.line(1, "return fmt.Errorf(\"%%s: unknown operator\", r.op)")
	}
	c.line(0, "}")
	return c.String(), nil
}

func terminates(steps []translate.Step) bool {
	if len(steps) == 0 {
		return false
	}
	op := steps[len(steps)-1].Op
	return op == translate.OpConstruct || op == translate.OpFail
}

func (e *emitter) steps(c *code, depth int, steps []translate.Step, union *translate.TaggedUnion) error {
	for _, s := range steps {
		if err := e.step(c, depth, s, union, nil); err != nil {
			return err
		}
	}
	return nil
}

// step renders one decoding step. into, when set, gives the address a read
// stores to; otherwise each read declares its own local.
func (e *emitter) step(c *code, depth int, s translate.Step, union *translate.TaggedUnion, into func(slot string) string) error {
	dest := func() string {
		if into != nil {
			return into(s.Slot)
		}
		c.line(depth, "var %s %s", local(s.Slot), e.typeOf(s.Type))
		return "&" + local(s.Slot)
	}

	switch s.Op {
	case translate.OpReadNext:
		c.line(depth, "if err := r.next(%s); err != nil {", dest())
	case translate.OpReadNextOrFail:
		c.line(depth, "if err := r.require(%s, %s); err != nil {", strconv.Quote(s.Field), dest())
	case translate.OpReadRest:
		if into != nil {
			return fmt.Errorf("%s inside a repetition", s.Op)
		}
		c.line(depth, "var %s %s", local(s.Slot), e.res.NamedType(s.Union))
		c.line(depth, "if err := %s.decodeSeq(r.op, r.rest()); err != nil {", local(s.Slot))
	case translate.OpConstruct:
		return e.construct(c, depth, union, s)
	case translate.OpFail:
		c.line(depth, "return fmt.Errorf(\"%%s: %%s\", r.op, %s)", strconv.Quote(s.Message))
		return nil
	case translate.OpCollect:
		if into != nil {
			return fmt.Errorf("%s inside a repetition", s.Op)
		}
		return e.collect(c, depth, s, union)
	default:
		return fmt.Errorf("unhandled step %s", s.Op)
	}
	c.line(depth+1, "return err")
	c.line(depth, "}")
	return nil
}

func (e *emitter) collect(c *code, depth int, s translate.Step, union *translate.TaggedUnion) error {
	list := local(s.Slot)
	elem := e.typeOf(s.Type)
	into := func(string) string { return "&item" }
	if s.Bundle != "" {
		into = func(slot string) string { return "&item." + memberIdent(slot) }
	}

	c.line(depth, "var %s []%s", list, elem)
	c.line(depth, "for r.remaining() > %d {", s.Reserve)
	c.line(depth+1, "var item %s", elem)
	for _, b := range s.Body {
		if err := e.step(c, depth+1, b, union, into); err != nil {
			return err
		}
	}
	c.line(depth+1, "%s = append(%s, item)", list, list)
	c.line(depth, "}")
	if s.Min > 0 {
		c.line(depth, "if len(%s) < %d {", list, s.Min)
		c.line(depth+1, "return fmt.Errorf(\"%%s: expected at least %d %s\", r.op)", s.Min, s.Slot)
		c.line(depth, "}")
	}
	return nil
}

// construct checks that every element was consumed and stores the case.
func (e *emitter) construct(c *code, depth int, union *translate.TaggedUnion, s translate.Step) error {
	var target *translate.Case
	for i := range union.Cases {
		if union.Cases[i].Name == s.Case {
			target = &union.Cases[i]
		}
	}
	if target == nil {
		return fmt.Errorf("construct: %s has no case %s", union.Name, s.Case)
	}
	if len(target.Payload) != len(s.Args) {
		return fmt.Errorf("construct: %s.%s takes %d slots, got %d", union.Name, s.Case, len(target.Payload), len(s.Args))
	}

	c.line(depth, "if err := r.done(); err != nil {")
	c.line(depth+1, "return err")
	c.line(depth, "}")
	field := memberIdent(target.Name)
	if len(s.Args) == 1 {
		c.line(depth, "x.%s = &%s", field, local(s.Args[0]))
	} else {
		inits := make([]string, len(s.Args))
		for i, arg := range s.Args {
			inits[i] = memberIdent(target.Payload[i].Name) + ": " + local(arg)
		}
		c.line(depth, "x.%s = &%s{%s}", field, argsType(goIdent(union.Name), field), strings.Join(inits, ", "))
	}
	c.line(depth, "return nil")
	return nil
}

// defaultValue renders the expression returned by Default<Type>. Scalars and
// enum cases are written as Go literals, everything else is decoded from
// its JSON encoding.
func (e *emitter) defaultValue(d *translate.DefaultData) (string, error) {
	lit := d.Value
	switch target := d.Target.(type) {
	case nil:
		return "", fmt.Errorf("default for undeclared type %s", d.TypeName)
	case *translate.Record:
		if w, ok := target.Wrapped(); ok {
			if expr, ok := goLiteral(lit, w); ok {
				return d.TypeName + expr, nil
			}
		}
	case *translate.TaggedUnion:
		if (target.Dispatch == translate.DispatchName || target.Dispatch == translate.DispatchNumber) &&
			lit.Kind == translate.LitCase && lit.Payload == nil {
			if _, err := target.FindCase(lit.Case); err != nil {
				return "", err
			}
			return d.TypeName + memberIdent(lit.Case), nil
		}
	}

	text, err := translate.EncodeLiteral(lit, translate.Named(d.Target.DeclName()), e.idx)
	if err != nil {
		return "", fmt.Errorf("default of %s: %w", d.TypeName, err)
	}
	e.needs["mustDecode"] = true
	return fmt.Sprintf("mustDecode[%s](%s)", d.TypeName, strconv.Quote(text)), nil
}

// goLiteral renders lit as a conversion or composite literal suffix for a
// wrapper of t, when lit and t are both plain scalars or scalar lists.
func goLiteral(lit translate.Literal, t translate.TypeRef) (string, bool) {
	switch t.Kind {
	case translate.TypeBuiltin:
		s, ok := scalar(lit, t.Builtin)
		return "(" + s + ")", ok
	case translate.TypeList, translate.TypeArray:
		if lit.Kind != translate.LitList || t.Elem.Kind != translate.TypeBuiltin {
			return "", false
		}
		if t.Kind == translate.TypeArray && len(lit.Items) != t.Length {
			return "", false
		}
		items := make([]string, len(lit.Items))
		for i, it := range lit.Items {
			s, ok := scalar(it, t.Elem.Builtin)
			if !ok {
				return "", false
			}
			items[i] = s
		}
		return "{" + strings.Join(items, ", ") + "}", true
	default:
		return "", false
	}
}

func scalar(lit translate.Literal, b translate.Builtin) (string, bool) {
	switch {
	case lit.Kind == translate.LitNumber && b == translate.Number:
		return lit.Text, true
	case lit.Kind == translate.LitString && (b == translate.String || b == translate.Color):
		return strconv.Quote(lit.Text), true
	case lit.Kind == translate.LitBool && b == translate.Bool:
		return strconv.FormatBool(lit.Bool), true
	default:
		return "", false
	}
}

// runtime returns the helper declarations the rendered methods call.
func (e *emitter) runtime() string {
	var parts []string
	for _, name := range []string{"decodeStrict", "mustDecode", "seqReader"} {
		if e.needs[name] {
			parts = append(parts, helpers[name])
		}
	}
	return strings.Join(parts, "\n")
}

var helpers = map[string]string{
	"decodeStrict": `// decodeStrict decodes b into v, rejecting unknown object keys.
func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
`,
	"mustDecode": `func mustDecode[T any](s string) T {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(err)
	}
	return v
}
`,
	"seqReader": `// seqReader reads the arguments that follow an operator.
type seqReader struct {
	op    string
	elems []json.RawMessage
	pos   int
}

func (r *seqReader) remaining() int { return len(r.elems) - r.pos }

// next decodes the next argument into v, leaving v untouched when there is
// none.
func (r *seqReader) next(v any) error {
	if r.remaining() == 0 {
		return nil
	}
	r.pos++
	if err := json.Unmarshal(r.elems[r.pos-1], v); err != nil {
		return fmt.Errorf("%s: argument %d: %w", r.op, r.pos, err)
	}
	return nil
}

func (r *seqReader) require(field string, v any) error {
	if r.remaining() == 0 {
		return fmt.Errorf("%s: missing argument %s", r.op, field)
	}
	r.pos++
	if err := json.Unmarshal(r.elems[r.pos-1], v); err != nil {
		return fmt.Errorf("%s: argument %s: %w", r.op, field, err)
	}
	return nil
}

func (r *seqReader) rest() []json.RawMessage {
	rest := r.elems[r.pos:]
	r.pos = len(r.elems)
	return rest
}

func (r *seqReader) done() error {
	if n := r.remaining(); n > 0 {
		return fmt.Errorf("%s: %d unexpected arguments", r.op, n)
	}
	return nil
}
`,
}
