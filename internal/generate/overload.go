// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dacolabs/refgen/internal/naming"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/schema"
	"github.com/dacolabs/refgen/internal/translate"
)

// variadicMarker is the parameter name that starts a repeating group.
const variadicMarker = "..."

// operations emits an operator-dispatched union for an operation enum, one
// case per operation, plus the custom decoder that reads each case from the
// elements following the operator.
func (g *generator) operations(name string, n *schema.Node) error {
	ops := append([]schema.Operation(nil), n.Values.Operations...)
	sort.SliceStable(ops, func(i, j int) bool {
		return naming.TitleCase(ops[i].Name) < naming.TitleCase(ops[j].Name)
	})

	union := &translate.TaggedUnion{
		Name:     name,
		Doc:      n.Doc,
		Dispatch: translate.DispatchOperator,
		Caps:     objectCaps,
		Examples: examples(n),
		Cases:    make([]translate.Case, 0, len(ops)),
	}
	decoder := &translate.CustomDecoder{
		TypeName: name,
		Branches: make([]translate.Branch, 0, len(ops)),
		Fallback: []translate.Step{{Op: translate.OpFail, Message: "unknown operator"}},
	}

	var aux []translate.Declaration
	for i := range ops {
		op := &ops[i]
		b := &branch{union: name, op: op, names: make(map[string]bool)}
		if err := b.build(); err != nil {
			return err
		}

		c := translate.Case{Name: b.caseName(), Doc: op.Doc, Payload: b.slots}
		if c.Name != op.Name {
			c.RenameFrom = op.Name
		}
		union.Cases = append(union.Cases, c)
		decoder.Branches = append(decoder.Branches, translate.Branch{Wire: op.Name, Case: c.Name, Steps: b.steps})
		aux = append(aux, b.aux...)

		if op.Example != nil {
			union.Examples = append(union.Examples, op.Example.JSON())
		}
	}

	g.emit(union)
	g.emit(aux...)
	g.emit(decoder)
	return nil
}

// branch accumulates the payload and decoding steps of one operation.
type branch struct {
	union string
	op    *schema.Operation
	slots []translate.Slot
	steps []translate.Step
	aux   []translate.Declaration
	names map[string]bool
}

func (b *branch) caseName() string { return naming.TitleCase(b.op.Name) }

func (b *branch) build() error {
	overloads := b.op.Overloads
	if len(overloads) == 1 {
		params := overloads[0].Parameters
		switch markers := countMarkers(params); {
		case markers > 1:
			return b.ambiguous(fmt.Sprintf("%d variadic markers in one overload", markers))
		case markers == 1:
			return b.variadic(params)
		default:
			b.fixed(params)
			return nil
		}
	}

	for _, o := range overloads {
		if countMarkers(o.Parameters) > 0 {
			return b.ambiguous("variadic overload alongside other overloads")
		}
	}
	return b.overloaded()
}

// fixed reads one slot per parameter.
func (b *branch) fixed(params []string) {
	for _, p := range params {
		b.read(p)
	}
	b.construct()
}

// read adds the slot and step for parameter p.
func (b *branch) read(p string) {
	slot, step := b.slot(p, b.names)
	b.slots = append(b.slots, slot)
	b.steps = append(b.steps, step)
}

func (b *branch) construct() {
	args := make([]string, len(b.slots))
	for i, s := range b.slots {
		args[i] = s.Name
	}
	b.steps = append(b.steps, translate.Step{Op: translate.OpConstruct, Case: b.caseName(), Args: args})
}

// slot resolves parameter p to a uniquely named slot and the step that
// reads it. Optional parameters may be absent or null.
func (b *branch) slot(p string, taken map[string]bool) (translate.Slot, translate.Step) {
	name := uniqueName(naming.LowerCase(stripIndex(p)), p, taken)
	t := paramType(b.op, p)
	if isOptional(p) {
		t = translate.Optional(t)
		return translate.Slot{Name: name, Type: t}, translate.Step{Op: translate.OpReadNext, Slot: name, Type: t}
	}
	return translate.Slot{Name: name, Type: t},
		translate.Step{Op: translate.OpReadNextOrFail, Slot: name, Type: t, Field: strings.TrimSuffix(p, "?")}
}

// variadic splits params around the marker into a fixed prefix, a repeating
// group and a fixed trailer. The group is as long as the run of parameters
// after the marker that repeat a name before it once index suffixes are
// stripped; without such a run every parameter before the marker repeats.
func (b *branch) variadic(params []string) error {
	mark := indexOf(params, variadicMarker)
	pre, post := params[:mark], params[mark+1:]
	if len(pre) == 0 {
		return b.ambiguous("variadic marker with no parameter to repeat")
	}

	seen := make(map[string]bool, len(pre))
	for _, p := range pre {
		seen[stripIndex(p)] = true
	}
	mirrored := 0
	for mirrored < len(post) && seen[stripIndex(post[mirrored])] {
		mirrored++
	}
	k := mirrored
	if k == 0 || k > len(pre) {
		k = len(pre)
	}
	prefix, group, trailer := pre[:len(pre)-k], pre[len(pre)-k:], post[mirrored:]

	for _, p := range prefix {
		b.read(p)
	}

	inner := make(map[string]bool)
	body := make([]translate.Step, 0, len(group))
	fields := make([]translate.Field, 0, len(group))
	for i, p := range group {
		slot, step := b.slot(p, inner)
		if i == 0 && step.Op == translate.OpReadNext {
			// a repetition always starts with an element
			step = translate.Step{Op: translate.OpReadNextOrFail, Slot: slot.Name, Type: slot.Type, Field: strings.TrimSuffix(p, "?")}
		}
		body = append(body, step)
		fields = append(fields, translate.Field{Key: slot.Name, Type: slot.Type, Optional: isOptional(p)})
	}

	collect := translate.Step{
		Op:      translate.OpCollect,
		Min:     1,
		Reserve: len(trailer),
		Body:    body,
	}
	if len(group) == 1 {
		collect.Slot = uniqueName(fields[0].Key+"s", fields[0].Key+"_list", b.names)
		collect.Type = fields[0].Type
	} else {
		collect.Bundle = naming.TitleCase(b.union + " " + b.caseName() + " item")
		collect.Slot = uniqueName("items", "item_list", b.names)
		collect.Type = translate.Named(collect.Bundle)
		b.aux = append(b.aux, &translate.Record{
			Name:   collect.Bundle,
			Doc:    fmt.Sprintf("One repetition of the variadic arguments of %q.", b.op.Name),
			Fields: fields,
			Caps:   objectCaps,
		})
	}
	b.slots = append(b.slots, translate.Slot{Name: collect.Slot, Type: translate.List(collect.Type)})
	b.steps = append(b.steps, collect)

	for _, p := range trailer {
		b.read(p)
	}
	b.construct()
	return nil
}

// overloaded delegates the elements to a positional Options union with one
// case per overload.
func (b *branch) overloaded() error {
	names, err := b.overloadNames()
	if err != nil {
		return err
	}

	options := naming.TitleCase(b.union + " " + b.caseName() + " options")
	sub := &translate.TaggedUnion{
		Name:     options,
		Doc:      fmt.Sprintf("Call shapes of %q.", b.op.Name),
		Dispatch: translate.DispatchPositional,
		Caps:     objectCaps,
		Cases:    make([]translate.Case, len(b.op.Overloads)),
	}
	for i, o := range b.op.Overloads {
		taken := make(map[string]bool)
		c := translate.Case{Name: names[i], Payload: make([]translate.Slot, 0, len(o.Parameters))}
		for _, p := range o.Parameters {
			slot, _ := b.slot(p, taken)
			c.Payload = append(c.Payload, slot)
		}
		sub.Cases[i] = c
	}
	b.aux = append(b.aux, sub)

	b.names["options"] = true
	b.slots = []translate.Slot{{Name: "options", Type: translate.Named(options)}}
	b.steps = []translate.Step{{Op: translate.OpReadRest, Slot: "options", Union: options}}
	b.construct()
	return nil
}

// overloadNames names each overload by the first property that tells all
// of them apart: output type, parameter count, then first parameter.
func (b *branch) overloadNames() ([]string, error) {
	overloads := b.op.Overloads
	strategies := []func(schema.Overload) (string, bool){
		func(o schema.Overload) (string, bool) {
			return naming.TitleCase(o.Output.String()), o.Output.String() != ""
		},
		func(o schema.Overload) (string, bool) {
			return fmt.Sprintf("%dParams", len(o.Parameters)), true
		},
		func(o schema.Overload) (string, bool) {
			if len(o.Parameters) == 0 {
				return "", false
			}
			return naming.TitleCase(stripIndex(o.Parameters[0])), true
		},
	}

	for _, strategy := range strategies {
		if names, ok := distinct(overloads, strategy); ok {
			return names, nil
		}
	}
	return nil, b.ambiguous("overloads differ in neither output type, parameter count nor first parameter")
}

func distinct(overloads []schema.Overload, name func(schema.Overload) (string, bool)) ([]string, bool) {
	names := make([]string, len(overloads))
	seen := make(map[string]bool, len(overloads))
	for i, o := range overloads {
		n, ok := name(o)
		if !ok || n == "" || seen[n] {
			return nil, false
		}
		seen[n] = true
		names[i] = n
	}
	return names, true
}

func (b *branch) ambiguous(reason string) error {
	return &refgenerr.AmbiguityError{
		Operation: b.op.Name,
		Reason:    reason,
		Spec:      renderOperation(b.op),
	}
}

// renderOperation returns the operation as written, or a listing of its
// overloads when the source is not available.
func renderOperation(op *schema.Operation) string {
	if op.Source != nil {
		return op.Source.JSON()
	}
	lines := make([]string, len(op.Overloads))
	for i, o := range op.Overloads {
		lines[i] = fmt.Sprintf("(%s) -> %s", strings.Join(o.Parameters, ", "), o.Output)
	}
	return strings.Join(lines, "\n")
}

// paramType maps the declared type of parameter p to a slot type. Literal
// scalars become builtins, references stay named and everything else is
// kept as an undecoded value.
func paramType(op *schema.Operation, p string) translate.TypeRef {
	name := strings.TrimSuffix(p, "?")
	param, ok := findParam(op.Parameters, name)
	if !ok {
		return translate.Prim(translate.Value)
	}

	pt := param.Type
	switch pt.Kind {
	case schema.ParamLiteral:
		switch pt.Name {
		case "number":
			return translate.Prim(translate.Number)
		case "string":
			return translate.Prim(translate.String)
		case "boolean":
			return translate.Prim(translate.Bool)
		}
	case schema.ParamReference:
		return translate.Named(naming.TitleCase(pt.Name))
	}
	return translate.Prim(translate.Value)
}

func findParam(params []schema.Parameter, name string) (schema.Parameter, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	stripped := stripIndex(name)
	for _, p := range params {
		if stripIndex(p.Name) == stripped {
			return p, true
		}
	}
	return schema.Parameter{}, false
}

// stripIndex removes the optional marker and index parts from a parameter
// name: "var_1_name" and "var_i_name" both become "var_name".
func stripIndex(p string) string {
	p = strings.TrimSuffix(p, "?")
	parts := strings.Split(p, "_")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if isIndex(part) {
			continue
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return p
	}
	return strings.Join(kept, "_")
}

func isIndex(part string) bool {
	switch part {
	case "n", "i", "N":
		return true
	case "":
		return false
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isOptional(p string) bool { return strings.HasSuffix(p, "?") }

func countMarkers(params []string) int {
	n := 0
	for _, p := range params {
		if p == variadicMarker {
			n++
		}
	}
	return n
}

func indexOf(params []string, s string) int {
	for i, p := range params {
		if p == s {
			return i
		}
	}
	return -1
}

// uniqueName returns name, or fallback when name is taken, or fallback with
// a numeric suffix. The result is marked as taken.
func uniqueName(name, fallback string, taken map[string]bool) string {
	candidate := name
	if taken[candidate] {
		candidate = naming.LowerCase(strings.TrimSuffix(fallback, "?"))
	}
	for i := 2; taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d", naming.LowerCase(strings.TrimSuffix(fallback, "?")), i)
	}
	taken[candidate] = true
	return candidate
}
