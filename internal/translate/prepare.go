// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

// FileData is the template view of a declaration list.
type FileData struct {
	Decls []DeclData
	// Extra holds translator-specific values such as the package name.
	Extra map[string]any
}

// DeclData wraps one prepared declaration. Exactly one pointer is set,
// matching Kind.
type DeclData struct {
	Kind    string
	Record  *RecordData
	Union   *UnionData
	Default *DefaultData
	Decoder *DecoderData
}

// RecordData is the template view of a Record.
type RecordData struct {
	Name   string
	Doc    string
	Fields []FieldData
	// Wrapped is the resolved type of a transparent wrapper, empty otherwise.
	Wrapped  string
	Caps     Caps
	Examples []string
	Source   *Record
}

// FieldData is the template view of a record field.
type FieldData struct {
	Name     string
	Key      string
	Type     string
	Doc      string
	Optional bool
	Flatten  bool
	Tag      string
	Ref      TypeRef
}

// UnionData is the template view of a TaggedUnion.
type UnionData struct {
	Name     string
	Doc      string
	TagField string
	Dispatch Dispatch
	Cases    []CaseData
	Caps     Caps
	Examples []string
	Source   *TaggedUnion
}

// CaseData is the template view of a union case.
type CaseData struct {
	Name  string
	Wire  string
	Doc   string
	Value int
	Slots []SlotData
}

// SlotData is the template view of a case payload slot.
type SlotData struct {
	Name string
	Type string
	Ref  TypeRef
}

// DefaultData is the template view of a DefaultValueProvider. Target is the
// declaration the default belongs to, or nil when it is not in the list.
type DefaultData struct {
	TypeName string
	Value    Literal
	Target   Declaration
}

// DecoderData is the template view of a CustomDecoder.
type DecoderData struct {
	TypeName string
	Union    *TaggedUnion
	Branches []Branch
	Fallback []Step
}

// Prepare converts a declaration list into a FileData ready for template execution.
// Declarations keep their order; names and types are resolved with the provided TypeResolver.
func Prepare(decls []Declaration, resolver TypeResolver) *FileData {
	idx := Index(decls)
	data := &FileData{
		Decls: make([]DeclData, 0, len(decls)),
		Extra: make(map[string]any),
	}

	for _, d := range decls {
		dd := DeclData{Kind: Kind(d)}
		switch d := d.(type) {
		case *Record:
			dd.Record = prepareRecord(d, resolver)
		case *TaggedUnion:
			dd.Union = prepareUnion(d, resolver)
		case *DefaultValueProvider:
			dd.Default = &DefaultData{
				TypeName: resolver.TypeName(d.TypeName),
				Value:    d.Value,
				Target:   idx[d.TypeName],
			}
		case *CustomDecoder:
			dec := &DecoderData{
				TypeName: resolver.TypeName(d.TypeName),
				Branches: d.Branches,
				Fallback: d.Fallback,
			}
			if u, ok := idx[d.TypeName].(*TaggedUnion); ok {
				dec.Union = u
			}
			dd.Decoder = dec
		}
		data.Decls = append(data.Decls, dd)
	}
	return data
}

func prepareRecord(r *Record, resolver TypeResolver) *RecordData {
	rd := &RecordData{
		Name:     resolver.TypeName(r.Name),
		Doc:      r.Doc,
		Caps:     r.Caps,
		Examples: r.Examples,
		Source:   r,
	}
	if t, ok := r.Wrapped(); ok {
		rd.Wrapped = ResolveType(resolver, t)
		return rd
	}

	rd.Fields = make([]FieldData, 0, len(r.Fields))
	for _, f := range r.Fields {
		fd := FieldData{
			Name:     f.Key,
			Key:      f.Wire(),
			Type:     ResolveType(resolver, f.Type),
			Doc:      f.Doc,
			Optional: f.Optional,
			Flatten:  f.Flatten,
			Ref:      f.Type,
		}
		resolver.EnrichField(&fd)
		rd.Fields = append(rd.Fields, fd)
	}
	return rd
}

func prepareUnion(u *TaggedUnion, resolver TypeResolver) *UnionData {
	ud := &UnionData{
		Name:     resolver.TypeName(u.Name),
		Doc:      u.Doc,
		TagField: u.TagField,
		Dispatch: u.Dispatch,
		Caps:     u.Caps,
		Examples: u.Examples,
		Source:   u,
		Cases:    make([]CaseData, 0, len(u.Cases)),
	}
	for _, c := range u.Cases {
		cd := CaseData{
			Name:  resolver.CaseName(c.Name),
			Wire:  c.Wire(),
			Doc:   c.Doc,
			Value: c.Value,
			Slots: make([]SlotData, 0, len(c.Payload)),
		}
		for _, s := range c.Payload {
			cd.Slots = append(cd.Slots, SlotData{
				Name: resolver.CaseName(s.Name),
				Type: ResolveType(resolver, s.Type),
				Ref:  s.Type,
			})
		}
		ud.Cases = append(ud.Cases, cd)
	}
	return ud
}
