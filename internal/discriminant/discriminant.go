// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package discriminant recovers implicit tag fields of one-of unions.
//
// A one-of entry lists other entries by name. When every member is a group
// that carries exactly one single-valued enum field under the same key, that
// field tells the members apart on the wire: {"type": "geojson", ...} versus
// {"type": "vector", ...}. Resolve finds these relations without touching
// the document; Apply returns a copy with the tag fields removed from the
// member groups, because the tag is carried by the union instead.
package discriminant

import (
	"github.com/dacolabs/refgen/internal/schema"
)

// Relation records that Member of Union is identified by TagField holding
// TagValue.
type Relation struct {
	Union    string `yaml:"union" json:"union"`
	Member   string `yaml:"member" json:"member"`
	TagField string `yaml:"tag_field" json:"tag_field"`
	TagValue string `yaml:"tag_value" json:"tag_value"`
}

// Resolve collects the relations of every one-of entry in doc, in entry name
// order. A union yields relations only when all of its members are groups
// with a candidate under one shared key and with pairwise-distinct values;
// otherwise it stays untagged and contributes nothing.
func Resolve(doc *schema.Document) []Relation {
	var rels []Relation
	for i := range doc.Named {
		entry := &doc.Named[i]
		if entry.Kind != schema.EntryOneOf {
			continue
		}
		rels = append(rels, resolveUnion(doc, entry)...)
	}
	return rels
}

func resolveUnion(doc *schema.Document, union *schema.Entry) []Relation {
	rels := make([]Relation, 0, len(union.Members))
	values := make(map[string]bool, len(union.Members))

	for _, name := range union.Members {
		member, ok := doc.Lookup(name)
		if !ok || member.Kind != schema.EntryGroup {
			return nil
		}
		field, value, ok := candidate(member)
		if !ok {
			return nil
		}
		if len(rels) > 0 && rels[0].TagField != field {
			return nil
		}
		if values[value] {
			return nil
		}
		values[value] = true
		rels = append(rels, Relation{Union: union.Name, Member: name, TagField: field, TagValue: value})
	}
	return rels
}

// candidate returns the only single-valued enum field of group.
func candidate(group *schema.Entry) (field, value string, ok bool) {
	found := 0
	for _, f := range group.Fields {
		if v, isTag := f.Node.IsEnumTag(); isTag {
			field, value = f.Key, v
			found++
		}
	}
	return field, value, found == 1
}

// Apply returns a document in which each relation's tag field is removed
// from its member group. doc is not modified; entries without a relation
// are shared with the result.
func Apply(doc *schema.Document, rels []Relation) *schema.Document {
	strip := make(map[string]map[string]bool)
	for _, r := range rels {
		if strip[r.Member] == nil {
			strip[r.Member] = make(map[string]bool)
		}
		strip[r.Member][r.TagField] = true
	}

	out := &schema.Document{
		Version: doc.Version,
		Root:    doc.Root,
		Named:   make([]schema.Entry, len(doc.Named)),
	}
	for i, entry := range doc.Named {
		keys, ok := strip[entry.Name]
		if !ok || entry.Kind != schema.EntryGroup {
			out.Named[i] = entry
			continue
		}

		fields := make([]schema.Field, 0, len(entry.Fields))
		for _, f := range entry.Fields {
			if !keys[f.Key] {
				fields = append(fields, f)
			}
		}
		entry.Fields = fields
		out.Named[i] = entry
	}
	return out
}

// Index groups relations by union name for lookup during generation.
func Index(rels []Relation) map[string][]Relation {
	idx := make(map[string][]Relation)
	for _, r := range rels {
		idx[r.Union] = append(idx[r.Union], r)
	}
	return idx
}
