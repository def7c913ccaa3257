// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pipeline runs a reference document through every compilation
// stage: decode, discriminant resolution, generation, checking and
// translation.
package pipeline

import (
	"github.com/dacolabs/refgen/internal/discriminant"
	"github.com/dacolabs/refgen/internal/generate"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/schema"
	"github.com/dacolabs/refgen/internal/translate"
)

// Result holds the output of every stage of a compilation.
type Result struct {
	// Decoded is the model as read from the document.
	Decoded *schema.Document
	// Relations are the discriminant relations found in Decoded.
	Relations []discriminant.Relation
	// Resolved is Decoded with the relations applied.
	Resolved *schema.Document
	// Declarations is the checked declaration list.
	Declarations []translate.Declaration
}

// Decode reads the document and resolves its discriminants without
// generating declarations. name selects the parser by extension.
func Decode(name string, data []byte) (*Result, error) {
	doc, err := schema.Parse(name, data)
	if err != nil {
		return nil, refgenerr.Wrapf(err, "decode %s", name)
	}
	rels := discriminant.Resolve(doc)
	return &Result{
		Decoded:   doc,
		Relations: rels,
		Resolved:  discriminant.Apply(doc, rels),
	}, nil
}

// Compile runs every stage up to and including the declaration checks.
func Compile(name string, data []byte, opts generate.Options) (*Result, error) {
	res, err := Decode(name, data)
	if err != nil {
		return nil, err
	}

	decls, err := generate.Generate(res.Resolved, res.Relations, opts)
	if err != nil {
		return nil, err
	}
	if err := generate.Check(decls); err != nil {
		return nil, refgenerr.Wrap(err, "check declarations")
	}
	res.Declarations = decls
	return res, nil
}

// Output is the rendered form of a compilation.
type Output struct {
	Code []byte
	// Tests is the companion test file, nil when the translator has none or
	// no declaration carries examples.
	Tests []byte
}

// Render translates the declarations of res. Tests are rendered only when
// withTests is set and t supports them.
func Render(res *Result, t translate.Translator, opts translate.Options, withTests bool) (*Output, error) {
	code, err := t.Translate(res.Declarations, opts)
	if err != nil {
		return nil, refgenerr.Wrapf(err, "translate to %s", t.Name())
	}
	out := &Output{Code: code}

	et, ok := t.(translate.ExampleTranslator)
	if !withTests || !ok {
		return out, nil
	}
	if out.Tests, err = et.TranslateExamples(res.Declarations, opts); err != nil {
		return nil, refgenerr.Wrapf(err, "translate %s examples", t.Name())
	}
	return out, nil
}

// Stats summarizes a declaration list by variant.
type Stats struct {
	Records  int
	Unions   int
	Defaults int
	Decoders int
}

// Total is the number of declarations counted.
func (s Stats) Total() int { return s.Records + s.Unions + s.Defaults + s.Decoders }

// Count tallies decls by variant.
func Count(decls []translate.Declaration) Stats {
	var s Stats
	for _, d := range decls {
		switch d.(type) {
		case *translate.Record:
			s.Records++
		case *translate.TaggedUnion:
			s.Unions++
		case *translate.DefaultValueProvider:
			s.Defaults++
		case *translate.CustomDecoder:
			s.Decoders++
		}
	}
	return s
}
