// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"fmt"
	"sort"

	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/translate"
)

// Check verifies that decls can be rendered: declaration names are unique,
// identifiers inside each record and union are unique, and every named type
// referenced anywhere is declared. Name clashes are reported as an
// *refgenerr.AmbiguityError, dangling references as one
// *refgenerr.ReferenceError listing all of them.
func Check(decls []translate.Declaration) error {
	if err := checkUnique(decls); err != nil {
		return err
	}
	return checkReferences(decls)
}

func checkUnique(decls []translate.Declaration) error {
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		var idents []string
		switch d := d.(type) {
		case *translate.Record:
			for _, f := range d.Fields {
				if f.Key != "" {
					idents = append(idents, f.Key)
				}
			}
		case *translate.TaggedUnion:
			for _, c := range d.Cases {
				idents = append(idents, c.Name)
				if err := unique(d.Name+"."+c.Name, slotNames(c.Payload)); err != nil {
					return err
				}
			}
		default:
			continue
		}

		if declared[d.DeclName()] {
			return &refgenerr.AmbiguityError{Operation: d.DeclName(), Reason: "declared more than once"}
		}
		declared[d.DeclName()] = true
		if err := unique(d.DeclName(), idents); err != nil {
			return err
		}
	}
	return nil
}

func slotNames(slots []translate.Slot) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Name
	}
	return names
}

func unique(owner string, idents []string) error {
	seen := make(map[string]bool, len(idents))
	for _, id := range idents {
		if seen[id] {
			return &refgenerr.AmbiguityError{
				Operation: owner,
				Reason:    fmt.Sprintf("identifier %q is produced by more than one key", id),
			}
		}
		seen[id] = true
	}
	return nil
}

func checkReferences(decls []translate.Declaration) error {
	declared := translate.Index(decls)
	first := make(map[string]string)
	use := func(target, location string) {
		if _, ok := declared[target]; ok {
			return
		}
		if _, seen := first[target]; !seen {
			first[target] = location
		}
	}

	for _, d := range decls {
		switch d := d.(type) {
		case *translate.Record:
			for _, f := range d.Fields {
				loc := d.Name
				if f.Key != "" {
					loc += "." + f.Key
				}
				f.Type.Names(func(n string) { use(n, loc) })
			}
		case *translate.TaggedUnion:
			for _, c := range d.Cases {
				for _, s := range c.Payload {
					s.Type.Names(func(n string) { use(n, d.Name+"."+c.Name) })
				}
			}
		case *translate.DefaultValueProvider:
			use(d.TypeName, "default of "+d.TypeName)
		case *translate.CustomDecoder:
			use(d.TypeName, "decoder of "+d.TypeName)
			for _, b := range d.Branches {
				stepRefs(b.Steps, func(n string) { use(n, "decoder of "+d.TypeName+"."+b.Case) })
			}
		}
	}

	if len(first) == 0 {
		return nil
	}
	unresolved := make([]refgenerr.Unresolved, 0, len(first))
	for target, loc := range first {
		unresolved = append(unresolved, refgenerr.Unresolved{Target: target, Location: loc})
	}
	sort.Slice(unresolved, func(i, j int) bool { return unresolved[i].Target < unresolved[j].Target })
	return &refgenerr.ReferenceError{Unresolved: unresolved}
}

func stepRefs(steps []translate.Step, fn func(string)) {
	for _, s := range steps {
		s.Type.Names(fn)
		if s.Union != "" {
			fn(s.Union)
		}
		if s.Bundle != "" {
			fn(s.Bundle)
		}
		stepRefs(s.Body, fn)
	}
}
