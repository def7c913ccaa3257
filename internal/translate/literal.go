// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// FindCase returns the case called name.
func (u *TaggedUnion) FindCase(name string) (*Case, error) {
	for i := range u.Cases {
		if u.Cases[i].Name == name {
			return &u.Cases[i], nil
		}
	}
	return nil, fmt.Errorf("%s has no case %s", u.Name, name)
}

// EncodeLiteral renders lit as the compact JSON a value of type t decodes
// from. Named types are looked up in idx (see Index).
func EncodeLiteral(lit Literal, t TypeRef, idx map[string]Declaration) (string, error) {
	switch lit.Kind {
	case LitNumber, LitJSON:
		return lit.Text, nil
	case LitBool:
		return strconv.FormatBool(lit.Bool), nil
	case LitString:
		b, err := json.Marshal(lit.Text)
		return string(b), err
	case LitList:
		elem := elemOf(t, idx)
		items := make([]string, len(lit.Items))
		for i, it := range lit.Items {
			s, err := EncodeLiteral(it, elem, idx)
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		return "[" + strings.Join(items, ",") + "]", nil
	case LitCase:
		u := UnionOf(t, idx)
		if u == nil {
			return "", fmt.Errorf("case %s for non-union type %s", lit.Case, t)
		}
		c, err := u.FindCase(lit.Case)
		if err != nil {
			return "", err
		}
		if lit.Payload != nil {
			if len(c.Payload) != 1 {
				return "", fmt.Errorf("case %s.%s does not take a single value", u.Name, c.Name)
			}
			return EncodeLiteral(*lit.Payload, c.Payload[0].Type, idx)
		}
		switch u.Dispatch {
		case DispatchNumber:
			return strconv.Itoa(c.Value), nil
		case DispatchName:
			b, err := json.Marshal(c.Wire())
			return string(b), err
		default:
			return "", fmt.Errorf("case %s.%s needs a value", u.Name, c.Name)
		}
	default:
		return "", fmt.Errorf("unhandled literal %s", lit)
	}
}

// Unwrap follows wrapper records from a named type to the type they wrap.
func Unwrap(t TypeRef, idx map[string]Declaration) TypeRef {
	for seen := 0; t.Kind == TypeNamed && seen < len(idx); seen++ {
		r, ok := idx[t.Name].(*Record)
		if !ok {
			return t
		}
		w, ok := r.Wrapped()
		if !ok {
			return t
		}
		t = w
	}
	return t
}

// UnionOf returns the union t refers to through wrappers and optionality,
// or nil.
func UnionOf(t TypeRef, idx map[string]Declaration) *TaggedUnion {
	t = Unwrap(t, idx)
	if t.Kind == TypeOptional {
		t = Unwrap(*t.Elem, idx)
	}
	if t.Kind != TypeNamed {
		return nil
	}
	u, _ := idx[t.Name].(*TaggedUnion)
	return u
}

func elemOf(t TypeRef, idx map[string]Declaration) TypeRef {
	t = Unwrap(t, idx)
	if (t.Kind == TypeList || t.Kind == TypeArray) && t.Elem != nil {
		return *t.Elem
	}
	return Prim(Value)
}
