// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"strconv"

	"github.com/dacolabs/refgen/internal/document"
	"github.com/dacolabs/refgen/internal/refgenerr"
)

// object reads the members of a document object and remembers which keys
// were consumed, so that done can reject everything else.
type object struct {
	path string
	v    *document.Value
	used map[string]bool
}

func asObject(path string, v *document.Value) (*object, error) {
	if v == nil || v.Kind != document.Object {
		return nil, refgenerr.Decodef(path, "expected object, got %s", kindOf(v))
	}
	return &object{path: path, v: v, used: make(map[string]bool)}, nil
}

func (o *object) child(key string) string {
	return join(o.path, key)
}

func (o *object) take(key string) (*document.Value, bool) {
	o.used[key] = true
	return o.v.Get(key)
}

// skip marks key as accepted without reading it.
func (o *object) skip(key string) {
	o.used[key] = true
}

// done fails on the first member that no reader consumed.
func (o *object) done() error {
	for _, m := range o.v.Members {
		if !o.used[m.Key] {
			return refgenerr.Decodef(o.path, "unknown field %q", m.Key)
		}
	}
	return nil
}

func (o *object) str(key string, required bool) (string, error) {
	v, ok := o.take(key)
	if !ok {
		if required {
			return "", refgenerr.Decodef(o.path, "missing required field %q", key)
		}
		return "", nil
	}
	if v.Kind != document.String {
		return "", refgenerr.Decodef(o.child(key), "expected string, got %s", v.Kind)
	}
	return v.Text, nil
}

func (o *object) boolean(key string) (bool, error) {
	v, ok := o.take(key)
	if !ok {
		return false, nil
	}
	if v.Kind != document.Bool {
		return false, refgenerr.Decodef(o.child(key), "expected boolean, got %s", v.Kind)
	}
	return v.Bool, nil
}

func (o *object) number(key string) (string, error) {
	v, ok := o.take(key)
	if !ok {
		return "", nil
	}
	if v.Kind != document.Number {
		return "", refgenerr.Decodef(o.child(key), "expected number, got %s", v.Kind)
	}
	return v.Text, nil
}

func (o *object) count(key string) (int, error) {
	text, err := o.number(key)
	if err != nil || text == "" {
		return 0, err
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, refgenerr.Decodef(o.child(key), "expected non-negative integer, got %s", text)
	}
	return n, nil
}

// value returns the raw member under key, checking its kind when want is
// not Null.
func (o *object) value(key string, want document.Kind, required bool) (*document.Value, error) {
	v, ok := o.take(key)
	if !ok {
		if required {
			return nil, refgenerr.Decodef(o.path, "missing required field %q", key)
		}
		return nil, nil
	}
	if want != document.Null && v.Kind != want {
		return nil, refgenerr.Decodef(o.child(key), "expected %s, got %s", want, v.Kind)
	}
	return v, nil
}

func kindOf(v *document.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind.String()
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
