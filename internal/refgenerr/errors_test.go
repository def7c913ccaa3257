// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package refgenerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeError_ListsAttempts(t *testing.T) {
	err := NoShape("layers.fill", []Attempt{
		{Shape: "single", Err: New("missing type")},
		{Shape: "group", Err: New("member \"x\" is not an object")},
	})

	msg := err.Error()
	assert.Contains(t, msg, `decode "layers.fill": no shape matched`)
	assert.Contains(t, msg, "single: missing type")
	assert.Contains(t, msg, "group: member")
}

func TestDecodeError_SurvivesWrapping(t *testing.T) {
	wrapped := Wrap(Decodef("version", "unsupported version %d", 7), "load reference")

	var decodeErr *DecodeError
	require.True(t, As(wrapped, &decodeErr))
	assert.Equal(t, "version", decodeErr.Path)
	assert.Contains(t, wrapped.Error(), "load reference")
}

func TestReferenceError(t *testing.T) {
	err := &ReferenceError{Unresolved: []Unresolved{
		{Target: "Layer", Location: "RootLayers"},
		{Target: "Missing", Location: "Sources.entries"},
	}}

	assert.Equal(t,
		"2 unresolved reference(s): Layer (referenced from RootLayers), Missing (referenced from Sources.entries)",
		err.Error())
}

func TestAmbiguityError(t *testing.T) {
	err := &AmbiguityError{Operation: "interpolate", Reason: "overload names collide", Spec: `{"syntax":{}}`}
	assert.Contains(t, err.Error(), "ambiguous interpolate: overload names collide")
	assert.Contains(t, err.Error(), `{"syntax":{}}`)
}

func TestRangeError(t *testing.T) {
	err := &RangeError{Type: "RootVersion", Value: "300", Max: 255}
	assert.Equal(t, "RootVersion: value 300 outside 0..=255", err.Error())
}
