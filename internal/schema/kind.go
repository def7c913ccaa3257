// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import "fmt"

// Kind is the declared type of a node. The set is closed: a "type" string
// that names no Kind makes the node a reference to a named entry.
type Kind int

// Node kinds.
const (
	KindReference Kind = iota
	KindNumber
	KindEnum
	KindArray
	KindColor
	KindString
	KindBoolean
	KindAny
	KindResolvedImage
	KindNumberArray
	KindColorArray
	KindVariableAnchorOffsetCollection
	KindTransition
	KindTerrain
	KindState
	KindPadding
	KindPaint
	KindLight
	KindLayout
	KindFormatted
	KindFilter
	KindExpression
	KindSprite
	KindPromoteID
	KindSources
	KindSource
	KindSky
	KindProjection
	KindProjectionDefinition
	KindFontFaces
	KindPropertyType
)

var kindNames = map[Kind]string{
	KindReference:                      "reference",
	KindNumber:                         "number",
	KindEnum:                           "enum",
	KindArray:                          "array",
	KindColor:                          "color",
	KindString:                         "string",
	KindBoolean:                        "boolean",
	KindAny:                            "*",
	KindResolvedImage:                  "resolvedImage",
	KindNumberArray:                    "numberArray",
	KindColorArray:                     "colorArray",
	KindVariableAnchorOffsetCollection: "variableAnchorOffsetCollection",
	KindTransition:                     "transition",
	KindTerrain:                        "terrain",
	KindState:                          "state",
	KindPadding:                        "padding",
	KindPaint:                          "paint",
	KindLight:                          "light",
	KindLayout:                         "layout",
	KindFormatted:                      "formatted",
	KindFilter:                         "filter",
	KindExpression:                     "expression",
	KindSprite:                         "sprite",
	KindPromoteID:                      "promoteId",
	KindSources:                        "sources",
	KindSource:                         "source",
	KindSky:                            "sky",
	KindProjection:                     "projection",
	KindProjectionDefinition:           "projectionDefinition",
	KindFontFaces:                      "fontFaces",
	KindPropertyType:                   "property-type",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if k != KindReference {
			m[name] = k
		}
	}
	return m
}()

// ParseKind returns the Kind spelled name in a document.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
