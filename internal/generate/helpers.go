// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"github.com/dacolabs/refgen/internal/naming"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/schema"
	"github.com/dacolabs/refgen/internal/translate"
)

// Names of the fixed helper declarations some kinds rely on.
const (
	spriteURLAndID       = "SpriteUrlAndId"
	fontWithRange        = "FontWithRange"
	fontFace             = "FontFace"
	availableProjections = "AvailableProjections"
)

const spriteURLAndIDDoc = `Defining an id and a url for a sprite allows loading several sprites at once.

Images of a sprite other than "default" are referenced as "<sprite id>:<image id>".`

// helper emits the declarations built by build the first time name is
// requested.
func (g *generator) helper(name string, build func() []translate.Declaration) {
	if g.helpers[name] {
		return
	}
	g.helpers[name] = true
	g.emit(build()...)
}

func (g *generator) sprite(name string, n *schema.Node) {
	g.helper(spriteURLAndID, func() []translate.Declaration {
		return []translate.Declaration{&translate.Record{
			Name: spriteURLAndID,
			Doc:  spriteURLAndIDDoc,
			Fields: []translate.Field{
				{Key: "id", Type: translate.Prim(translate.String), Doc: "Identifier of a sprite."},
				{Key: "url", Type: translate.Prim(translate.String), Doc: "URL the sprite is loaded from."},
			},
			Caps: objectCaps,
		}}
	})

	g.emit(&translate.TaggedUnion{
		Name:     name,
		Doc:      n.Doc,
		Dispatch: translate.DispatchUntagged,
		Cases: []translate.Case{
			{
				Name:    "Url",
				Doc:     "A single sprite URL, loaded as the default sprite.",
				Payload: []translate.Slot{{Name: "value", Type: translate.Prim(translate.String)}},
			},
			{
				Name:    "Multiple",
				Doc:     "Several sprites, each with its own id.",
				Payload: []translate.Slot{{Name: "values", Type: translate.List(translate.Named(spriteURLAndID))}},
			},
		},
		Caps:     objectCaps,
		Examples: examples(n),
	})
}

func (g *generator) fontFaces(name string, n *schema.Node) {
	g.helper(fontFace, func() []translate.Declaration {
		return []translate.Declaration{
			&translate.Record{
				Name: fontWithRange,
				Doc:  "Font file URL and the unicode range it is used for.",
				Fields: []translate.Field{
					{Key: "url", Type: translate.Prim(translate.String), Doc: "URL the font is loaded from."},
					{Key: "unicode_range", Type: translate.List(translate.Prim(translate.String)), RenameFrom: "unicode-range", Doc: "Unicode characters this font is used for."},
				},
				Caps: objectCaps,
			},
			&translate.TaggedUnion{
				Name:     fontFace,
				Dispatch: translate.DispatchUntagged,
				Cases: []translate.Case{
					{
						Name:    "Url",
						Doc:     "A single font file URL used for every character.",
						Payload: []translate.Slot{{Name: "value", Type: translate.Prim(translate.String)}},
					},
					{
						Name:    "Ranges",
						Doc:     "Different font files depending on the unicode range.",
						Payload: []translate.Slot{{Name: "values", Type: translate.List(translate.Named(fontWithRange))}},
					},
				},
				Caps: objectCaps,
			},
		}
	})

	g.newtype(name, n.Doc, translate.Map(translate.Named(fontFace)), n)
}

var projections = []schema.EnumEntry{
	{Key: "mercator", Doc: "Web Mercator projection."},
	{Key: "vertical-perspective", Doc: "Vertical perspective projection."},
}

func (g *generator) projectionDefinition(name string, n *schema.Node) error {
	g.helper(availableProjections, func() []translate.Declaration {
		return []translate.Declaration{nameEnum(availableProjections, "Projections a style can name directly.", projections, nil)}
	})

	g.emit(&translate.TaggedUnion{
		Name:     name,
		Doc:      n.Doc,
		Dispatch: translate.DispatchUntagged,
		Cases: []translate.Case{
			{
				Name:    "Raw",
				Doc:     "A projection given by name.",
				Payload: []translate.Slot{{Name: "value", Type: translate.Named(availableProjections)}},
			},
			{
				Name:    "Expression",
				Doc:     "A projection computed from a camera expression.",
				Payload: []translate.Slot{{Name: "values", Type: translate.List(translate.Prim(translate.Value))}},
			},
		},
		Caps:     objectCaps,
		Examples: examples(n),
	})

	if n.Default == nil {
		return nil
	}
	choice := naming.TitleCase(n.Default.Text)
	for _, p := range projections {
		if naming.TitleCase(p.Key) == choice {
			raw := translate.Literal{Kind: translate.LitCase, Case: choice}
			g.setDefault(name, translate.Literal{Kind: translate.LitCase, Case: "Raw", Payload: &raw})
			return nil
		}
	}
	return refgenerr.Newf("%s: default %q is not an available projection", name, n.Default.Text)
}
