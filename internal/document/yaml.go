// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads one YAML document into the same tree ParseJSON produces.
// Anchors and aliases are expanded.
func ParseYAML(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("empty YAML document")
	}
	return fromNode(root.Content[0], "")
}

func fromNode(n *yaml.Node, path string) (*Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromNode(n.Alias, path)
	case yaml.MappingNode:
		obj := &Value{Kind: Object}
		seen := make(map[string]bool)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%s: line %d: mapping keys must be scalars", location(path), keyNode.Line)
			}
			key := keyNode.Value
			if seen[key] {
				return nil, fmt.Errorf("%s: line %d: duplicate key %q", location(path), keyNode.Line, key)
			}
			seen[key] = true

			child, err := fromNode(valNode, join(path, key))
			if err != nil {
				return nil, err
			}
			obj.Members = append(obj.Members, Member{Key: key, Value: child})
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := &Value{Kind: Array, Items: make([]*Value, 0, len(n.Content))}
		for i, c := range n.Content {
			item, err := fromNode(c, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, item)
		}
		return arr, nil
	case yaml.ScalarNode:
		return fromScalar(n, path)
	default:
		return nil, fmt.Errorf("%s: line %d: unsupported YAML node", location(path), n.Line)
	}
}

func fromScalar(n *yaml.Node, path string) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return &Value{Kind: Null}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", location(path), n.Line, err)
		}
		return &Value{Kind: Bool, Bool: b}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", location(path), n.Line, err)
		}
		return &Value{Kind: Number, Text: strconv.FormatInt(i, 10)}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", location(path), n.Line, err)
		}
		return &Value{Kind: Number, Text: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	default:
		return &Value{Kind: String, Text: n.Value}, nil
	}
}
