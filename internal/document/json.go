// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// ParseJSON reads one JSON document. Numbers keep their source text and
// duplicate keys are rejected.
func ParseJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readValue(dec, "")
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func readValue(dec *json.Decoder, path string) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location(path), err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return readObject(dec, path)
		case '[':
			return readArray(dec, path)
		default:
			return nil, fmt.Errorf("%s: unexpected delimiter %q", location(path), rune(t))
		}
	case string:
		return &Value{Kind: String, Text: t}, nil
	case json.Number:
		return &Value{Kind: Number, Text: string(t)}, nil
	case float64:
		return &Value{Kind: Number, Text: fmt.Sprint(t)}, nil
	case bool:
		return &Value{Kind: Bool, Bool: t}, nil
	case nil:
		return &Value{Kind: Null}, nil
	default:
		return nil, fmt.Errorf("%s: unexpected token %v", location(path), tok)
	}
}

func readObject(dec *json.Decoder, path string) (*Value, error) {
	obj := &Value{Kind: Object}
	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", location(path), err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected object key, got %v", location(path), keyTok)
		}
		if seen[key] {
			return nil, fmt.Errorf("%s: duplicate key %q", location(path), key)
		}
		seen[key] = true

		child, err := readValue(dec, join(path, key))
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, Member{Key: key, Value: child})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%s: %w", location(path), err)
	}
	return obj, nil
}

func readArray(dec *json.Decoder, path string) (*Value, error) {
	arr := &Value{Kind: Array, Items: []*Value{}}
	for i := 0; dec.More(); i++ {
		item, err := readValue(dec, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
	}

	// closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%s: %w", location(path), err)
	}
	return arr, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func location(path string) string {
	if path == "" {
		return "document"
	}
	return path
}
