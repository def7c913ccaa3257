// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package naming converts reference document keys into identifiers.
//
// Keys in a reference document are free-form: kebab-case property names,
// camelCase kinds, and bare operator symbols such as "!=" or "%". TitleCase
// and LowerCase map any of them onto a stable identifier. Both functions are
// total and idempotent: feeding their output back in returns it unchanged.
package naming

import (
	"fmt"
	"strings"
)

// symbols spells out operator characters for keys that contain no letters
// or digits at all.
var symbols = map[rune]string{
	'%': "percentage",
	'!': "not",
	'=': "equal",
	'>': "greater",
	'<': "less",
	'^': "power",
	'+': "plus",
	'-': "minus",
	'*': "multiply",
	'/': "divide",
	'_': "underscore",
	'.': "dot",
	'?': "question",
	'&': "and",
	'|': "or",
	'~': "tilde",
	'$': "dollar",
	'#': "hash",
	'@': "at",
}

// keywords are Go reserved words. LowerCase output is used for struct field
// keys, so a collision is escaped with a trailing underscore.
var keywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// TitleCase converts a key into an exported identifier.
//
//	"fill-color"  -> "FillColor"
//	"!="          -> "NotEqual"
//	"!has"        -> "NotHas"
//	"%"           -> "Percentage"
//
// Letters inside a word keep their case, so "resolvedImage" becomes
// "ResolvedImage" and an already title-cased identifier is returned as is.
func TitleCase(key string) string {
	var sb strings.Builder
	for _, w := range parts(key) {
		sb.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return sb.String()
}

// LowerCase converts a key into a lower snake_case identifier. Camel humps
// are split ("XMLHttpRequest" -> "xml_http_request"), a leading digit gets an
// underscore prefix and Go keywords get an underscore suffix.
func LowerCase(key string) string {
	var words []string
	for _, p := range parts(key) {
		for _, w := range splitCamel(p) {
			words = append(words, strings.ToLower(w))
		}
	}

	result := strings.Join(words, "_")
	if result != "" && isDigit(rune(result[0])) {
		result = "_" + result
	}
	if keywords[result] {
		result += "_"
	}
	return result
}

// parts splits a key into the words that make up its identifier.
func parts(key string) []string {
	if key == "" {
		return nil
	}
	if strings.HasPrefix(key, "!") && len(key) > 1 && hasAlnum(key[1:]) {
		return append([]string{"not"}, parts(key[1:])...)
	}
	if !hasAlnum(key) {
		return symbolWords(key)
	}
	return strings.FieldsFunc(key, func(r rune) bool { return !isAlnum(r) })
}

func symbolWords(key string) []string {
	words := make([]string, 0, len(key))
	for _, r := range key {
		if w, ok := symbols[r]; ok {
			words = append(words, w)
			continue
		}
		words = append(words, fmt.Sprintf("u%04x", r))
	}
	return words
}

// splitCamel breaks "fooBar" into "foo", "Bar" and "XMLHttp" into "XML",
// "Http".
func splitCamel(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := isUpper(cur) && !isUpper(prev)
		if isUpper(prev) && isUpper(cur) && i+1 < len(runes) && isLower(runes[i+1]) {
			boundary = true
		}
		if boundary {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

func hasAlnum(s string) bool {
	return strings.IndexFunc(s, isAlnum) >= 0
}

func isAlnum(r rune) bool { return isLower(r) || isUpper(r) || isDigit(r) }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
