package assertion

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// unary types take a single child in the compact form, so
// "each:gt:3" is each over gt 3 while "contains:3" keeps 3 as the
// value. The child of "not" is always a definition.
var unary = map[string]bool{
	"not":      true,
	"each":     true,
	"contains": true,
	"len":      true,
}

// ParseDefinition parses a compact definition of the form
// "type:value". If no colon is present the entire string is the
// type. Scalar values are decoded as YAML, so "gt:3" carries the
// number 3 and "eq:true" the boolean true; anything that does
// not decode to a scalar is kept as text.
//
// Examples:
//
//	"not_empty"         -> {Type: "not_empty"}
//	"prefix:http"       -> {Type: "prefix", Value: "http"}
//	"contains:3"        -> {Type: "contains", Value: 3}
//	"each:gt:0"         -> {Type: "each", Children: [{Type: "gt", Value: 0}]}
func ParseDefinition(s string) (Definition, error) {
	s = strings.TrimSpace(s)
	typ, rest, hasValue := strings.Cut(s, ":")
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return Definition{}, fmt.Errorf("empty matcher type in %q", s)
	}

	def := Definition{Type: typ}
	if !hasValue {
		return def, nil
	}

	if unary[typ] && (typ == "not" || strings.Contains(rest, ":")) {
		child, err := ParseDefinition(rest)
		if err != nil {
			return Definition{}, fmt.Errorf("%s: %w", typ, err)
		}
		def.Children = []Definition{child}
		return def, nil
	}

	def.Value = scalar(rest)
	return def, nil
}

// scalar decodes s as a YAML scalar, or returns it unchanged.
func scalar(s string) any {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(s), &node); err != nil {
		return s
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) != 1 ||
		node.Content[0].Kind != yaml.ScalarNode {
		return s
	}
	var v any
	if err := node.Content[0].Decode(&v); err != nil {
		return s
	}
	return v
}
